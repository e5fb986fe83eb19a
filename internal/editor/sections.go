package editor

import "github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"

// AddSection appends id to the section order. It is a no-op when the section
// is already visible or unknown.
func (s *Store) AddSection(id resume.SectionID) {
	s.apply(ChangeContent, func(state *storeState) transition {
		order := state.document.Content.SectionOrder
		if !resume.IsKnownSection(id) || resume.ContainsSection(order, id) {
			return unchanged
		}
		state.document.Content.SectionOrder = append(append([]resume.SectionID{}, order...), id)
		state.meta.IsDirty = true
		return documentChanged
	})
}

// RemoveSection hides an optional section. Mandatory sections stay.
func (s *Store) RemoveSection(id resume.SectionID) {
	s.apply(ChangeContent, func(state *storeState) transition {
		if resume.IsMandatorySection(id) {
			return unchanged
		}
		order := state.document.Content.SectionOrder
		filtered := make([]resume.SectionID, 0, len(order))
		for _, candidate := range order {
			if candidate != id {
				filtered = append(filtered, candidate)
			}
		}
		state.document.Content.SectionOrder = filtered
		state.meta.IsDirty = true
		return documentChanged
	})
}

// ReorderSections replaces the section order wholesale. The command layer
// validates order before it gets here.
func (s *Store) ReorderSections(order []resume.SectionID) {
	s.mutate(func(document *resume.Document) {
		document.Content.SectionOrder = append([]resume.SectionID{}, order...)
	})
}
