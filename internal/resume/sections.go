package resume

import (
	"errors"
	"fmt"
)

// SectionID names a section of resume content.
type SectionID string

const (
	SectionPersonal       SectionID = "personal"
	SectionSummary        SectionID = "summary"
	SectionExperience     SectionID = "experience"
	SectionEducation      SectionID = "education"
	SectionSkills         SectionID = "skills"
	SectionLinks          SectionID = "links"
	SectionLanguages      SectionID = "languages"
	SectionCourses        SectionID = "courses"
	SectionCertifications SectionID = "certifications"
	SectionProjects       SectionID = "projects"
	SectionAwards         SectionID = "awards"
	SectionVolunteer      SectionID = "volunteer"
	SectionPublications   SectionID = "publications"
	SectionReferences     SectionID = "references"
	SectionHobbies        SectionID = "hobbies"
)

var (
	// ErrInvalidSectionOrder wraps every section order validation failure.
	ErrInvalidSectionOrder = errors.New("resume: invalid section order")
	// ErrUnknownSection indicates a section identifier outside the registry.
	ErrUnknownSection = errors.New("resume: unknown section")
	// ErrDuplicateSection indicates a section listed more than once.
	ErrDuplicateSection = errors.New("resume: duplicate section")
	// ErrMissingMandatorySection indicates a permanent section absent from the order.
	ErrMissingMandatorySection = errors.New("resume: mandatory section missing")
)

type sectionInfo struct {
	title     string
	mandatory bool
}

var sectionRegistry = map[SectionID]sectionInfo{
	SectionPersonal:       {title: "Personal Information", mandatory: true},
	SectionSummary:        {title: "Summary", mandatory: true},
	SectionExperience:     {title: "Experience", mandatory: true},
	SectionEducation:      {title: "Education", mandatory: true},
	SectionSkills:         {title: "Skills", mandatory: true},
	SectionLinks:          {title: "Links"},
	SectionLanguages:      {title: "Languages"},
	SectionCourses:        {title: "Courses"},
	SectionCertifications: {title: "Certifications"},
	SectionProjects:       {title: "Projects"},
	SectionAwards:         {title: "Awards"},
	SectionVolunteer:      {title: "Volunteer"},
	SectionPublications:   {title: "Publications"},
	SectionReferences:     {title: "References"},
	SectionHobbies:        {title: "Hobbies"},
}

// DefaultSectionOrder returns the mandatory sections in canonical order.
func DefaultSectionOrder() []SectionID {
	return []SectionID{SectionPersonal, SectionSummary, SectionExperience, SectionEducation, SectionSkills}
}

// OptionalSections returns the sections a user may add, in menu order.
func OptionalSections() []SectionID {
	return []SectionID{
		SectionLinks,
		SectionLanguages,
		SectionCourses,
		SectionCertifications,
		SectionProjects,
		SectionAwards,
		SectionVolunteer,
		SectionPublications,
		SectionReferences,
		SectionHobbies,
	}
}

// IsKnownSection reports whether the identifier is registered.
func IsKnownSection(id SectionID) bool {
	_, ok := sectionRegistry[id]
	return ok
}

// IsMandatorySection reports whether the section can never leave the order.
func IsMandatorySection(id SectionID) bool {
	return sectionRegistry[id].mandatory
}

// SectionTitle returns the display heading for a section.
func SectionTitle(id SectionID) string {
	if info, ok := sectionRegistry[id]; ok {
		return info.title
	}
	return string(id)
}

// ValidateSectionOrder checks that order only names known sections, lists each
// at most once and includes every mandatory section.
func ValidateSectionOrder(order []SectionID) error {
	seen := make(map[SectionID]struct{}, len(order))
	for _, id := range order {
		if !IsKnownSection(id) {
			return fmt.Errorf("%w: %w: %q", ErrInvalidSectionOrder, ErrUnknownSection, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %w: %q", ErrInvalidSectionOrder, ErrDuplicateSection, id)
		}
		seen[id] = struct{}{}
	}
	for _, id := range DefaultSectionOrder() {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("%w: %w: %q", ErrInvalidSectionOrder, ErrMissingMandatorySection, id)
		}
	}
	return nil
}

// RepairSectionOrder drops unknown and duplicate identifiers and re-inserts
// missing mandatory sections at their canonical positions.
func RepairSectionOrder(order []SectionID) []SectionID {
	seen := make(map[SectionID]struct{}, len(order))
	repaired := make([]SectionID, 0, len(order)+len(DefaultSectionOrder()))
	for _, id := range order {
		if !IsKnownSection(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		repaired = append(repaired, id)
	}
	for index, id := range DefaultSectionOrder() {
		if _, ok := seen[id]; ok {
			continue
		}
		position := index
		if position > len(repaired) {
			position = len(repaired)
		}
		repaired = append(repaired[:position], append([]SectionID{id}, repaired[position:]...)...)
	}
	return repaired
}

// ContainsSection reports whether id appears in order.
func ContainsSection(order []SectionID, id SectionID) bool {
	for _, candidate := range order {
		if candidate == id {
			return true
		}
	}
	return false
}
