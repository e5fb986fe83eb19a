package editor

import "github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"

func updateItem[T resume.Item](items []T, id string, apply func(T) T) []T {
	for index, item := range items {
		if item.ItemID() == id {
			items[index] = apply(item)
			break
		}
	}
	return items
}

func removeItem[T resume.Item](items []T, id string) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if item.ItemID() != id {
			kept = append(kept, item)
		}
	}
	return kept
}

func moveItem[T any](items []T, fromIndex, toIndex int) ([]T, bool) {
	if fromIndex < 0 || fromIndex >= len(items) || toIndex < 0 || toIndex >= len(items) {
		return items, false
	}
	moved := items[fromIndex]
	reordered := make([]T, 0, len(items))
	reordered = append(reordered, items[:fromIndex]...)
	reordered = append(reordered, items[fromIndex+1:]...)
	reordered = append(reordered[:toIndex], append([]T{moved}, reordered[toIndex:]...)...)
	return reordered, true
}

// UpdatePersonalInfo merges patch into the personal record.
func (s *Store) UpdatePersonalInfo(patch resume.PersonalInfoPatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Personal = patch.Apply(document.Content.Personal)
	})
}

func (s *Store) UpdateSummary(summary string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Summary = summary
	})
}

// Experience

func (s *Store) AddExperience() error {
	item, err := s.factory.NewExperience()
	if err != nil {
		return s.logAddFailure("experience", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.Experience = append(document.Content.Experience, item)
	})
	return nil
}

// UpdateExperience merges patch into the matching record. Flipping current on
// clears the end date.
func (s *Store) UpdateExperience(id string, patch resume.ExperiencePatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Experience = updateItem(document.Content.Experience, id, func(item resume.Experience) resume.Experience {
			updated := patch.Apply(item)
			if updated.Current {
				updated.EndDate = ""
			}
			return updated
		})
	})
}

func (s *Store) RemoveExperience(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Experience = removeItem(document.Content.Experience, id)
	})
}

// ReorderExperience moves the record at fromIndex to toIndex. Out-of-range
// indices leave the store untouched.
func (s *Store) ReorderExperience(fromIndex, toIndex int) {
	s.apply(ChangeContent, func(state *storeState) transition {
		reordered, ok := moveItem(state.document.Content.Experience, fromIndex, toIndex)
		if !ok {
			return unchanged
		}
		state.document.Content.Experience = reordered
		state.meta.IsDirty = true
		return documentChanged
	})
}

// Education

func (s *Store) AddEducation() error {
	item, err := s.factory.NewEducation()
	if err != nil {
		return s.logAddFailure("education", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.Education = append(document.Content.Education, item)
	})
	return nil
}

func (s *Store) UpdateEducation(id string, patch resume.EducationPatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Education = updateItem(document.Content.Education, id, func(item resume.Education) resume.Education {
			updated := patch.Apply(item)
			if updated.Current {
				updated.EndDate = ""
			}
			return updated
		})
	})
}

func (s *Store) RemoveEducation(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Education = removeItem(document.Content.Education, id)
	})
}

func (s *Store) ReorderEducation(fromIndex, toIndex int) {
	s.apply(ChangeContent, func(state *storeState) transition {
		reordered, ok := moveItem(state.document.Content.Education, fromIndex, toIndex)
		if !ok {
			return unchanged
		}
		state.document.Content.Education = reordered
		state.meta.IsDirty = true
		return documentChanged
	})
}

// Skills

func (s *Store) AddSkill() error {
	item, err := s.factory.NewSkill()
	if err != nil {
		return s.logAddFailure("skill", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.Skills = append(document.Content.Skills, item)
	})
	return nil
}

func (s *Store) UpdateSkill(id string, patch resume.SkillPatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Skills = updateItem(document.Content.Skills, id, patch.Apply)
	})
}

func (s *Store) RemoveSkill(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Skills = removeItem(document.Content.Skills, id)
	})
}

// Links

func (s *Store) AddLink() error {
	item, err := s.factory.NewLink()
	if err != nil {
		return s.logAddFailure("link", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.Links = append(document.Content.Links, item)
	})
	return nil
}

func (s *Store) UpdateLink(id string, patch resume.LinkPatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Links = updateItem(document.Content.Links, id, patch.Apply)
	})
}

func (s *Store) RemoveLink(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Links = removeItem(document.Content.Links, id)
	})
}

// Languages

func (s *Store) AddLanguage() error {
	item, err := s.factory.NewLanguage()
	if err != nil {
		return s.logAddFailure("language", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.Languages = append(document.Content.Languages, item)
	})
	return nil
}

func (s *Store) UpdateLanguage(id string, patch resume.LanguagePatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Languages = updateItem(document.Content.Languages, id, patch.Apply)
	})
}

func (s *Store) RemoveLanguage(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Languages = removeItem(document.Content.Languages, id)
	})
}

// Courses

func (s *Store) AddCourse() error {
	item, err := s.factory.NewCourse()
	if err != nil {
		return s.logAddFailure("course", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.Courses = append(document.Content.Courses, item)
	})
	return nil
}

func (s *Store) UpdateCourse(id string, patch resume.CoursePatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Courses = updateItem(document.Content.Courses, id, patch.Apply)
	})
}

func (s *Store) RemoveCourse(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Courses = removeItem(document.Content.Courses, id)
	})
}

// Certifications

func (s *Store) AddCertification() error {
	item, err := s.factory.NewCertification()
	if err != nil {
		return s.logAddFailure("certification", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.Certifications = append(document.Content.Certifications, item)
	})
	return nil
}

func (s *Store) UpdateCertification(id string, patch resume.CertificationPatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Certifications = updateItem(document.Content.Certifications, id, patch.Apply)
	})
}

func (s *Store) RemoveCertification(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Certifications = removeItem(document.Content.Certifications, id)
	})
}

// Projects

func (s *Store) AddProject() error {
	item, err := s.factory.NewProject()
	if err != nil {
		return s.logAddFailure("project", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.Projects = append(document.Content.Projects, item)
	})
	return nil
}

func (s *Store) UpdateProject(id string, patch resume.ProjectPatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Projects = updateItem(document.Content.Projects, id, func(item resume.Project) resume.Project {
			updated := patch.Apply(item)
			if updated.Current {
				updated.EndDate = ""
			}
			return updated
		})
	})
}

func (s *Store) RemoveProject(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Projects = removeItem(document.Content.Projects, id)
	})
}

// Awards

func (s *Store) AddAward() error {
	item, err := s.factory.NewAward()
	if err != nil {
		return s.logAddFailure("award", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.Awards = append(document.Content.Awards, item)
	})
	return nil
}

func (s *Store) UpdateAward(id string, patch resume.AwardPatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Awards = updateItem(document.Content.Awards, id, patch.Apply)
	})
}

func (s *Store) RemoveAward(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Awards = removeItem(document.Content.Awards, id)
	})
}

// Volunteer

func (s *Store) AddVolunteer() error {
	item, err := s.factory.NewVolunteer()
	if err != nil {
		return s.logAddFailure("volunteer", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.Volunteer = append(document.Content.Volunteer, item)
	})
	return nil
}

func (s *Store) UpdateVolunteer(id string, patch resume.VolunteerPatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Volunteer = updateItem(document.Content.Volunteer, id, func(item resume.Volunteer) resume.Volunteer {
			updated := patch.Apply(item)
			if updated.Current {
				updated.EndDate = ""
			}
			return updated
		})
	})
}

func (s *Store) RemoveVolunteer(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Volunteer = removeItem(document.Content.Volunteer, id)
	})
}

// Publications

func (s *Store) AddPublication() error {
	item, err := s.factory.NewPublication()
	if err != nil {
		return s.logAddFailure("publication", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.Publications = append(document.Content.Publications, item)
	})
	return nil
}

func (s *Store) UpdatePublication(id string, patch resume.PublicationPatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Publications = updateItem(document.Content.Publications, id, patch.Apply)
	})
}

func (s *Store) RemovePublication(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Publications = removeItem(document.Content.Publications, id)
	})
}

// References

func (s *Store) AddReference() error {
	item, err := s.factory.NewReference()
	if err != nil {
		return s.logAddFailure("reference", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.References = append(document.Content.References, item)
	})
	return nil
}

func (s *Store) UpdateReference(id string, patch resume.ReferencePatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.References = updateItem(document.Content.References, id, patch.Apply)
	})
}

func (s *Store) RemoveReference(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.References = removeItem(document.Content.References, id)
	})
}

// Hobbies

func (s *Store) AddHobby() error {
	item, err := s.factory.NewHobby()
	if err != nil {
		return s.logAddFailure("hobby", err)
	}
	s.mutate(func(document *resume.Document) {
		document.Content.Hobbies = append(document.Content.Hobbies, item)
	})
	return nil
}

func (s *Store) UpdateHobby(id string, patch resume.HobbyPatch) {
	s.mutate(func(document *resume.Document) {
		document.Content.Hobbies = updateItem(document.Content.Hobbies, id, patch.Apply)
	})
}

func (s *Store) RemoveHobby(id string) {
	s.mutate(func(document *resume.Document) {
		document.Content.Hobbies = removeItem(document.Content.Hobbies, id)
	})
}
