package resume

import (
	"errors"
	"fmt"
)

var errMissingIDProvider = errors.New("resume: id provider is required")

// Factory constructs collection items. It is the only construction path for
// records that carry an identifier.
type Factory struct {
	ids IDProvider
}

// NewFactory returns a Factory drawing identifiers from ids.
func NewFactory(ids IDProvider) (*Factory, error) {
	if ids == nil {
		return nil, errMissingIDProvider
	}
	return &Factory{ids: ids}, nil
}

func (f *Factory) nextID(kind string) (string, error) {
	id, err := f.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("resume: new %s id: %w", kind, err)
	}
	return id, nil
}

// NewID exposes the shared identifier generator.
func (f *Factory) NewID() (string, error) {
	return f.nextID("item")
}

func (f *Factory) NewExperience() (Experience, error) {
	id, err := f.nextID("experience")
	if err != nil {
		return Experience{}, err
	}
	return Experience{ID: id, Highlights: []string{}}, nil
}

func (f *Factory) NewEducation() (Education, error) {
	id, err := f.nextID("education")
	if err != nil {
		return Education{}, err
	}
	return Education{ID: id}, nil
}

func (f *Factory) NewSkill() (Skill, error) {
	id, err := f.nextID("skill")
	if err != nil {
		return Skill{}, err
	}
	return Skill{ID: id, Level: SkillIntermediate}, nil
}

func (f *Factory) NewLink() (SocialLink, error) {
	id, err := f.nextID("link")
	if err != nil {
		return SocialLink{}, err
	}
	return SocialLink{ID: id, Platform: PlatformLinkedIn}, nil
}

func (f *Factory) NewLanguage() (Language, error) {
	id, err := f.nextID("language")
	if err != nil {
		return Language{}, err
	}
	return Language{ID: id, Proficiency: ProficiencyIntermediate}, nil
}

func (f *Factory) NewCourse() (Course, error) {
	id, err := f.nextID("course")
	if err != nil {
		return Course{}, err
	}
	return Course{ID: id}, nil
}

func (f *Factory) NewCertification() (Certification, error) {
	id, err := f.nextID("certification")
	if err != nil {
		return Certification{}, err
	}
	return Certification{ID: id}, nil
}

func (f *Factory) NewProject() (Project, error) {
	id, err := f.nextID("project")
	if err != nil {
		return Project{}, err
	}
	return Project{ID: id, Technologies: []string{}}, nil
}

func (f *Factory) NewAward() (Award, error) {
	id, err := f.nextID("award")
	if err != nil {
		return Award{}, err
	}
	return Award{ID: id}, nil
}

func (f *Factory) NewVolunteer() (Volunteer, error) {
	id, err := f.nextID("volunteer")
	if err != nil {
		return Volunteer{}, err
	}
	return Volunteer{ID: id}, nil
}

func (f *Factory) NewPublication() (Publication, error) {
	id, err := f.nextID("publication")
	if err != nil {
		return Publication{}, err
	}
	return Publication{ID: id}, nil
}

func (f *Factory) NewReference() (Reference, error) {
	id, err := f.nextID("reference")
	if err != nil {
		return Reference{}, err
	}
	return Reference{ID: id}, nil
}

func (f *Factory) NewHobby() (Hobby, error) {
	id, err := f.nextID("hobby")
	if err != nil {
		return Hobby{}, err
	}
	return Hobby{ID: id}, nil
}

// AssignIDs gives every record in content a fresh identifier. Imported or
// AI-parsed content arrives without trustworthy ids.
func (f *Factory) AssignIDs(content *Content) error {
	assign := func(target *string, kind string) error {
		id, err := f.nextID(kind)
		if err != nil {
			return err
		}
		*target = id
		return nil
	}
	for index := range content.Experience {
		if err := assign(&content.Experience[index].ID, "experience"); err != nil {
			return err
		}
	}
	for index := range content.Education {
		if err := assign(&content.Education[index].ID, "education"); err != nil {
			return err
		}
	}
	for index := range content.Skills {
		if err := assign(&content.Skills[index].ID, "skill"); err != nil {
			return err
		}
	}
	for index := range content.Links {
		if err := assign(&content.Links[index].ID, "link"); err != nil {
			return err
		}
	}
	for index := range content.Languages {
		if err := assign(&content.Languages[index].ID, "language"); err != nil {
			return err
		}
	}
	for index := range content.Courses {
		if err := assign(&content.Courses[index].ID, "course"); err != nil {
			return err
		}
	}
	for index := range content.Certifications {
		if err := assign(&content.Certifications[index].ID, "certification"); err != nil {
			return err
		}
	}
	for index := range content.Projects {
		if err := assign(&content.Projects[index].ID, "project"); err != nil {
			return err
		}
	}
	for index := range content.Awards {
		if err := assign(&content.Awards[index].ID, "award"); err != nil {
			return err
		}
	}
	for index := range content.Volunteer {
		if err := assign(&content.Volunteer[index].ID, "volunteer"); err != nil {
			return err
		}
	}
	for index := range content.Publications {
		if err := assign(&content.Publications[index].ID, "publication"); err != nil {
			return err
		}
	}
	for index := range content.References {
		if err := assign(&content.References[index].ID, "reference"); err != nil {
			return err
		}
	}
	for index := range content.Hobbies {
		if err := assign(&content.Hobbies[index].ID, "hobby"); err != nil {
			return err
		}
	}
	return nil
}
