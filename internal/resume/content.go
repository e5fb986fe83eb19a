package resume

// Content holds every section of a resume plus the visible section order.
type Content struct {
	Personal       PersonalInfo    `json:"personal"`
	Summary        string          `json:"summary"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Links          []SocialLink    `json:"links"`
	Languages      []Language      `json:"languages"`
	Courses        []Course        `json:"courses"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
	Awards         []Award         `json:"awards"`
	Volunteer      []Volunteer     `json:"volunteer"`
	Publications   []Publication   `json:"publications"`
	References     []Reference     `json:"references"`
	Hobbies        []Hobby         `json:"hobbies"`
	SectionOrder   []SectionID     `json:"sectionOrder"`
}

// NewContent returns blank content with the default section order.
func NewContent() Content {
	return Content{
		Experience:     []Experience{},
		Education:      []Education{},
		Skills:         []Skill{},
		Links:          []SocialLink{},
		Languages:      []Language{},
		Courses:        []Course{},
		Certifications: []Certification{},
		Projects:       []Project{},
		Awards:         []Award{},
		Volunteer:      []Volunteer{},
		Publications:   []Publication{},
		References:     []Reference{},
		Hobbies:        []Hobby{},
		SectionOrder:   DefaultSectionOrder(),
	}
}

// Clone returns a deep copy so snapshots never alias store state.
func (c Content) Clone() Content {
	clone := c
	clone.Experience = make([]Experience, len(c.Experience))
	for index, item := range c.Experience {
		item.Highlights = cloneStrings(item.Highlights)
		clone.Experience[index] = item
	}
	clone.Education = append([]Education{}, c.Education...)
	clone.Skills = append([]Skill{}, c.Skills...)
	clone.Links = append([]SocialLink{}, c.Links...)
	clone.Languages = append([]Language{}, c.Languages...)
	clone.Courses = append([]Course{}, c.Courses...)
	clone.Certifications = append([]Certification{}, c.Certifications...)
	clone.Projects = make([]Project, len(c.Projects))
	for index, item := range c.Projects {
		item.Technologies = cloneStrings(item.Technologies)
		clone.Projects[index] = item
	}
	clone.Awards = append([]Award{}, c.Awards...)
	clone.Volunteer = append([]Volunteer{}, c.Volunteer...)
	clone.Publications = append([]Publication{}, c.Publications...)
	clone.References = append([]Reference{}, c.References...)
	clone.Hobbies = append([]Hobby{}, c.Hobbies...)
	clone.SectionOrder = append([]SectionID{}, c.SectionOrder...)
	return clone
}

// Normalize clears end dates on items flagged as current and fills nil
// collections. It returns the normalized copy.
func (c Content) Normalize() Content {
	normalized := c.Clone()
	for index := range normalized.Experience {
		if normalized.Experience[index].Current {
			normalized.Experience[index].EndDate = ""
		}
	}
	for index := range normalized.Education {
		if normalized.Education[index].Current {
			normalized.Education[index].EndDate = ""
		}
	}
	for index := range normalized.Projects {
		if normalized.Projects[index].Current {
			normalized.Projects[index].EndDate = ""
		}
	}
	for index := range normalized.Volunteer {
		if normalized.Volunteer[index].Current {
			normalized.Volunteer[index].EndDate = ""
		}
	}
	if len(normalized.SectionOrder) == 0 {
		normalized.SectionOrder = DefaultSectionOrder()
	}
	return normalized
}

// IsSectionEmpty reports whether a section has nothing to render.
func (c Content) IsSectionEmpty(id SectionID) bool {
	switch id {
	case SectionPersonal:
		return c.Personal == PersonalInfo{}
	case SectionSummary:
		return c.Summary == ""
	case SectionExperience:
		return len(c.Experience) == 0
	case SectionEducation:
		return len(c.Education) == 0
	case SectionSkills:
		return len(c.Skills) == 0
	case SectionLinks:
		return len(c.Links) == 0
	case SectionLanguages:
		return len(c.Languages) == 0
	case SectionCourses:
		return len(c.Courses) == 0
	case SectionCertifications:
		return len(c.Certifications) == 0
	case SectionProjects:
		return len(c.Projects) == 0
	case SectionAwards:
		return len(c.Awards) == 0
	case SectionVolunteer:
		return len(c.Volunteer) == 0
	case SectionPublications:
		return len(c.Publications) == 0
	case SectionReferences:
		return len(c.References) == 0
	case SectionHobbies:
		return len(c.Hobbies) == 0
	default:
		return true
	}
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string{}, values...)
}
