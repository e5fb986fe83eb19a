package assist

import (
	"strings"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

// parsedResume mirrors the JSON shape requested from the model.
type parsedResume struct {
	Personal *struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Location string `json:"location"`
		LinkedIn string `json:"linkedin"`
		Website  string `json:"website"`
	} `json:"personal"`
	Summary    string `json:"summary"`
	Experience []struct {
		Role        string `json:"role"`
		Company     string `json:"company"`
		Location    string `json:"location"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		Current     bool   `json:"current"`
		Description string `json:"description"`
	} `json:"experience"`
	Education []struct {
		School      string `json:"school"`
		Degree      string `json:"degree"`
		Field       string `json:"field"`
		Location    string `json:"location"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		Current     bool   `json:"current"`
		GPA         string `json:"gpa"`
		Description string `json:"description"`
	} `json:"education"`
	Skills []struct {
		Name  string `json:"name"`
		Level string `json:"level"`
	} `json:"skills"`
	Certifications []resume.Certification `json:"certifications"`
	Projects       []struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		Role         string `json:"role"`
		URL          string `json:"url"`
		StartDate    string `json:"startDate"`
		EndDate      string `json:"endDate"`
		Current      bool   `json:"current"`
		Technologies string `json:"technologies"`
	} `json:"projects"`
	Languages []struct {
		Name        string `json:"name"`
		Proficiency string `json:"proficiency"`
	} `json:"languages"`
	Awards       []resume.Award       `json:"awards"`
	Volunteer    []resume.Volunteer   `json:"volunteer"`
	Publications []resume.Publication `json:"publications"`
	Courses      []resume.Course      `json:"courses"`
}

func (p parsedResume) content() resume.Content {
	content := resume.NewContent()
	if p.Personal != nil {
		content.Personal = resume.PersonalInfo{
			Name:     strings.TrimSpace(p.Personal.Name),
			Email:    strings.TrimSpace(p.Personal.Email),
			Phone:    strings.TrimSpace(p.Personal.Phone),
			Location: strings.TrimSpace(p.Personal.Location),
		}
		if url := strings.TrimSpace(p.Personal.LinkedIn); url != "" {
			content.Links = append(content.Links, resume.SocialLink{Platform: resume.PlatformLinkedIn, URL: url})
		}
		if url := strings.TrimSpace(p.Personal.Website); url != "" {
			content.Links = append(content.Links, resume.SocialLink{Platform: resume.PlatformWebsite, URL: url})
		}
	}
	content.Summary = strings.TrimSpace(p.Summary)
	for _, item := range p.Experience {
		content.Experience = append(content.Experience, resume.Experience{
			Company:     item.Company,
			Role:        item.Role,
			Location:    item.Location,
			StartDate:   item.StartDate,
			EndDate:     item.EndDate,
			Current:     item.Current,
			Description: item.Description,
			Highlights:  []string{},
		})
	}
	for _, item := range p.Education {
		content.Education = append(content.Education, resume.Education{
			School:      item.School,
			Degree:      item.Degree,
			Field:       item.Field,
			Location:    item.Location,
			StartDate:   item.StartDate,
			EndDate:     item.EndDate,
			Current:     item.Current,
			GPA:         item.GPA,
			Description: item.Description,
		})
	}
	for _, item := range p.Skills {
		content.Skills = append(content.Skills, resume.Skill{Name: item.Name, Level: skillLevel(item.Level)})
	}
	for _, item := range p.Projects {
		content.Projects = append(content.Projects, resume.Project{
			Name:         item.Name,
			Role:         item.Role,
			StartDate:    item.StartDate,
			EndDate:      item.EndDate,
			Current:      item.Current,
			Description:  item.Description,
			Technologies: splitList(item.Technologies),
			URL:          item.URL,
		})
	}
	for _, item := range p.Languages {
		content.Languages = append(content.Languages, resume.Language{Name: item.Name, Proficiency: proficiency(item.Proficiency)})
	}
	content.Certifications = append(content.Certifications, p.Certifications...)
	content.Awards = append(content.Awards, p.Awards...)
	content.Volunteer = append(content.Volunteer, p.Volunteer...)
	content.Publications = append(content.Publications, p.Publications...)
	content.Courses = append(content.Courses, p.Courses...)

	for _, section := range resume.OptionalSections() {
		if !content.IsSectionEmpty(section) && !resume.ContainsSection(content.SectionOrder, section) {
			content.SectionOrder = append(content.SectionOrder, section)
		}
	}
	return content.Normalize()
}

func skillLevel(raw string) resume.SkillLevel {
	switch level := resume.SkillLevel(strings.ToLower(strings.TrimSpace(raw))); level {
	case resume.SkillBeginner, resume.SkillIntermediate, resume.SkillAdvanced, resume.SkillExpert:
		return level
	default:
		return resume.SkillIntermediate
	}
}

func proficiency(raw string) resume.Proficiency {
	switch value := resume.Proficiency(strings.ToLower(strings.TrimSpace(raw))); value {
	case resume.ProficiencyBasic, resume.ProficiencyIntermediate, resume.ProficiencyFluent, resume.ProficiencyNative:
		return value
	default:
		return resume.ProficiencyIntermediate
	}
}

func splitList(raw string) []string {
	values := []string{}
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
