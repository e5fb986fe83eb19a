package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

func buildBlock(content resume.Content, section resume.SectionID) (Block, bool) {
	block := Block{Section: section}
	switch section {
	case resume.SectionSummary:
		block.Paragraph = content.Summary
	case resume.SectionExperience:
		for _, item := range content.Experience {
			block.Entries = append(block.Entries, Entry{
				Title:    fallback(item.Role, "Job Title"),
				Subtitle: fallback(item.Company, "Company Name"),
				Period:   FormatPeriod(item.StartDate, item.EndDate, item.Current),
				Location: item.Location,
				Body:     item.Description,
				Details:  nonEmpty(item.Highlights...),
			})
		}
	case resume.SectionEducation:
		for _, item := range content.Education {
			entry := Entry{
				Title:    degreeLine(item.Degree, item.Field),
				Subtitle: fallback(item.School, "School Name"),
				Period:   FormatPeriod(item.StartDate, item.EndDate, item.Current),
				Location: item.Location,
				Body:     item.Description,
			}
			if item.GPA != "" {
				entry.Details = []string{"GPA: " + item.GPA}
			}
			block.Entries = append(block.Entries, entry)
		}
	case resume.SectionSkills:
		for _, item := range content.Skills {
			if name := strings.TrimSpace(item.Name); name != "" {
				block.Inline = append(block.Inline, name)
			}
		}
	case resume.SectionLinks:
		for _, item := range content.Links {
			if label := linkLabel(item); label != "" {
				block.Inline = append(block.Inline, label)
			}
		}
	case resume.SectionLanguages:
		for _, item := range content.Languages {
			block.Inline = append(block.Inline, fmt.Sprintf("%s (%s)", item.Name, item.Proficiency))
		}
	case resume.SectionCourses:
		for _, item := range content.Courses {
			block.Entries = append(block.Entries, Entry{
				Title:    item.Name,
				Subtitle: item.Institution,
				Period:   FormatDate(item.CompletionDate),
				Body:     item.Description,
			})
		}
	case resume.SectionCertifications:
		for _, item := range content.Certifications {
			entry := Entry{
				Title:    item.Name,
				Subtitle: item.Issuer,
				Period:   FormatDate(item.Date),
			}
			if item.CredentialID != "" {
				entry.Details = append(entry.Details, "Credential ID: "+item.CredentialID)
			}
			if item.URL != "" {
				entry.Details = append(entry.Details, item.URL)
			}
			block.Entries = append(block.Entries, entry)
		}
	case resume.SectionProjects:
		for _, item := range content.Projects {
			entry := Entry{
				Title:    item.Name,
				Subtitle: item.Role,
				Period:   FormatPeriod(item.StartDate, item.EndDate, item.Current),
				Body:     item.Description,
			}
			if len(item.Technologies) > 0 {
				entry.Details = append(entry.Details, strings.Join(item.Technologies, ", "))
			}
			if item.URL != "" {
				entry.Details = append(entry.Details, item.URL)
			}
			block.Entries = append(block.Entries, entry)
		}
	case resume.SectionAwards:
		for _, item := range content.Awards {
			block.Entries = append(block.Entries, Entry{
				Title:    item.Title,
				Subtitle: item.Issuer,
				Period:   FormatDate(item.Date),
				Body:     item.Description,
			})
		}
	case resume.SectionVolunteer:
		for _, item := range content.Volunteer {
			block.Entries = append(block.Entries, Entry{
				Title:    item.Role,
				Subtitle: item.Organization,
				Period:   FormatPeriod(item.StartDate, item.EndDate, item.Current),
				Body:     item.Description,
			})
		}
	case resume.SectionPublications:
		for _, item := range content.Publications {
			entry := Entry{
				Title:    item.Title,
				Subtitle: item.Publisher,
				Period:   FormatDate(item.Date),
				Body:     item.Description,
			}
			entry.Details = nonEmpty(item.Authors, item.URL)
			block.Entries = append(block.Entries, entry)
		}
	case resume.SectionReferences:
		for _, item := range content.References {
			block.Entries = append(block.Entries, Entry{
				Title:    item.Name,
				Subtitle: strings.Join(nonEmpty(item.Position, item.Company), ", "),
				Details:  nonEmpty(item.Email, item.Phone),
			})
		}
	case resume.SectionHobbies:
		for _, item := range content.Hobbies {
			if name := strings.TrimSpace(item.Name); name != "" {
				block.Inline = append(block.Inline, name)
			}
		}
	default:
		return Block{}, false
	}
	return block, true
}

// FormatPeriod renders "start - end", substituting Present for current items.
func FormatPeriod(start, end string, current bool) string {
	from := FormatDate(start)
	to := FormatDate(end)
	if current {
		to = presentLabel
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "":
		return from
	default:
		return from + " - " + to
	}
}

// FormatDate renders YYYY-MM values as "Jan 2024"; anything else is returned
// trimmed.
func FormatDate(value string) string {
	trimmed := strings.TrimSpace(value)
	if parsed, err := time.Parse("2006-01", trimmed); err == nil {
		return parsed.Format("Jan 2006")
	}
	return trimmed
}

func degreeLine(degree, field string) string {
	switch {
	case degree != "" && field != "":
		return degree + " in " + field
	case degree != "":
		return degree
	case field != "":
		return field
	default:
		return "Degree"
	}
}

func fallback(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
