// Package export produces downloadable artifacts from a resume document.
package export

import (
	"strings"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/render"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

const rulerWidth = 60

// line is one row of the plain transcript. Headings are emphasised in DOCX.
type line struct {
	text    string
	heading bool
}

// Text renders content as the plain-text transcript.
func Text(content resume.Content) string {
	var builder strings.Builder
	for _, row := range transcript(content) {
		builder.WriteString(row.text)
		builder.WriteString("\n")
	}
	return builder.String()
}

func transcript(content resume.Content) []line {
	content = content.Normalize()
	personal := content.Personal
	name := personal.Name
	if name == "" {
		name = "Your Name"
	}
	rows := []line{
		{text: name, heading: true},
		{text: personal.Email + " | " + personal.Phone},
		{text: personal.Location},
		{text: strings.Repeat("=", rulerWidth)},
		{},
	}

	var optional []resume.SectionID
	for _, section := range content.SectionOrder {
		if section == resume.SectionPersonal || content.IsSectionEmpty(section) {
			continue
		}
		switch section {
		case resume.SectionSummary:
			rows = append(rows, sectionHeading("SUMMARY")...)
			rows = append(rows, line{text: content.Summary}, line{})
		case resume.SectionExperience:
			rows = append(rows, sectionHeading("EXPERIENCE")...)
			for _, item := range content.Experience {
				rows = append(rows,
					line{text: item.Role + " at " + item.Company},
					line{text: item.StartDate + " - " + endLabel(item.EndDate, item.Current)},
					line{text: item.Description},
					line{},
				)
			}
		case resume.SectionEducation:
			rows = append(rows, sectionHeading("EDUCATION")...)
			for _, item := range content.Education {
				rows = append(rows,
					line{text: item.Degree + " in " + item.Field + " - " + item.School},
					line{text: item.StartDate + " - " + endLabel(item.EndDate, item.Current)},
					line{},
				)
			}
		case resume.SectionSkills:
			names := make([]string, 0, len(content.Skills))
			for _, skill := range content.Skills {
				names = append(names, skill.Name)
			}
			rows = append(rows, sectionHeading("SKILLS")...)
			rows = append(rows, line{text: strings.Join(names, ", ")}, line{})
		default:
			optional = append(optional, section)
		}
	}
	if len(optional) == 0 {
		return rows
	}

	// Optional sections reuse the classic projection of their records.
	layout := render.Project(resume.Document{Template: resume.TemplateClassic, Content: content})
	blocks := make(map[resume.SectionID]render.Block, len(layout.Main))
	for _, block := range layout.Main {
		blocks[block.Section] = block
	}
	for _, section := range optional {
		block, ok := blocks[section]
		if !ok {
			continue
		}
		rows = append(rows, sectionHeading(block.Heading)...)
		rows = append(rows, blockLines(block)...)
	}
	return rows
}

func sectionHeading(title string) []line {
	return []line{
		{text: title, heading: true},
		{text: strings.Repeat("-", rulerWidth)},
	}
}

func blockLines(block render.Block) []line {
	var rows []line
	if len(block.Inline) > 0 {
		rows = append(rows, line{text: strings.Join(block.Inline, ", ")}, line{})
	}
	for _, entry := range block.Entries {
		title := entry.Title
		if entry.Subtitle != "" {
			title += " - " + entry.Subtitle
		}
		rows = append(rows, line{text: title})
		if entry.Period != "" {
			rows = append(rows, line{text: entry.Period})
		}
		if entry.Body != "" {
			rows = append(rows, line{text: entry.Body})
		}
		for _, detail := range entry.Details {
			rows = append(rows, line{text: detail})
		}
		rows = append(rows, line{})
	}
	return rows
}

func endLabel(end string, current bool) string {
	if current {
		return "Present"
	}
	return end
}
