// Package render projects a resume document into a template-specific layout.
package render

import (
	"strings"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

const (
	placeholderName = "Your Name"
	presentLabel    = "Present"
)

// Header is the identity block at the top of the page.
type Header struct {
	Name     string   `json:"name"`
	JobTitle string   `json:"jobTitle,omitempty"`
	Contacts []string `json:"contacts"`
	Links    []string `json:"links"`
	Photo    string   `json:"photo,omitempty"`
}

// Entry is one record inside a section block.
type Entry struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Period   string   `json:"period,omitempty"`
	Location string   `json:"location,omitempty"`
	Body     string   `json:"body,omitempty"`
	Details  []string `json:"details,omitempty"`
}

// Block is a rendered section.
type Block struct {
	Section   resume.SectionID `json:"section"`
	Heading   string           `json:"heading"`
	Paragraph string           `json:"paragraph,omitempty"`
	Inline    []string         `json:"inline,omitempty"`
	Entries   []Entry          `json:"entries,omitempty"`
}

// Layout is the projection of a document for one template. Sidebar is only
// populated by two-column templates.
type Layout struct {
	Template resume.Template `json:"template"`
	Title    string          `json:"title"`
	Header   Header          `json:"header"`
	Main     []Block         `json:"main"`
	Sidebar  []Block         `json:"sidebar"`
}

// Blocks returns every block in reading order.
func (l Layout) Blocks() []Block {
	blocks := make([]Block, 0, len(l.Main)+len(l.Sidebar))
	blocks = append(blocks, l.Main...)
	return append(blocks, l.Sidebar...)
}

// Project builds the layout for document. It is a pure function of its input.
func Project(document resume.Document) Layout {
	content := document.Content.Normalize()
	template := document.Template
	if template == "" {
		template = resume.DefaultTemplate
	}
	strategy := strategyFor(template)

	layout := Layout{
		Template: template,
		Title:    document.Title,
		Header:   buildHeader(content, strategy.photo),
		Main:     []Block{},
		Sidebar:  []Block{},
	}
	for _, section := range content.SectionOrder {
		if section == resume.SectionPersonal || content.IsSectionEmpty(section) {
			continue
		}
		block, ok := buildBlock(content, section)
		if !ok {
			continue
		}
		block.Heading = strategy.heading(section)
		if strategy.sidebar[section] {
			layout.Sidebar = append(layout.Sidebar, block)
			continue
		}
		layout.Main = append(layout.Main, block)
	}
	return layout
}

type templateStrategy struct {
	heading func(resume.SectionID) string
	sidebar map[resume.SectionID]bool
	photo   bool
}

func strategyFor(template resume.Template) templateStrategy {
	switch template {
	case resume.TemplateModern:
		return templateStrategy{
			heading: resume.SectionTitle,
			sidebar: map[resume.SectionID]bool{
				resume.SectionSkills:    true,
				resume.SectionLinks:     true,
				resume.SectionLanguages: true,
				resume.SectionHobbies:   true,
			},
			photo: true,
		}
	default:
		return templateStrategy{
			heading: classicHeading,
			sidebar: map[resume.SectionID]bool{},
		}
	}
}

func classicHeading(section resume.SectionID) string {
	switch section {
	case resume.SectionSummary:
		return "PROFESSIONAL SUMMARY"
	case resume.SectionExperience:
		return "PROFESSIONAL EXPERIENCE"
	default:
		return strings.ToUpper(resume.SectionTitle(section))
	}
}

func buildHeader(content resume.Content, withPhoto bool) Header {
	personal := content.Personal
	header := Header{
		Name:     strings.TrimSpace(personal.Name),
		JobTitle: strings.TrimSpace(personal.JobTitle),
		Contacts: nonEmpty(personal.Email, personal.Phone, personal.Location),
		Links:    []string{},
	}
	if header.Name == "" {
		header.Name = placeholderName
	}
	if withPhoto {
		header.Photo = personal.Photo
	}
	if resume.ContainsSection(content.SectionOrder, resume.SectionLinks) {
		return header
	}
	// Links shown in the header only when the links section is not placed.
	for _, link := range content.Links {
		if label := linkLabel(link); label != "" {
			header.Links = append(header.Links, label)
		}
	}
	return header
}

func linkLabel(link resume.SocialLink) string {
	if label := strings.TrimSpace(link.Label); label != "" {
		return label
	}
	return strings.TrimSpace(link.URL)
}

func nonEmpty(values ...string) []string {
	kept := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return kept
}
