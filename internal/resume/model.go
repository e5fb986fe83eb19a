package resume

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultTitle is assigned to documents created without a title.
	DefaultTitle = "Untitled Resume"
	// DefaultTemplate is used when no template is requested.
	DefaultTemplate = TemplateClassic
)

// Template names a rendering strategy for the document.
type Template string

const (
	TemplateModern  Template = "modern"
	TemplateClassic Template = "classic"
)

// ErrInvalidTemplate indicates that a template name is not registered.
var ErrInvalidTemplate = errors.New("resume: invalid template")

// Templates lists every registered template in display order.
func Templates() []Template {
	return []Template{TemplateModern, TemplateClassic}
}

// ParseTemplate validates raw input and returns the matching Template.
func ParseTemplate(rawInput string) (Template, error) {
	trimmed := strings.ToLower(strings.TrimSpace(rawInput))
	if trimmed == "" {
		return DefaultTemplate, nil
	}
	for _, template := range Templates() {
		if string(template) == trimmed {
			return template, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTemplate, rawInput)
}

// String returns the template name.
func (t Template) String() string {
	return string(t)
}

// Document is the root aggregate persisted per owner.
type Document struct {
	ID        string    `json:"id,omitempty"`
	OwnerID   string    `json:"userId,omitempty"`
	Title     string    `json:"title"`
	Template  Template  `json:"template"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// NewDocument returns a blank document with default content.
func NewDocument(title string, template Template) Document {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	if template == "" {
		template = DefaultTemplate
	}
	return Document{
		Title:    title,
		Template: template,
		Content:  NewContent(),
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	clone := d
	clone.Content = d.Content.Clone()
	return clone
}

// PersonalInfo is the single header record of a resume.
type PersonalInfo struct {
	Name     string `json:"name"`
	JobTitle string `json:"jobTitle"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	// Photo holds an optional data URI.
	Photo string `json:"photo,omitempty"`
}

type Experience struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Current     bool     `json:"current"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

type Education struct {
	ID          string `json:"id"`
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
	GPA         string `json:"gpa,omitempty"`
}

// SkillLevel grades a skill.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

type Skill struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Level SkillLevel `json:"level"`
}

// Platform identifies the target of a social link.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformGitHub    Platform = "github"
	PlatformTwitter   Platform = "twitter"
	PlatformPortfolio Platform = "portfolio"
	PlatformWebsite   Platform = "website"
	PlatformOther     Platform = "other"
)

type SocialLink struct {
	ID       string   `json:"id"`
	Platform Platform `json:"platform"`
	URL      string   `json:"url"`
	Label    string   `json:"label,omitempty"`
}

// Proficiency grades a spoken language.
type Proficiency string

const (
	ProficiencyBasic        Proficiency = "basic"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyFluent       Proficiency = "fluent"
	ProficiencyNative       Proficiency = "native"
)

type Language struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Proficiency Proficiency `json:"proficiency"`
}

type Course struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Institution    string `json:"institution"`
	CompletionDate string `json:"completionDate"`
	Description    string `json:"description,omitempty"`
}

type Certification struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
	URL          string `json:"url,omitempty"`
}

type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Role         string   `json:"role,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Current      bool     `json:"current"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
}

type Award struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

type Volunteer struct {
	ID           string `json:"id"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

type Publication struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	Date        string `json:"date"`
	Authors     string `json:"authors,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

type Reference struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Company  string `json:"company"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type Hobby struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
