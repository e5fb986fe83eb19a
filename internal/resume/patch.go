package resume

// Patches carry optional field replacements. A nil field leaves the target
// untouched; values are accepted as-is without enum validation.

func assign[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

func assignStrings(target *[]string, value *[]string) {
	if value != nil {
		*target = cloneStrings(*value)
	}
}

type PersonalInfoPatch struct {
	Name     *string `json:"name,omitempty"`
	JobTitle *string `json:"jobTitle,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	Photo    *string `json:"photo,omitempty"`
}

func (p PersonalInfoPatch) Apply(item PersonalInfo) PersonalInfo {
	assign(&item.Name, p.Name)
	assign(&item.JobTitle, p.JobTitle)
	assign(&item.Email, p.Email)
	assign(&item.Phone, p.Phone)
	assign(&item.Location, p.Location)
	assign(&item.Photo, p.Photo)
	return item
}

type ExperiencePatch struct {
	Company     *string   `json:"company,omitempty"`
	Role        *string   `json:"role,omitempty"`
	Location    *string   `json:"location,omitempty"`
	StartDate   *string   `json:"startDate,omitempty"`
	EndDate     *string   `json:"endDate,omitempty"`
	Current     *bool     `json:"current,omitempty"`
	Description *string   `json:"description,omitempty"`
	Highlights  *[]string `json:"highlights,omitempty"`
}

func (p ExperiencePatch) Apply(item Experience) Experience {
	assign(&item.Company, p.Company)
	assign(&item.Role, p.Role)
	assign(&item.Location, p.Location)
	assign(&item.StartDate, p.StartDate)
	assign(&item.EndDate, p.EndDate)
	assign(&item.Current, p.Current)
	assign(&item.Description, p.Description)
	assignStrings(&item.Highlights, p.Highlights)
	return item
}

type EducationPatch struct {
	School      *string `json:"school,omitempty"`
	Degree      *string `json:"degree,omitempty"`
	Field       *string `json:"field,omitempty"`
	Location    *string `json:"location,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Current     *bool   `json:"current,omitempty"`
	Description *string `json:"description,omitempty"`
	GPA         *string `json:"gpa,omitempty"`
}

func (p EducationPatch) Apply(item Education) Education {
	assign(&item.School, p.School)
	assign(&item.Degree, p.Degree)
	assign(&item.Field, p.Field)
	assign(&item.Location, p.Location)
	assign(&item.StartDate, p.StartDate)
	assign(&item.EndDate, p.EndDate)
	assign(&item.Current, p.Current)
	assign(&item.Description, p.Description)
	assign(&item.GPA, p.GPA)
	return item
}

type SkillPatch struct {
	Name  *string     `json:"name,omitempty"`
	Level *SkillLevel `json:"level,omitempty"`
}

func (p SkillPatch) Apply(item Skill) Skill {
	assign(&item.Name, p.Name)
	assign(&item.Level, p.Level)
	return item
}

type LinkPatch struct {
	Platform *Platform `json:"platform,omitempty"`
	URL      *string   `json:"url,omitempty"`
	Label    *string   `json:"label,omitempty"`
}

func (p LinkPatch) Apply(item SocialLink) SocialLink {
	assign(&item.Platform, p.Platform)
	assign(&item.URL, p.URL)
	assign(&item.Label, p.Label)
	return item
}

type LanguagePatch struct {
	Name        *string      `json:"name,omitempty"`
	Proficiency *Proficiency `json:"proficiency,omitempty"`
}

func (p LanguagePatch) Apply(item Language) Language {
	assign(&item.Name, p.Name)
	assign(&item.Proficiency, p.Proficiency)
	return item
}

type CoursePatch struct {
	Name           *string `json:"name,omitempty"`
	Institution    *string `json:"institution,omitempty"`
	CompletionDate *string `json:"completionDate,omitempty"`
	Description    *string `json:"description,omitempty"`
}

func (p CoursePatch) Apply(item Course) Course {
	assign(&item.Name, p.Name)
	assign(&item.Institution, p.Institution)
	assign(&item.CompletionDate, p.CompletionDate)
	assign(&item.Description, p.Description)
	return item
}

type CertificationPatch struct {
	Name         *string `json:"name,omitempty"`
	Issuer       *string `json:"issuer,omitempty"`
	Date         *string `json:"date,omitempty"`
	ExpiryDate   *string `json:"expiryDate,omitempty"`
	CredentialID *string `json:"credentialId,omitempty"`
	URL          *string `json:"url,omitempty"`
}

func (p CertificationPatch) Apply(item Certification) Certification {
	assign(&item.Name, p.Name)
	assign(&item.Issuer, p.Issuer)
	assign(&item.Date, p.Date)
	assign(&item.ExpiryDate, p.ExpiryDate)
	assign(&item.CredentialID, p.CredentialID)
	assign(&item.URL, p.URL)
	return item
}

type ProjectPatch struct {
	Name         *string   `json:"name,omitempty"`
	Role         *string   `json:"role,omitempty"`
	StartDate    *string   `json:"startDate,omitempty"`
	EndDate      *string   `json:"endDate,omitempty"`
	Current      *bool     `json:"current,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
	URL          *string   `json:"url,omitempty"`
}

func (p ProjectPatch) Apply(item Project) Project {
	assign(&item.Name, p.Name)
	assign(&item.Role, p.Role)
	assign(&item.StartDate, p.StartDate)
	assign(&item.EndDate, p.EndDate)
	assign(&item.Current, p.Current)
	assign(&item.Description, p.Description)
	assignStrings(&item.Technologies, p.Technologies)
	assign(&item.URL, p.URL)
	return item
}

type AwardPatch struct {
	Title       *string `json:"title,omitempty"`
	Issuer      *string `json:"issuer,omitempty"`
	Date        *string `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p AwardPatch) Apply(item Award) Award {
	assign(&item.Title, p.Title)
	assign(&item.Issuer, p.Issuer)
	assign(&item.Date, p.Date)
	assign(&item.Description, p.Description)
	return item
}

type VolunteerPatch struct {
	Organization *string `json:"organization,omitempty"`
	Role         *string `json:"role,omitempty"`
	StartDate    *string `json:"startDate,omitempty"`
	EndDate      *string `json:"endDate,omitempty"`
	Current      *bool   `json:"current,omitempty"`
	Description  *string `json:"description,omitempty"`
}

func (p VolunteerPatch) Apply(item Volunteer) Volunteer {
	assign(&item.Organization, p.Organization)
	assign(&item.Role, p.Role)
	assign(&item.StartDate, p.StartDate)
	assign(&item.EndDate, p.EndDate)
	assign(&item.Current, p.Current)
	assign(&item.Description, p.Description)
	return item
}

type PublicationPatch struct {
	Title       *string `json:"title,omitempty"`
	Publisher   *string `json:"publisher,omitempty"`
	Date        *string `json:"date,omitempty"`
	Authors     *string `json:"authors,omitempty"`
	URL         *string `json:"url,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p PublicationPatch) Apply(item Publication) Publication {
	assign(&item.Title, p.Title)
	assign(&item.Publisher, p.Publisher)
	assign(&item.Date, p.Date)
	assign(&item.Authors, p.Authors)
	assign(&item.URL, p.URL)
	assign(&item.Description, p.Description)
	return item
}

type ReferencePatch struct {
	Name     *string `json:"name,omitempty"`
	Position *string `json:"position,omitempty"`
	Company  *string `json:"company,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (p ReferencePatch) Apply(item Reference) Reference {
	assign(&item.Name, p.Name)
	assign(&item.Position, p.Position)
	assign(&item.Company, p.Company)
	assign(&item.Email, p.Email)
	assign(&item.Phone, p.Phone)
	return item
}

type HobbyPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p HobbyPatch) Apply(item Hobby) Hobby {
	assign(&item.Name, p.Name)
	assign(&item.Description, p.Description)
	return item
}
