package resume

// Item is implemented by every identified collection record.
type Item interface {
	ItemID() string
}

func (e Experience) ItemID() string    { return e.ID }
func (e Education) ItemID() string     { return e.ID }
func (s Skill) ItemID() string         { return s.ID }
func (l SocialLink) ItemID() string    { return l.ID }
func (l Language) ItemID() string      { return l.ID }
func (c Course) ItemID() string        { return c.ID }
func (c Certification) ItemID() string { return c.ID }
func (p Project) ItemID() string       { return p.ID }
func (a Award) ItemID() string         { return a.ID }
func (v Volunteer) ItemID() string     { return v.ID }
func (p Publication) ItemID() string   { return p.ID }
func (r Reference) ItemID() string     { return r.ID }
func (h Hobby) ItemID() string         { return h.ID }
