// Package cv holds the canonical candidate record produced by the parser,
// the normalizer and the fuser. Values of these types are treated as
// immutable: helpers return modified copies instead of updating in place.
package cv

// PlaceholderName is used when no candidate name could be recovered.
const PlaceholderName = "Unknown Candidate"

// PresentEnd is the canonical end value of an ongoing period.
const PresentEnd = "Present"

// Record is the canonical, schema-normalized candidate record.
type Record struct {
	Candidate      Candidate           `json:"candidate"`
	Skills         []string            `json:"skills"`
	Experience     []ExperienceItem    `json:"experience"`
	Education      []EducationItem     `json:"education"`
	Languages      []LanguageItem      `json:"languages"`
	Certifications []CertificationItem `json:"certifications"`
	Meta           Meta                `json:"meta"`
}

// Candidate describes who the record is about.
type Candidate struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Location string   `json:"location"`
	Contacts Contacts `json:"contacts"`
}

// Contacts groups the ways to reach the candidate.
type Contacts struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
}

// ExperienceItem is a single job or engagement.
type ExperienceItem struct {
	Employer string   `json:"employer"`
	Role     string   `json:"role"`
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Location string   `json:"location"`
	Bullets  []Bullet `json:"bullets"`
}

// EducationItem is a single degree or course of study.
type EducationItem struct {
	School       string   `json:"school"`
	Degree       string   `json:"degree"`
	FieldOfStudy string   `json:"fieldOfStudy"`
	EQFLevel     string   `json:"eqfLevel"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Location     string   `json:"location"`
	Bullets      []Bullet `json:"bullets,omitempty"`
}

// Bullet is one achievement or responsibility line.
type Bullet struct {
	Text string `json:"text"`
}

// LanguageItem is a spoken language with an optional proficiency level.
type LanguageItem struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// CertificationItem is a certificate or license.
type CertificationItem struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// Meta carries provenance information.
type Meta struct {
	Locale string `json:"locale"`
	Source string `json:"source"`
}

// Empty returns a record with a placeholder name and non-nil lists, which
// keeps the JSON form stable ("[]" instead of "null").
func Empty() Record {
	return Record{
		Candidate:      Candidate{Name: PlaceholderName},
		Skills:         []string{},
		Experience:     []ExperienceItem{},
		Education:      []EducationItem{},
		Languages:      []LanguageItem{},
		Certifications: []CertificationItem{},
	}
}

// HasRealName reports whether the candidate name is set and is not the placeholder.
func (c Candidate) HasRealName() bool {
	return c.Name != "" && c.Name != PlaceholderName
}

// Texts returns the bullet texts in order.
func Texts(bullets []Bullet) []string {
	out := make([]string, 0, len(bullets))
	for _, b := range bullets {
		out = append(out, b.Text)
	}
	return out
}

// BulletsOf wraps plain strings into bullets.
func BulletsOf(texts ...string) []Bullet {
	out := make([]Bullet, 0, len(texts))
	for _, t := range texts {
		out = append(out, Bullet{Text: t})
	}
	return out
}
