package cv

// Clone returns a deep copy of the record. Lists in the copy never share
// backing arrays with the original and are never nil.
func (r Record) Clone() Record {
	out := r
	out.Skills = append(make([]string, 0, len(r.Skills)), r.Skills...)

	out.Experience = make([]ExperienceItem, 0, len(r.Experience))
	for _, e := range r.Experience {
		out.Experience = append(out.Experience, e.Clone())
	}

	out.Education = make([]EducationItem, 0, len(r.Education))
	for _, e := range r.Education {
		out.Education = append(out.Education, e.Clone())
	}

	out.Languages = append(make([]LanguageItem, 0, len(r.Languages)), r.Languages...)
	out.Certifications = append(make([]CertificationItem, 0, len(r.Certifications)), r.Certifications...)

	return out
}

// Clone returns a deep copy of the experience item.
func (e ExperienceItem) Clone() ExperienceItem {
	out := e
	out.Bullets = append(make([]Bullet, 0, len(e.Bullets)), e.Bullets...)
	return out
}

// Clone returns a deep copy of the education item. A nil bullet list stays nil
// so that the omitempty JSON form is preserved.
func (e EducationItem) Clone() EducationItem {
	out := e
	if e.Bullets != nil {
		out.Bullets = append(make([]Bullet, 0, len(e.Bullets)), e.Bullets...)
	}
	return out
}

// WithBullets returns a copy of the item carrying the given bullets.
func (e ExperienceItem) WithBullets(bullets []Bullet) ExperienceItem {
	out := e
	out.Bullets = append(make([]Bullet, 0, len(bullets)), bullets...)
	return out
}

// WithBullets returns a copy of the item carrying the given bullets.
func (e EducationItem) WithBullets(bullets []Bullet) EducationItem {
	out := e
	out.Bullets = nil
	if len(bullets) > 0 {
		out.Bullets = append(make([]Bullet, 0, len(bullets)), bullets...)
	}
	return out
}
