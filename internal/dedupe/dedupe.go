// Package dedupe normalizes lists inside a record: bullets, skills,
// education, languages and certifications. The normalizer and the fuser
// share these helpers so that both produce the same canonical form.
package dedupe

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spigell/cvfuse/internal/cv"
	"github.com/spigell/cvfuse/internal/dates"
	"github.com/spigell/cvfuse/internal/textutil"
)

const (
	// DefaultBulletCap limits the bullets kept per item.
	DefaultBulletCap = 25
	// DefaultSkillCap limits the skills kept per record.
	DefaultSkillCap = 80
)

var (
	glyphRe      = regexp.MustCompile(`^[\s•·‣◦▪▫■□●○◆◇►▸✓✔➢➤*>~-]+`)
	codedLevelRe = regexp.MustCompile(`(?i)\b[abc][12]\b|native|mother tongue|bilingual`)
)

// CleanBullet strips leading bullet glyphs and collapses whitespace.
func CleanBullet(s string) string {
	s = textutil.Clean(s)
	s = glyphRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// BulletKey is the comparison key of a bullet text.
func BulletKey(s string) string {
	return strings.ToLower(CleanBullet(s))
}

// Bullets cleans and dedupes bullets case-insensitively, keeping the first
// occurrence and at most limit entries. A non-positive limit keeps everything.
func Bullets(in []cv.Bullet, limit int) []cv.Bullet {
	out := make([]cv.Bullet, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, b := range in {
		text := CleanBullet(b.Text)
		if text == "" {
			continue
		}
		key := strings.ToLower(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, cv.Bullet{Text: text})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// MergeBullets unions several bullet lists in order.
func MergeBullets(limit int, lists ...[]cv.Bullet) []cv.Bullet {
	var all []cv.Bullet
	for _, l := range lists {
		all = append(all, l...)
	}
	return Bullets(all, limit)
}

// Skills dedupes skills case-insensitively, keeping first-seen casing.
func Skills(in []string, limit int) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = textutil.Clean(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// RankSkills unions the lists and orders skills by the number of lists that
// mention them. Ties keep first-seen order, so earlier lists win.
func RankSkills(limit int, lists ...[]string) []string {
	type entry struct {
		name  string
		count int
		order int
	}
	byKey := map[string]*entry{}
	var entries []*entry
	for _, list := range lists {
		for _, s := range Skills(list, 0) {
			key := strings.ToLower(s)
			if e, ok := byKey[key]; ok {
				e.count++
				continue
			}
			e := &entry{name: s, count: 1, order: len(entries)}
			byKey[key] = e
			entries = append(entries, e)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].order < entries[j].order
	})

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.name)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Job returns a cleaned copy of an experience item: trimmed fields, a
// canonical end date and deduped bullets.
func Job(e cv.ExperienceItem, bulletCap int) cv.ExperienceItem {
	return cv.ExperienceItem{
		Employer: textutil.Clean(e.Employer),
		Role:     textutil.Clean(e.Role),
		Start:    textutil.Clean(e.Start),
		End:      dates.NormalizeEnd(e.End),
		Location: textutil.Clean(e.Location),
		Bullets:  Bullets(e.Bullets, bulletCap),
	}
}

// JobIsEmpty reports whether the item carries no information at all.
func JobIsEmpty(e cv.ExperienceItem) bool {
	return e.Employer == "" && e.Role == "" && e.Start == "" && e.End == "" &&
		e.Location == "" && len(e.Bullets) == 0
}

func cleanSchool(e cv.EducationItem, bulletCap int) cv.EducationItem {
	out := cv.EducationItem{
		School:       textutil.Clean(e.School),
		Degree:       textutil.Clean(e.Degree),
		FieldOfStudy: textutil.Clean(e.FieldOfStudy),
		EQFLevel:     textutil.Clean(e.EQFLevel),
		Start:        textutil.Clean(e.Start),
		End:          dates.NormalizeEnd(e.End),
		Location:     textutil.Clean(e.Location),
	}
	return out.WithBullets(Bullets(e.Bullets, bulletCap))
}

func educationKey(e cv.EducationItem) string {
	if e.School != "" || e.Degree != "" {
		return strings.ToLower(e.School) + "|" + strings.ToLower(e.Degree)
	}
	return "~" + strings.ToLower(e.FieldOfStudy) + "|" + strings.ToLower(e.Start) + "|" + strings.ToLower(e.End)
}

func educationIsEmpty(e cv.EducationItem) bool {
	return e.School == "" && e.Degree == "" && e.FieldOfStudy == "" && e.EQFLevel == "" &&
		e.Start == "" && e.End == "" && e.Location == "" && len(e.Bullets) == 0
}

// Education merges items sharing the (school, degree) key. On collision the
// first non-empty value of every field wins and bullets are unioned.
func Education(in []cv.EducationItem, bulletCap int) []cv.EducationItem {
	out := make([]cv.EducationItem, 0, len(in))
	index := map[string]int{}
	for _, raw := range in {
		item := cleanSchool(raw, bulletCap)
		if educationIsEmpty(item) {
			continue
		}
		key := educationKey(item)
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, item)
			continue
		}
		cur := out[i]
		merged := cv.EducationItem{
			School:       textutil.FirstNonEmpty(cur.School, item.School),
			Degree:       textutil.FirstNonEmpty(cur.Degree, item.Degree),
			FieldOfStudy: textutil.FirstNonEmpty(cur.FieldOfStudy, item.FieldOfStudy),
			EQFLevel:     textutil.FirstNonEmpty(cur.EQFLevel, item.EQFLevel),
			Start:        textutil.FirstNonEmpty(cur.Start, item.Start),
			End:          textutil.FirstNonEmpty(cur.End, item.End),
			Location:     textutil.FirstNonEmpty(cur.Location, item.Location),
		}
		out[i] = merged.WithBullets(MergeBullets(bulletCap, cur.Bullets, item.Bullets))
	}
	return out
}

// IsCodedLevel reports whether a language level uses a CEFR code or states
// native proficiency.
func IsCodedLevel(level string) bool {
	return codedLevelRe.MatchString(level)
}

// Languages dedupes languages by Title-Case name. When levels disagree a
// coded level beats a free-text one; otherwise the first non-empty stays.
func Languages(in []cv.LanguageItem) []cv.LanguageItem {
	out := make([]cv.LanguageItem, 0, len(in))
	index := map[string]int{}
	for _, l := range in {
		name := textutil.TitleCase(l.Name)
		if name == "" {
			continue
		}
		level := textutil.Clean(l.Level)
		i, ok := index[name]
		if !ok {
			index[name] = len(out)
			out = append(out, cv.LanguageItem{Name: name, Level: level})
			continue
		}
		cur := out[i].Level
		switch {
		case cur == "":
			out[i].Level = level
		case level != "" && !IsCodedLevel(cur) && IsCodedLevel(level):
			out[i].Level = level
		}
	}
	return out
}

// Certifications dedupes certificates by name, filling issuer and date
// from later duplicates when missing.
func Certifications(in []cv.CertificationItem) []cv.CertificationItem {
	out := make([]cv.CertificationItem, 0, len(in))
	index := map[string]int{}
	for _, c := range in {
		item := cv.CertificationItem{
			Name:   textutil.Clean(c.Name),
			Issuer: textutil.Clean(c.Issuer),
			Date:   textutil.Clean(c.Date),
		}
		if item.Name == "" {
			continue
		}
		key := strings.ToLower(item.Name)
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, item)
			continue
		}
		out[i].Issuer = textutil.FirstNonEmpty(out[i].Issuer, item.Issuer)
		out[i].Date = textutil.FirstNonEmpty(out[i].Date, item.Date)
	}
	return out
}
