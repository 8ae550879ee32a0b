// Package fuse reconciles two normalized records describing the same
// candidate: a primary one, usually produced by a model or an API, and an
// assist one produced by the rule-based parser.
package fuse

import (
	"strings"

	"github.com/spigell/cvfuse/internal/cv"
	"github.com/spigell/cvfuse/internal/dates"
	"github.com/spigell/cvfuse/internal/dedupe"
	"github.com/spigell/cvfuse/internal/textutil"
)

// DefaultDateWindowYears widens both periods when deciding whether two jobs
// at the same employer or with the same role are the same job.
const DefaultDateWindowYears = 1

// Config tunes the fuser. A zero DateWindowYears turns the date window rule
// off, so only employer and role together can match two jobs.
type Config struct {
	DateWindowYears int `mapstructure:"date-window-years"`
	SkillCap        int `mapstructure:"skill-cap"`
	BulletCap       int `mapstructure:"bullet-cap"`
}

// DefaultConfig returns the standard settings.
func DefaultConfig() Config {
	return Config{
		DateWindowYears: DefaultDateWindowYears,
		SkillCap:        dedupe.DefaultSkillCap,
		BulletCap:       dedupe.DefaultBulletCap,
	}
}

// Fuser merges records.
type Fuser struct {
	cfg Config
}

// New builds a fuser. Non-positive caps fall back to the defaults and a
// negative window is treated as zero.
func New(cfg Config) *Fuser {
	if cfg.SkillCap <= 0 {
		cfg.SkillCap = dedupe.DefaultSkillCap
	}
	if cfg.BulletCap <= 0 {
		cfg.BulletCap = dedupe.DefaultBulletCap
	}
	if cfg.DateWindowYears < 0 {
		cfg.DateWindowYears = 0
	}
	return &Fuser{cfg: cfg}
}

// Fuse runs the default fuser.
func Fuse(primary, assist cv.Record) cv.Record {
	return New(DefaultConfig()).Fuse(primary, assist)
}

// Fuse merges assist into primary. Scalars keep the first non-empty value,
// lists are unioned and experience items are aligned one to one. Nothing
// present in either input is dropped and neither input is modified.
func (f *Fuser) Fuse(primary, assist cv.Record) cv.Record {
	p, a := primary.Clone(), assist.Clone()

	out := cv.Empty()
	out.Candidate = candidate(p.Candidate, a.Candidate)
	out.Skills = dedupe.RankSkills(f.cfg.SkillCap, p.Skills, a.Skills)
	out.Experience = f.experience(p.Experience, a.Experience)
	out.Education = dedupe.Education(append(p.Education, a.Education...), f.cfg.BulletCap)
	out.Languages = dedupe.Languages(append(p.Languages, a.Languages...))
	out.Certifications = dedupe.Certifications(append(p.Certifications, a.Certifications...))
	out.Meta = meta(p.Meta, a.Meta)
	return out
}

func candidate(p, a cv.Candidate) cv.Candidate {
	name := cv.PlaceholderName
	switch {
	case p.HasRealName():
		name = p.Name
	case a.HasRealName():
		name = a.Name
	}
	return cv.Candidate{
		Name:     name,
		Title:    textutil.FirstNonEmpty(p.Title, a.Title),
		Summary:  textutil.FirstNonEmpty(p.Summary, a.Summary),
		Location: textutil.FirstNonEmpty(p.Location, a.Location),
		Contacts: cv.Contacts{
			Email:    textutil.FirstNonEmpty(p.Contacts.Email, a.Contacts.Email),
			Phone:    textutil.FirstNonEmpty(p.Contacts.Phone, a.Contacts.Phone),
			LinkedIn: textutil.FirstNonEmpty(p.Contacts.LinkedIn, a.Contacts.LinkedIn),
			GitHub:   textutil.FirstNonEmpty(p.Contacts.GitHub, a.Contacts.GitHub),
			Website:  textutil.FirstNonEmpty(p.Contacts.Website, a.Contacts.Website),
		},
	}
}

func meta(p, a cv.Meta) cv.Meta {
	source := textutil.FirstNonEmpty(p.Source, a.Source)
	if p.Source != "" && a.Source != "" && p.Source != a.Source {
		source = p.Source + "+" + a.Source
	}
	return cv.Meta{
		Locale: textutil.FirstNonEmpty(p.Locale, a.Locale),
		Source: source,
	}
}

// experience keeps primary order, merging in the assist item aligned with
// each primary item, then appends the assist items nothing matched.
func (f *Fuser) experience(primary, assist []cv.ExperienceItem) []cv.ExperienceItem {
	pairs := f.align(primary, assist)

	used := make([]bool, len(assist))
	out := make([]cv.ExperienceItem, 0, len(primary)+len(assist))
	for i, p := range primary {
		item := p
		if j := pairs[i]; j >= 0 {
			used[j] = true
			item = f.merge(p, assist[j])
		}
		out = append(out, dedupe.Job(item, f.cfg.BulletCap))
	}
	for j, a := range assist {
		if !used[j] {
			out = append(out, dedupe.Job(a, f.cfg.BulletCap))
		}
	}
	return out
}

// align returns, for every primary item, the index of its assist partner or
// -1. Identical items pair up first; the heuristic rules then run greedily
// in primary order.
func (f *Fuser) align(primary, assist []cv.ExperienceItem) []int {
	pairs := make([]int, len(primary))
	for i := range pairs {
		pairs[i] = -1
	}
	taken := make([]bool, len(assist))

	pk := make([]jobKey, len(primary))
	for i, p := range primary {
		pk[i] = keyOf(p)
	}
	ak := make([]jobKey, len(assist))
	for j, a := range assist {
		ak[j] = keyOf(a)
	}

	for i := range primary {
		for j := range assist {
			if !taken[j] && pk[i] == ak[j] {
				pairs[i], taken[j] = j, true
				break
			}
		}
	}

	for i := range primary {
		if pairs[i] >= 0 {
			continue
		}
		for j := range assist {
			if !taken[j] && f.sameJob(pk[i], ak[j]) {
				pairs[i], taken[j] = j, true
				break
			}
		}
	}
	return pairs
}

func (f *Fuser) sameJob(p, a jobKey) bool {
	sameEmployer := p.employer != "" && p.employer == a.employer
	sameRole := p.role != "" && p.role == a.role
	if sameEmployer && sameRole {
		return true
	}
	if f.cfg.DateWindowYears == 0 || (!sameEmployer && !sameRole) {
		return false
	}
	return dates.Overlaps(p.start, p.end, a.start, a.end, f.cfg.DateWindowYears)
}

func (f *Fuser) merge(p, a cv.ExperienceItem) cv.ExperienceItem {
	return cv.ExperienceItem{
		Employer: textutil.FirstNonEmpty(p.Employer, a.Employer),
		Role:     textutil.FirstNonEmpty(p.Role, a.Role),
		Start:    textutil.FirstNonEmpty(p.Start, a.Start),
		End:      textutil.FirstNonEmpty(p.End, a.End),
		Location: textutil.FirstNonEmpty(p.Location, a.Location),
		Bullets:  dedupe.MergeBullets(f.cfg.BulletCap, p.Bullets, a.Bullets),
	}
}

type jobKey struct {
	employer string
	role     string
	start    string
	end      string
}

func keyOf(e cv.ExperienceItem) jobKey {
	return jobKey{
		employer: employerKey(e.Employer),
		role:     textutil.AlnumKey(e.Role),
		start:    textutil.Key(e.Start),
		end:      textutil.Key(dates.NormalizeEnd(e.End)),
	}
}

var legalSuffixes = map[string]bool{
	"inc": true, "incorporated": true, "ltd": true, "limited": true, "llc": true, "llp": true,
	"gmbh": true, "ag": true, "corp": true, "corporation": true, "co": true, "plc": true,
	"sa": true, "nv": true, "bv": true, "bvba": true, "srl": true, "sarl": true, "sas": true,
	"spa": true, "oy": true, "ab": true, "as": true, "kg": true, "pty": true, "ooo": true,
}

// employerKey compares employers without case, punctuation and legal form.
func employerKey(s string) string {
	words := strings.FieldsFunc(textutil.Key(s), func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '-' || r == '&' || r == '(' || r == ')'
	})
	kept := words[:0]
	for _, w := range words {
		if !legalSuffixes[w] {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return textutil.AlnumKey(s)
	}
	return textutil.AlnumKey(strings.Join(kept, ""))
}
