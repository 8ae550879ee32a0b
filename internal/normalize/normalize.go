// Package normalize migrates candidate data of any shape into the canonical
// record. Field names are resolved through the alias table in aliases.go;
// misplaced arrays are found by a bounded graph walk and raw text, when
// present, fills the sections nothing else could provide.
package normalize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spigell/cvfuse/internal/cv"
	"github.com/spigell/cvfuse/internal/dates"
	"github.com/spigell/cvfuse/internal/dedupe"
	"github.com/spigell/cvfuse/internal/entities"
	"github.com/spigell/cvfuse/internal/identity"
	"github.com/spigell/cvfuse/internal/parser"
	"github.com/spigell/cvfuse/internal/textutil"
)

// DefaultMaxDepth bounds the search for misplaced section arrays.
const DefaultMaxDepth = 6

var eqfDigitRe = regexp.MustCompile(`[1-8]`)

// Config tunes the normalizer.
type Config struct {
	MaxDepth  int    `mapstructure:"max-depth"`
	SkillCap  int    `mapstructure:"skill-cap"`
	BulletCap int    `mapstructure:"bullet-cap"`
	Locale    string `mapstructure:"locale"`
}

// DefaultConfig returns the standard limits.
func DefaultConfig() Config {
	return Config{
		MaxDepth:  DefaultMaxDepth,
		SkillCap:  dedupe.DefaultSkillCap,
		BulletCap: dedupe.DefaultBulletCap,
	}
}

// Normalizer converts arbitrary input into a cv.Record.
type Normalizer struct {
	cfg Config
}

// New builds a normalizer. Non-positive limits fall back to the defaults.
func New(cfg Config) *Normalizer {
	def := DefaultConfig()
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.SkillCap <= 0 {
		cfg.SkillCap = def.SkillCap
	}
	if cfg.BulletCap <= 0 {
		cfg.BulletCap = def.BulletCap
	}
	return &Normalizer{cfg: cfg}
}

// Normalize runs the default normalizer.
func Normalize(input any) cv.Record {
	return New(DefaultConfig()).Normalize(input)
}

// Normalize accepts a cv.Record, a decoded JSON document, any struct with
// json tags or plain résumé text. It never fails and never modifies the
// input. Normalizing its own output returns the same record.
func (n *Normalizer) Normalize(input any) cv.Record {
	switch v := generic(input).(type) {
	case nil:
		return n.finish(cv.Empty())
	case string:
		return n.finish(parser.ParseFreeText(stripNoise(v)))
	case map[string]any:
		return n.finish(n.fromMap(v))
	default:
		return n.finish(n.fromMap(map[string]any{"": v}))
	}
}

func (n *Normalizer) fromMap(root map[string]any) cv.Record {
	scopes := candidateScopes(root)
	// sections live at the root first, then under the candidate scopes
	holders := append([]map[string]any{root}, scopes[:len(scopes)-1]...)

	rec := cv.Empty()
	rec.Candidate = candidate(scopes)
	rec.Skills = skills(n.section(root, holders, "skills"))
	for _, v := range items(n.section(root, holders, "experience")) {
		if e, ok := experienceItem(v); ok {
			rec.Experience = append(rec.Experience, e)
		}
	}
	for _, v := range items(n.section(root, holders, "education")) {
		if e, ok := educationItem(v); ok {
			rec.Education = append(rec.Education, e)
		}
	}
	for _, v := range items(n.section(root, holders, "languages")) {
		rec.Languages = append(rec.Languages, languageItems(v)...)
	}
	for _, v := range items(n.section(root, holders, "certifications")) {
		if c, ok := certificationItem(v); ok {
			rec.Certifications = append(rec.Certifications, c)
		}
	}

	meta := child(root, "meta")
	rec.Meta = cv.Meta{
		Locale: firstString("locale", meta, root),
		Source: firstString("source", meta, root),
	}

	return n.fallback(rec, rawText(root))
}

// section returns the raw value of a section. Holders are searched in order
// and the whole graph is walked only when none of them has it.
func (n *Normalizer) section(root map[string]any, holders []map[string]any, field string) any {
	for _, h := range holders {
		if v, ok := lookup(h, field); ok {
			return v
		}
	}
	if arr := findArray(root, field, n.cfg.MaxDepth); arr != nil {
		return arr
	}
	return nil
}

// items turns a section value into its entries. An object is either a
// container of nested arrays, like hh.ru education, or a single entry.
func items(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case map[string]any:
		var out []any
		index := keyIndex(t)
		for _, alias := range aliases["nested"] {
			if key, ok := index[textutil.AlnumKey(alias)]; ok {
				if list, ok := t[key].([]any); ok {
					out = append(out, list...)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []any{v}
}

func candidateScopes(root map[string]any) []map[string]any {
	var out []map[string]any
	index := keyIndex(root)
	for _, alias := range aliases["candidateScope"] {
		if key, ok := index[textutil.AlnumKey(alias)]; ok {
			if m := mapOf(root[key]); len(m) > 0 {
				out = append(out, m)
			}
		}
	}
	return append(out, root)
}

func candidate(scopes []map[string]any) cv.Candidate {
	c := cv.Candidate{
		Name:     firstString("name", scopes...),
		Title:    firstString("title", scopes...),
		Summary:  firstText("summary", scopes...),
		Location: firstPlace("location", scopes...),
		Contacts: contacts(scopes),
	}
	if c.Name == "" {
		c.Name = joinName(scopes)
	}
	return c
}

// joinName assembles a name from its parts, which may also sit in an
// object stored under the name key.
func joinName(scopes []map[string]any) string {
	var all []map[string]any
	for _, s := range scopes {
		if m := child(s, "name"); m != nil {
			all = append(all, m)
		}
		all = append(all, s)
	}
	var parts []string
	for _, field := range []string{"firstName", "midName", "lastName"} {
		if s := firstString(field, all...); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func firstText(field string, scopes ...map[string]any) string {
	for _, s := range scopes {
		if v, ok := lookup(s, field); ok {
			if t := text(v); t != "" {
				return t
			}
		}
	}
	return ""
}

func firstPlace(field string, scopes ...map[string]any) string {
	for _, s := range scopes {
		if v, ok := lookup(s, field); ok {
			if p := place(v); p != "" {
				return p
			}
		}
	}
	return ""
}

func contacts(scopes []map[string]any) cv.Contacts {
	var all []map[string]any
	for _, s := range scopes {
		if m := child(s, "contactScope"); m != nil {
			all = append(all, m)
		}
		all = append(all, s)
	}

	c := cv.Contacts{
		Email:    firstString("email", all...),
		Phone:    firstString("phone", all...),
		LinkedIn: firstString("linkedin", all...),
		GitHub:   firstString("github", all...),
		Website:  firstString("website", all...),
	}

	// {type, value} contact lists and {network, url} profile lists
	for _, s := range scopes {
		for _, field := range []string{"contactScope", "profiles"} {
			v, _ := lookup(s, field)
			list, _ := v.([]any)
			for _, item := range list {
				assignContact(&c, item)
			}
		}
	}

	if c.LinkedIn == "" && strings.Contains(strings.ToLower(c.Website), "linkedin.com") {
		c.LinkedIn, c.Website = c.Website, ""
	}
	if c.GitHub == "" && strings.Contains(strings.ToLower(c.Website), "github.com") {
		c.GitHub, c.Website = c.Website, ""
	}
	return c
}

func assignContact(c *cv.Contacts, item any) {
	m := mapOf(item)
	if m == nil {
		classifyContact(c, "", scalar(item))
		return
	}
	kind := ""
	if v, ok := lookup(m, "contactType"); ok {
		if km := mapOf(v); km != nil {
			kind = firstOf(km, "id", "name", "type")
		} else {
			kind = scalar(v)
		}
	}
	value := ""
	if v, ok := lookup(m, "contactValue"); ok {
		value = scalar(v)
	}
	classifyContact(c, strings.ToLower(kind), value)
}

func classifyContact(c *cv.Contacts, kind, value string) {
	if value == "" {
		return
	}
	lv := strings.ToLower(value)

	var target *string
	switch {
	case strings.Contains(kind, "mail"):
		target = &c.Email
	case strings.Contains(kind, "linkedin") || strings.Contains(lv, "linkedin.com"):
		target = &c.LinkedIn
	case strings.Contains(kind, "github") || strings.Contains(lv, "github.com"):
		target = &c.GitHub
	case containsAny(kind, "phone", "cell", "mobile", "tel", "home", "work"):
		target = &c.Phone
	case kind == "" && strings.Contains(value, "@") && !strings.Contains(value, "/"):
		target = &c.Email
	case kind == "" && identity.Phone(value) != "":
		target = &c.Phone
	case strings.Contains(lv, "http") || strings.Contains(lv, "www."):
		target = &c.Website
	default:
		return
	}
	if *target == "" {
		*target = value
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// skills reads an array of strings, an array of objects or one delimited
// string.
func skills(v any) []string {
	if s, ok := v.(string); ok {
		return entities.SplitSkills(s)
	}
	var out []string
	for _, item := range items(v) {
		out = append(out, skillNames(item)...)
	}
	return out
}

func skillNames(v any) []string {
	m := mapOf(v)
	if m == nil {
		if s := dedupe.CleanBullet(scalar(v)); s != "" {
			return []string{s}
		}
		return nil
	}

	var out []string
	if s := firstString("skillName", m); s != "" {
		out = append(out, s)
	}
	keywords := map[string]bool{}
	index := keyIndex(m)
	for _, alias := range aliases["skillKeywords"] {
		key, ok := index[textutil.AlnumKey(alias)]
		if !ok {
			continue
		}
		keywords[textutil.AlnumKey(key)] = true
		for _, k := range items(m[key]) {
			out = append(out, skillNames(k)...)
		}
	}

	// grouped skills: {"languages": [...], "tools": [...]}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if keywords[textutil.AlnumKey(k)] {
			continue
		}
		if list, ok := m[k].([]any); ok {
			for _, item := range list {
				out = append(out, skillNames(item)...)
			}
		}
	}
	return dedupe.Skills(out, 0)
}

func experienceItem(v any) (cv.ExperienceItem, bool) {
	if s, ok := v.(string); ok {
		return entities.ParseHeader(s), true
	}
	m := mapOf(v)
	if m == nil {
		return cv.ExperienceItem{}, false
	}

	e := cv.ExperienceItem{
		Employer: textutil.FirstNonEmpty(firstString("employer", m), firstString("projectName", m)),
		Role:     firstString("role", m),
		Start:    firstString("start", m),
		End:      firstString("end", m),
		Location: firstPlace("itemLocation", m),
		Bullets:  bullets(m, "bullets"),
	}
	if len(e.Bullets) == 0 {
		e.Bullets = bullets(m, "description")
	}
	if e.Start == "" && e.End == "" {
		r := dates.Extract(firstString("dates", m))
		e.Start, e.End = r.Start, r.End
	}
	return e, true
}

func educationItem(v any) (cv.EducationItem, bool) {
	if s, ok := v.(string); ok {
		return entities.ParseEducationHeader(s), true
	}
	m := mapOf(v)
	if m == nil {
		return cv.EducationItem{}, false
	}

	e := cv.EducationItem{
		School:       firstString("school", m),
		Degree:       firstString("degree", m),
		FieldOfStudy: firstString("fieldOfStudy", m),
		EQFLevel:     eqfLevel(firstString("eqfLevel", m)),
		Start:        firstString("start", m),
		End:          firstString("eduEnd", m),
		Location:     firstPlace("eduLocation", m),
	}
	if e.Start == "" && e.End == "" {
		r := dates.Extract(firstString("dates", m))
		e.Start, e.End = r.Start, r.End
	}
	return e.WithBullets(bullets(m, "eduBullets")), true
}

func eqfLevel(s string) string {
	if d := eqfDigitRe.FindString(s); d != "" {
		return d
	}
	return s
}

// bullets accepts a list of strings or {text} objects, or one string that
// is split into lines.
func bullets(m map[string]any, field string) []cv.Bullet {
	v, ok := lookup(m, field)
	if !ok {
		return nil
	}
	var out []cv.Bullet
	for _, item := range items(v) {
		var s string
		if im := mapOf(item); im != nil {
			s = firstOf(im, "text", "value", "name", "title", "description")
		} else if raw, ok := item.(string); ok {
			s = raw
		} else {
			s = scalar(item)
		}
		out = append(out, cv.BulletsOf(textutil.Lines(s)...)...)
	}
	return out
}

func languageItems(v any) []cv.LanguageItem {
	if s, ok := v.(string); ok {
		if parsed := entities.Languages([]string{s}, nil); len(parsed) > 0 {
			return parsed
		}
		return []cv.LanguageItem{{Name: textutil.Clean(s)}}
	}
	m := mapOf(v)
	if m == nil {
		return nil
	}
	return []cv.LanguageItem{{
		Name:  firstString("languageName", m),
		Level: firstString("languageLevel", m),
	}}
}

// certificationItem trusts structured entries; only plain strings go
// through the certificate parser to recover issuer and date.
func certificationItem(v any) (cv.CertificationItem, bool) {
	if s, ok := v.(string); ok {
		if parsed := entities.Certifications([]string{s}, true); len(parsed) > 0 {
			return parsed[0], true
		}
		return cv.CertificationItem{Name: textutil.Clean(s)}, true
	}
	m := mapOf(v)
	if m == nil {
		return cv.CertificationItem{}, false
	}
	return cv.CertificationItem{
		Name:   firstString("certName", m),
		Issuer: firstString("certIssuer", m),
		Date:   firstString("certDate", m),
	}, true
}

// rawText returns the source text stored next to the structured data, with
// line breaks intact.
func rawText(root map[string]any) string {
	v, ok := lookup(root, "rawText")
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []any:
		lines := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				lines = append(lines, s)
			}
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

// fallback parses raw text when any section came out empty and fills only
// what is missing.
func (n *Normalizer) fallback(rec cv.Record, raw string) cv.Record {
	if strings.TrimSpace(raw) == "" {
		return rec
	}
	if len(rec.Skills) > 0 && len(rec.Experience) > 0 && len(rec.Education) > 0 &&
		len(rec.Languages) > 0 && len(rec.Certifications) > 0 {
		return rec
	}

	parsed := parser.ParseFreeText(stripNoise(raw))
	out := rec.Clone()

	if len(out.Skills) == 0 {
		out.Skills = parsed.Skills
	}
	if len(out.Experience) == 0 {
		out.Experience = parsed.Experience
	}
	if len(out.Education) == 0 {
		out.Education = parsed.Education
	}
	if len(out.Languages) == 0 {
		out.Languages = parsed.Languages
	}
	if len(out.Certifications) == 0 {
		out.Certifications = parsed.Certifications
	}

	c, p := out.Candidate, parsed.Candidate
	if !c.HasRealName() && p.HasRealName() {
		c.Name = p.Name
	}
	c.Title = textutil.FirstNonEmpty(c.Title, p.Title)
	c.Summary = textutil.FirstNonEmpty(c.Summary, p.Summary)
	c.Location = textutil.FirstNonEmpty(c.Location, p.Location)
	c.Contacts = cv.Contacts{
		Email:    textutil.FirstNonEmpty(c.Contacts.Email, p.Contacts.Email),
		Phone:    textutil.FirstNonEmpty(c.Contacts.Phone, p.Contacts.Phone),
		LinkedIn: textutil.FirstNonEmpty(c.Contacts.LinkedIn, p.Contacts.LinkedIn),
		GitHub:   textutil.FirstNonEmpty(c.Contacts.GitHub, p.Contacts.GitHub),
		Website:  textutil.FirstNonEmpty(c.Contacts.Website, p.Contacts.Website),
	}
	out.Candidate = c
	return out
}

// finish applies the canonical cleanup shared by every input shape.
func (n *Normalizer) finish(rec cv.Record) cv.Record {
	out := cv.Empty()

	c := rec.Candidate
	out.Candidate = cv.Candidate{
		Name:     textutil.FirstNonEmpty(textutil.Clean(c.Name), cv.PlaceholderName),
		Title:    textutil.Clean(c.Title),
		Summary:  textutil.Clean(c.Summary),
		Location: textutil.Clean(c.Location),
		Contacts: cv.Contacts{
			Email:    textutil.Clean(c.Contacts.Email),
			Phone:    textutil.Clean(c.Contacts.Phone),
			LinkedIn: textutil.Clean(c.Contacts.LinkedIn),
			GitHub:   textutil.Clean(c.Contacts.GitHub),
			Website:  textutil.Clean(c.Contacts.Website),
		},
	}

	out.Skills = dedupe.Skills(rec.Skills, n.cfg.SkillCap)
	for _, e := range rec.Experience {
		if job := dedupe.Job(e, n.cfg.BulletCap); !dedupe.JobIsEmpty(job) {
			out.Experience = append(out.Experience, job)
		}
	}
	out.Education = dedupe.Education(rec.Education, n.cfg.BulletCap)
	out.Languages = dedupe.Languages(rec.Languages)
	out.Certifications = dedupe.Certifications(rec.Certifications)
	out.Meta = cv.Meta{
		Locale: textutil.Clean(textutil.FirstNonEmpty(rec.Meta.Locale, n.cfg.Locale)),
		Source: textutil.Clean(rec.Meta.Source),
	}
	return out
}
