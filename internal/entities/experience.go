package entities

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/spigell/cvfuse/internal/cv"
	"github.com/spigell/cvfuse/internal/dates"
	"github.com/spigell/cvfuse/internal/dedupe"
	"github.com/spigell/cvfuse/internal/location"
	"github.com/spigell/cvfuse/internal/textutil"
)

const (
	maxHeaderRunes  = 180
	maxShortTokens  = 8
	maxDateRest     = 4
	repairWindow    = 4
	maxLabelRunSize = 6
)

type field int

const (
	fieldEmployer field = iota
	fieldProject
	fieldClient
	fieldDates
	fieldRole
	fieldLocation
)

var labelFields = map[string]field{
	"employer":     fieldEmployer,
	"company":      fieldEmployer,
	"organisation": fieldEmployer,
	"organization": fieldEmployer,
	"project":      fieldProject,
	"project name": fieldProject,
	"client":       fieldClient,
	"customer":     fieldClient,
	"dates":        fieldDates,
	"date":         fieldDates,
	"period":       fieldDates,
	"duration":     fieldDates,
	"role":         fieldRole,
	"position":     fieldRole,
	"job title":    fieldRole,
	"title":        fieldRole,
	"function":     fieldRole,
	"location":     fieldLocation,
	"city":         fieldLocation,
}

var (
	expLabelRe  = regexp.MustCompile(`(?i)^(employer|company|organi[sz]ation|project name|project|client|customer|dates?|period|duration|role|position|job title|title|function|location|city)\s*:\s*(.*)$`)
	countryRe   = regexp.MustCompile(`(?i)^([^|]+?)\s*\|\s*country\s*:\s*(.+)$`)
	separatorRe = regexp.MustCompile(`(?i)\s(?:at|@)\s|[|–—,]|\s-\s`)
)

// triggers open a new job when they appear outside a run of labels.
func (f field) trigger() bool {
	return f == fieldEmployer || f == fieldProject || f == fieldClient || f == fieldDates
}

type job struct {
	item    cv.ExperienceItem
	project string
	client  string
	line    int
}

func (j *job) filled(f field) bool {
	switch f {
	case fieldEmployer:
		return j.item.Employer != ""
	case fieldProject:
		return j.project != ""
	case fieldClient:
		return j.client != ""
	case fieldDates:
		return j.item.Start != "" || j.item.End != ""
	case fieldRole:
		return j.item.Role != ""
	case fieldLocation:
		return j.item.Location != ""
	}
	return false
}

func (j *job) hasOrg() bool {
	return j.item.Employer != "" || j.client != "" || j.project != ""
}

func (j *job) setDates(r dates.Range) {
	if r.Empty() {
		return
	}
	j.item.Start, j.item.End = r.Start, r.End
}

func (j *job) addBullet(text string) {
	if text = dedupe.CleanBullet(text); text != "" {
		j.item.Bullets = append(j.item.Bullets, cv.Bullet{Text: text})
	}
}

// popBullet removes the last bullet when it equals text.
func (j *job) popBullet(text string) bool {
	n := len(j.item.Bullets)
	if n == 0 || j.item.Bullets[n-1].Text != dedupe.CleanBullet(text) {
		return false
	}
	j.item.Bullets = j.item.Bullets[:n-1]
	return true
}

type experienceParser struct {
	lines    []string
	explicit bool

	jobs []*job
	cur  *job

	// lines seen before the first job
	pre []string

	runEnd  int
	runSize int
}

// Experience parses job entries. explicit tells whether the lines come from
// an experience section, which allows a headerless section to become a
// single job and keeps plain lines before the first header.
func Experience(lines []string, explicit bool) []cv.ExperienceItem {
	p := &experienceParser{lines: lines, explicit: explicit, runEnd: -2}
	return p.parse()
}

func (p *experienceParser) parse() []cv.ExperienceItem {
	for i := 0; i < len(p.lines); i++ {
		line := strings.TrimSpace(p.lines[i])
		switch {
		case line == "":
			continue
		case p.label(i, line):
		case isBulletLine(line):
			p.bullet(line)
		case p.isHeader(i):
			i = p.header(i)
		case p.dateLine(i, line):
		case isSubLabel(line):
		default:
			p.plain(line)
		}
	}
	p.push()
	return p.finish()
}

func (p *experienceParser) start(i int) {
	p.push()
	p.cur = &job{line: i}
}

func (p *experienceParser) push() {
	if p.cur != nil {
		p.jobs = append(p.jobs, p.cur)
		p.cur = nil
	}
}

func (p *experienceParser) last() *job {
	if p.cur != nil {
		return p.cur
	}
	if len(p.jobs) > 0 {
		return p.jobs[len(p.jobs)-1]
	}
	return nil
}

func (p *experienceParser) bullet(line string) {
	if p.cur == nil {
		p.pre = append(p.pre, line)
		return
	}
	p.cur.addBullet(line)
}

func (p *experienceParser) plain(line string) {
	if p.cur == nil {
		if p.explicit {
			p.pre = append(p.pre, line)
		}
		return
	}
	p.cur.addBullet(line)
}

// label handles "Employer:", "Client:", "Dates:" style lines. A consecutive
// run of labels describes one job; a label for a field that is already set
// starts the next one.
func (p *experienceParser) label(i int, line string) bool {
	m := expLabelRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	f := labelFields[strings.ToLower(m[1])]
	value := strings.TrimSpace(m[2])
	if value == "" {
		return true
	}

	inRun := p.runEnd == i-1 && p.runSize < maxLabelRunSize
	switch {
	case p.cur == nil:
		p.start(i)
	case p.cur.filled(f):
		p.start(i)
	case !inRun && f.trigger() && len(p.cur.item.Bullets) > 0 && p.cur.hasOrg():
		p.start(i)
	}
	if p.runEnd == i-1 {
		p.runSize++
	} else {
		p.runSize = 1
	}
	p.runEnd = i

	j := p.cur
	switch f {
	case fieldEmployer:
		j.item.Employer = textutil.Clean(dates.Strip(value))
		if !j.filled(fieldDates) {
			j.setDates(dates.Extract(value))
		}
	case fieldProject:
		j.project = textutil.Clean(value)
	case fieldClient:
		p.client(j, value)
	case fieldDates:
		j.setDates(dates.Extract(value))
	case fieldRole:
		j.item.Role = textutil.Clean(value)
	case fieldLocation:
		j.item.Location = labelPlace(value)
	}
	return true
}

// labelPlace reads "Brussels" and "Brussels | Country: Belgium" values.
func labelPlace(value string) string {
	if m := countryRe.FindStringSubmatch(value); m != nil {
		return joinPlace(m[1], m[2])
	}
	return textutil.Clean(value)
}

// client reads "Client: Name | dates | location" values.
func (p *experienceParser) client(j *job, value string) {
	parts := location.Split(value)
	if !j.filled(fieldDates) {
		j.setDates(dates.Extract(value))
	}
	if j.item.Location == "" {
		j.item.Location = location.Resolve(parts)
	}
	for _, part := range parts {
		name := dates.Strip(part)
		if name == "" || name == j.item.Location || location.Flag(name) != "" {
			continue
		}
		j.client = textutil.Clean(name)
		return
	}
}

// isHeader recognises generic job header lines: a separator plus a date,
// a company hint or capitals, with a job title on the line or next to it.
func (p *experienceParser) isHeader(i int) bool {
	line := strings.TrimSpace(p.lines[i])
	if !headerShaped(line) || dates.Strip(line) == "" {
		return false
	}
	if !dates.Contains(line) && !hasCompanyHint(line) && !textutil.IsAllCaps(line) {
		return false
	}
	if hasTitle(line) {
		return true
	}
	return p.roleOnly(i-1) || p.roleOnly(i+1)
}

func headerShaped(line string) bool {
	if isBulletLine(line) || sentenceEnd.MatchString(line) || len([]rune(line)) > maxHeaderRunes {
		return false
	}
	if r := []rune(line); unicode.IsLower(r[0]) {
		return false
	}
	return separatorRe.MatchString(line)
}

// roleOnly reports whether line i is a short job title on its own.
func (p *experienceParser) roleOnly(i int) bool {
	if i < 0 || i >= len(p.lines) {
		return false
	}
	line := strings.TrimSpace(p.lines[i])
	return p.short(line) && hasTitle(line)
}

func (p *experienceParser) short(line string) bool {
	if line == "" || isBulletLine(line) || sentenceEnd.MatchString(line) || expLabelRe.MatchString(line) {
		return false
	}
	if dates.Contains(line) || isSubLabel(line) {
		return false
	}
	return len(strings.Fields(line)) <= maxShortTokens
}

func (p *experienceParser) header(i int) int {
	line := strings.TrimSpace(p.lines[i])
	parsed := ParseHeader(line)
	if p.labelOnly(i) {
		mergeHeader(&p.cur.item, parsed)
	} else {
		p.start(i)
		p.cur.item = parsed
	}

	if p.cur.item.Role == "" && p.roleOnly(i-1) && p.takeBack(p.lines[i-1]) {
		p.cur.item.Role = textutil.Clean(p.lines[i-1])
	}
	if p.cur.item.Role == "" && p.roleOnly(i+1) && !p.isHeader(i+1) {
		p.cur.item.Role = textutil.Clean(p.lines[i+1])
		return i + 1
	}
	return i
}

// labelOnly reports whether the current job was opened by the label lines
// right above line i and has nothing but organisation details yet.
func (p *experienceParser) labelOnly(i int) bool {
	return p.cur != nil && p.runEnd == i-1 && p.cur.item.Role == "" &&
		!p.cur.filled(fieldDates) && len(p.cur.item.Bullets) == 0
}

func mergeHeader(dst *cv.ExperienceItem, src cv.ExperienceItem) {
	dst.Employer = textutil.FirstNonEmpty(dst.Employer, src.Employer)
	dst.Role = textutil.FirstNonEmpty(dst.Role, src.Role)
	dst.Start = textutil.FirstNonEmpty(dst.Start, src.Start)
	dst.End = textutil.FirstNonEmpty(dst.End, src.End)
	dst.Location = textutil.FirstNonEmpty(dst.Location, src.Location)
}

// takeBack removes line from wherever it was stored as a plain line.
func (p *experienceParser) takeBack(line string) bool {
	if len(p.jobs) == 0 {
		n := len(p.pre)
		if n == 0 || p.pre[n-1] != strings.TrimSpace(line) {
			return false
		}
		p.pre = p.pre[:n-1]
		return true
	}
	return p.jobs[len(p.jobs)-1].popBullet(line)
}

// dateLine handles a line that is mostly a date range. It completes the
// current job or opens a new one, taking the short lines right above it as
// role and employer.
func (p *experienceParser) dateLine(i int, line string) bool {
	if !dates.Contains(line) {
		return false
	}
	rest := dates.Strip(line)
	if len(strings.Fields(rest)) > maxDateRest {
		return false
	}
	loc := location.Resolve(location.Split(rest))
	if rest != "" && loc == "" && !location.IsPlace(rest) {
		return false
	}
	if loc == "" {
		loc = rest
	}
	r := dates.Extract(line)

	if p.cur != nil && !p.cur.filled(fieldDates) {
		p.cur.setDates(r)
		if p.cur.item.Location == "" {
			p.cur.item.Location = loc
		}
		return true
	}

	p.start(i)
	p.cur.setDates(r)
	p.cur.item.Location = loc
	for back := i - 1; back >= 0 && back >= i-2; back-- {
		prev := strings.TrimSpace(p.lines[back])
		if !p.short(prev) || !p.takeBack(prev) {
			break
		}
		clean := textutil.Clean(prev)
		switch {
		case hasTitle(clean) && p.cur.item.Role == "":
			p.cur.item.Role = clean
		case p.cur.item.Employer == "":
			p.cur.item.Employer = clean
		case p.cur.item.Role == "":
			p.cur.item.Role = clean
		}
	}
	return true
}

func (p *experienceParser) finish() []cv.ExperienceItem {
	pre := p.pre
	if len(p.jobs) == 0 {
		if !p.explicit || len(pre) == 0 {
			return []cv.ExperienceItem{}
		}
		p.jobs = append(p.jobs, &job{})
	}
	if len(pre) > 0 {
		first := p.jobs[0]
		head := make([]cv.Bullet, 0, len(pre)+len(first.item.Bullets))
		for _, l := range pre {
			if text := dedupe.CleanBullet(l); text != "" {
				head = append(head, cv.Bullet{Text: text})
			}
		}
		first.item.Bullets = append(head, first.item.Bullets...)
	}

	p.repair()

	out := make([]cv.ExperienceItem, 0, len(p.jobs))
	for _, j := range p.jobs {
		item := j.item
		item.Employer = textutil.FirstNonEmpty(item.Employer, j.client, j.project)
		item = dedupe.Job(item, 0)
		if !dedupe.JobIsEmpty(item) {
			out = append(out, item)
		}
	}
	return out
}

// repair fills a missing employer from a nearby "Client:" or "Customer:" line.
func (p *experienceParser) repair() {
	for _, j := range p.jobs {
		if j.item.Employer != "" || j.client != "" {
			continue
		}
		if name := p.nearbyClient(j.line); name != "" {
			j.client = name
		}
	}
}

func (p *experienceParser) nearbyClient(at int) string {
	for d := 1; d <= repairWindow; d++ {
		for _, i := range []int{at - d, at + d} {
			if i < 0 || i >= len(p.lines) {
				continue
			}
			m := expLabelRe.FindStringSubmatch(strings.TrimSpace(p.lines[i]))
			if m == nil || labelFields[strings.ToLower(m[1])] != fieldClient {
				continue
			}
			var tmp job
			p.client(&tmp, m[2])
			if tmp.client != "" {
				return tmp.client
			}
		}
	}
	return ""
}

// ParseHeader reads role, employer, dates and location from a job header
// such as "Senior Consultant | Acme Corp | Jan 2020 - Present | Brussels, Belgium"
// or "Engineer at Acme (2019 - 2021)".
func ParseHeader(line string) cv.ExperienceItem {
	var item cv.ExperienceItem
	r := dates.Extract(line)
	item.Start, item.End = r.Start, r.End

	rest := textutil.Clean(dates.Strip(line))
	parts := splitStrong(rest)
	item.Location = location.Resolve(parts)
	if item.Location != "" {
		rest = removeLocation(rest, item.Location)
	}

	if m := atSepRe.FindStringIndex(rest); m != nil {
		left := splitStrong(rest[:m[0]])
		right := splitStrong(rest[m[1]:])
		if len(left) > 0 {
			item.Role = pickRole(left)
		}
		if len(right) > 0 {
			item.Employer = right[0]
		}
		if item.Employer != "" || item.Role != "" {
			return item
		}
	}

	segments := splitStrong(rest)
	if len(segments) == 1 && strings.Contains(segments[0], ",") {
		segments = splitComma(segments[0])
	}

	used := make([]bool, len(segments))
	for i, s := range segments {
		if hasTitle(s) {
			item.Role, used[i] = s, true
			break
		}
	}
	for i, s := range segments {
		if !used[i] && hasCompanyHint(s) {
			item.Employer, used[i] = s, true
			break
		}
	}
	for i, s := range segments {
		if used[i] {
			continue
		}
		switch {
		case item.Role == "" && item.Employer != "":
			item.Role, used[i] = s, true
		case item.Employer == "":
			if item.Role == "" {
				item.Role, used[i] = s, true
				continue
			}
			item.Employer, used[i] = s, true
		}
	}
	return item
}

func pickRole(parts []string) string {
	for _, p := range parts {
		if hasTitle(p) {
			return p
		}
	}
	return parts[0]
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func removeLocation(s, loc string) string {
	if idx := strings.Index(s, loc); idx >= 0 {
		s = s[:idx] + s[idx+len(loc):]
	} else if paren := "(" + loc + ")"; strings.Contains(s, paren) {
		s = strings.Replace(s, paren, "", 1)
	} else {
		for _, part := range strings.Split(loc, ", ") {
			s = strings.Replace(s, part, "", 1)
		}
	}
	s = strings.NewReplacer("()", "", "( )", "").Replace(s)
	return strings.Trim(textutil.Clean(s), " -–—|,;:/")
}
