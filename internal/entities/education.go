package entities

import (
	"regexp"
	"strings"

	"github.com/spigell/cvfuse/internal/cv"
	"github.com/spigell/cvfuse/internal/dates"
	"github.com/spigell/cvfuse/internal/dedupe"
	"github.com/spigell/cvfuse/internal/location"
	"github.com/spigell/cvfuse/internal/segment"
	"github.com/spigell/cvfuse/internal/textutil"
)

const maxEducationTokens = 16

var (
	fieldOfStudyRe = regexp.MustCompile(`(?i)^field(?:s|\(s\))?\s+of\s+study\s*:\s*(.+)$`)
	eqfRe          = regexp.MustCompile(`(?i)^level\s+in\s+eqf\s*:\s*(.+)$`)
	eqfDigitRe     = regexp.MustCompile(`[1-8]`)
	cityCountryRe  = regexp.MustCompile(`(?i)^city\s*:\s*([^|]+?)\s*(?:\|\s*country\s*:\s*(.+))?$`)
	eduLabelRe     = regexp.MustCompile(`(?i)^(institution|school|university|degree|qualification|title of qualification awarded|dates?|period)\s*:\s*(.+)$`)
)

type school struct {
	item cv.EducationItem
	line int
}

// Education parses degree entries. A header is a line naming a degree, an
// institution or written in capitals. Europass label lines fill the field of
// study, the EQF level and the location; achievement lines become bullets.
func Education(lines []string) []cv.EducationItem {
	var (
		items   []*school
		cur     *school
		pending []string
	)
	open := func(i int) {
		cur = &school{line: i}
		items = append(items, cur)
	}

	for i, raw := range lines {
		line := dedupe.CleanBullet(raw)
		if line == "" {
			continue
		}

		if m := fieldOfStudyRe.FindStringSubmatch(line); m != nil {
			if cur == nil {
				open(i)
			}
			cur.item.FieldOfStudy = textutil.Clean(m[1])
			continue
		}
		if m := eqfRe.FindStringSubmatch(line); m != nil {
			if cur == nil {
				open(i)
			}
			cur.item.EQFLevel = eqfDigitRe.FindString(m[1])
			continue
		}
		if m := cityCountryRe.FindStringSubmatch(line); m != nil {
			if cur == nil {
				open(i)
			}
			cur.item.Location = joinPlace(m[1], m[2])
			continue
		}
		if m := eduLabelRe.FindStringSubmatch(line); m != nil {
			if cur == nil {
				open(i)
			}
			value := textutil.Clean(m[2])
			switch strings.ToLower(m[1]) {
			case "institution", "school", "university":
				cur.item.School = value
			case "degree", "qualification", "title of qualification awarded":
				cur.item.Degree = value
			default:
				r := dates.Extract(value)
				cur.item.Start, cur.item.End = r.Start, r.End
			}
			continue
		}

		if achievementRe.MatchString(line) && !degreeRe.MatchString(line) {
			if cur == nil {
				pending = append(pending, line)
				continue
			}
			cur.item.Bullets = append(cur.item.Bullets, cv.Bullet{Text: line})
			continue
		}

		if isEducationHeader(line) {
			parsed := ParseEducationHeader(line)
			if cur != nil && i-cur.line <= 2 && complements(cur.item, parsed) {
				mergeInto(&cur.item, parsed)
				continue
			}
			open(i)
			cur.item = parsed
			continue
		}

		if cur != nil && dates.Contains(line) && len(strings.Fields(dates.Strip(line))) <= maxDateRest {
			if cur.item.Start == "" && cur.item.End == "" {
				r := dates.Extract(line)
				cur.item.Start, cur.item.End = r.Start, r.End
			}
			if cur.item.Location == "" {
				cur.item.Location = location.Resolve(location.Split(dates.Strip(line)))
			}
		}
	}

	if len(items) > 0 && len(pending) > 0 {
		items[0].item.Bullets = append(cv.BulletsOf(pending...), items[0].item.Bullets...)
	}

	out := make([]cv.EducationItem, 0, len(items))
	for _, s := range items {
		out = append(out, s.item)
	}
	return dedupe.Education(out, 0)
}

func isEducationHeader(line string) bool {
	if _, ok := segment.Heading(line); ok {
		return false
	}
	if sentenceEnd.MatchString(line) || len(strings.Fields(line)) > maxEducationTokens {
		return false
	}
	return degreeRe.MatchString(line) || institutionRe.MatchString(line) || textutil.IsAllCaps(line)
}

// ParseEducationHeader splits "MSc Computer Science - MIT" style lines. The
// side of the separator naming a degree becomes the degree, the other one the
// school.
func ParseEducationHeader(line string) cv.EducationItem {
	var item cv.EducationItem
	r := dates.Extract(line)
	item.Start, item.End = r.Start, r.End

	rest := textutil.Clean(dates.Strip(line))
	parts := splitStrong(rest)
	if len(parts) == 1 && strings.Contains(parts[0], ",") {
		parts = splitComma(parts[0])
	}

	if loc := location.Resolve(parts); loc != "" {
		item.Location = loc
		rest = removeLocation(rest, loc)
		parts = splitStrong(rest)
		if len(parts) == 1 && strings.Contains(parts[0], ",") {
			parts = splitComma(parts[0])
		}
	}

	used := make([]bool, len(parts))
	for i, p := range parts {
		if degreeRe.MatchString(p) && !institutionRe.MatchString(p) {
			item.Degree, used[i] = p, true
			break
		}
	}
	for i, p := range parts {
		if !used[i] && institutionRe.MatchString(p) {
			item.School, used[i] = p, true
			break
		}
	}
	for i, p := range parts {
		if used[i] {
			continue
		}
		switch {
		case item.Degree == "" && degreeRe.MatchString(p):
			item.Degree = p
		case item.School == "":
			item.School = p
		case item.Location == "" && location.IsPlace(p):
			item.Location = p
		}
	}
	return item
}

// complements reports whether next only fills fields that cur lacks, as with
// a degree line followed by the institution line.
func complements(cur, next cv.EducationItem) bool {
	if cur.School != "" && next.School != "" || cur.Degree != "" && next.Degree != "" {
		return false
	}
	return next.School != "" || next.Degree != ""
}

func mergeInto(dst *cv.EducationItem, src cv.EducationItem) {
	dst.School = textutil.FirstNonEmpty(dst.School, src.School)
	dst.Degree = textutil.FirstNonEmpty(dst.Degree, src.Degree)
	dst.Start = textutil.FirstNonEmpty(dst.Start, src.Start)
	dst.End = textutil.FirstNonEmpty(dst.End, src.End)
	dst.Location = textutil.FirstNonEmpty(dst.Location, src.Location)
}

func joinPlace(city, country string) string {
	city, country = textutil.Clean(city), textutil.Clean(country)
	switch {
	case city == "":
		return country
	case country == "":
		return city
	}
	return city + ", " + country
}
