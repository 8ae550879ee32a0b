// Package dates finds date ranges in résumé text.
//
// A date token is a month name followed by a year, yyyy-mm, mm/dd/yyyy,
// mm/yyyy or a bare four digit year. A range is a token, an optional
// separator and an optional end token or present synonym.
package dates

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/cvfuse/internal/textutil"
)

// Present is the canonical end of an ongoing period.
const Present = "Present"

const (
	monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	yearPattern  = `(?:19|20)\d{2}`

	tokenPattern = `(?:` +
		monthPattern + `\s*,?\s*` + yearPattern +
		`|` + yearPattern + `[-/.](?:1[0-2]|0?[1-9])\b` +
		`|\d{1,2}/\d{1,2}/` + yearPattern +
		`|(?:1[0-2]|0?[1-9])[/.]` + yearPattern +
		`|` + yearPattern +
		`)`

	presentPattern   = `(?:present|current|now|today)`
	separatorPattern = `\s*(?:-|–|—|\bto\b|\buntil\b|\btill\b)\s*`
)

var (
	rangeRe   = regexp.MustCompile(`(?i)\b(` + tokenPattern + `)(?:` + separatorPattern + `(` + tokenPattern + `|` + presentPattern + `)\b)?`)
	presentRe = regexp.MustCompile(`(?i)\b` + presentPattern + `\b`)
	yearRe    = regexp.MustCompile(yearPattern)

	leftoverRe = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
)

// Range is the result of Extract. Both ends may be empty.
type Range struct {
	Start string
	End   string
}

// Empty reports whether neither end was found.
func (r Range) Empty() bool {
	return r.Start == "" && r.End == ""
}

// Extract returns the first date range found in s. A present synonym is
// reported as Present; a lone present synonym without a start becomes the end.
func Extract(s string) Range {
	if m := rangeRe.FindStringSubmatch(s); m != nil {
		return Range{Start: textutil.Clean(m[1]), End: NormalizeEnd(m[2])}
	}
	if presentRe.MatchString(s) {
		return Range{End: Present}
	}
	return Range{}
}

// Contains reports whether s holds at least one date token.
func Contains(s string) bool {
	return rangeRe.MatchString(s)
}

// Strip removes every date range from s together with the separators and
// empty brackets left behind.
func Strip(s string) string {
	s = rangeRe.ReplaceAllString(s, " ")
	s = leftoverRe.ReplaceAllString(s, " ")
	s = textutil.Clean(s)
	return strings.Trim(s, " -–—|,;:/")
}

// IsPresent reports whether s is a present synonym.
func IsPresent(s string) bool {
	switch textutil.Key(s) {
	case "present", "current", "now", "today", "ongoing", "till date", "to date":
		return true
	}
	return false
}

// NormalizeEnd maps present synonyms to Present and cleans everything else.
func NormalizeEnd(s string) string {
	if IsPresent(s) {
		return Present
	}
	return textutil.Clean(s)
}

// Years returns the year span covered by start and end. An end of Present is
// unbounded; a missing end collapses the span to the start year. ok is false
// when no year can be read from either end.
func Years(start, end string) (from, to int, ok bool) {
	from, hasFrom := year(start)

	switch {
	case IsPresent(end):
		to = math.MaxInt
	default:
		var hasTo bool
		if to, hasTo = year(end); !hasTo {
			if !hasFrom {
				return 0, 0, false
			}
			to = from
		}
	}

	if !hasFrom {
		if to == math.MaxInt {
			return 0, 0, false
		}
		from = to
	}
	return from, to, true
}

// Overlaps reports whether two periods overlap once each is widened by slack
// years. Periods without any year never overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string, slack int) bool {
	aFrom, aTo, ok := Years(aStart, aEnd)
	if !ok {
		return false
	}
	bFrom, bTo, ok := Years(bStart, bEnd)
	if !ok {
		return false
	}
	return aFrom <= addYears(bTo, slack) && bFrom <= addYears(aTo, slack)
}

func addYears(y, n int) int {
	if y == math.MaxInt {
		return y
	}
	return y + n
}

func year(s string) (int, bool) {
	m := yearRe.FindString(s)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}
