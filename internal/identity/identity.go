// Package identity reads the candidate name, headline, location and contact
// details from the top of a résumé.
package identity

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/spigell/cvfuse/internal/cv"
	"github.com/spigell/cvfuse/internal/dates"
	"github.com/spigell/cvfuse/internal/location"
	"github.com/spigell/cvfuse/internal/segment"
	"github.com/spigell/cvfuse/internal/textutil"
)

const (
	nameWindow     = 18
	locationWindow = 30
	maxTitleTokens = 10
	maxTitleRunes  = 90
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\(?\d[\d \t().-]{5,}\d`)
	urlRe   = regexp.MustCompile(`(?i)(?:https?://|www\.)[^\s|,;<>()"]+|\b(?:[a-z]{2,3}\.)?(?:linkedin\.com|github\.com)/[^\s|,;<>()"]+`)

	dateShapeRe = regexp.MustCompile(`^(?:\d{1,2}[/.-]){0,2}(?:19|20)\d{2}(?:[-/.](?:\d{1,2}[/.-]){0,2}(?:19|20)\d{2})?$|^(?:19|20)\d{2}[-/.]\d{1,2}(?:[-/.]\d{1,2})?$`)
)

var notNames = map[string]bool{
	"curriculum vitae": true,
	"resume":           true,
	"résumé":           true,
	"cv":               true,
}

// Extract reads the identity block. Summary is left empty.
func Extract(lines []string) cv.Candidate {
	text := strings.Join(lines, "\n")

	c := cv.Candidate{
		Contacts: Contacts(text),
	}
	c.Name, c.Title = nameAndTitle(lines)

	window := lines
	if len(window) > locationWindow {
		window = window[:locationWindow]
	}
	c.Location = location.Resolve(window)
	return c
}

// Contacts collects the first email, the first phone number and the
// classified URLs found anywhere in text.
func Contacts(text string) cv.Contacts {
	var c cv.Contacts
	c.Email = emailRe.FindString(text)
	c.Phone = Phone(text)

	for _, u := range URLs(text) {
		lower := strings.ToLower(u)
		switch {
		case strings.Contains(lower, "linkedin."):
			if c.LinkedIn == "" {
				c.LinkedIn = u
			}
		case strings.Contains(lower, "github."):
			if c.GitHub == "" {
				c.GitHub = u
			}
		default:
			if c.Website == "" {
				c.Website = u
			}
		}
	}
	return c
}

// Phone returns the first phone-shaped match with 7 to 15 digits that is not
// a date.
func Phone(text string) string {
	for _, m := range phoneRe.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		digits := 0
		for _, r := range m {
			if unicode.IsDigit(r) {
				digits++
			}
		}
		if digits < 7 || digits > 15 {
			continue
		}
		compact := strings.NewReplacer(" ", "", "(", "", ")", "").Replace(m)
		if !strings.HasPrefix(m, "+") && dateShapeRe.MatchString(compact) {
			continue
		}
		return m
	}
	return ""
}

// URLs returns every URL-like token once, in order of appearance.
func URLs(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, u := range urlRe.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".")
		if strings.Contains(u, "@") {
			continue
		}
		key := strings.ToLower(u)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, u)
	}
	return out
}

func isContact(line string) bool {
	return emailRe.MatchString(line) || urlRe.MatchString(line) || Phone(line) != ""
}

func nameAndTitle(lines []string) (name, title string) {
	seen := 0
	for _, line := range lines {
		if seen >= nameWindow {
			break
		}
		if isContact(line) {
			continue
		}
		if _, heading := segment.Heading(line); heading {
			if name != "" {
				return name, ""
			}
			continue
		}
		seen++

		clean := textutil.Clean(line)
		if name == "" {
			if LooksLikeName(clean) {
				name = clean
			}
			continue
		}
		if isTitle(clean) {
			if title := headline(clean); title != "" {
				return name, title
			}
		}
	}
	return name, ""
}

// headline drops the pipe separated parts of a title line that are only a
// location, as in "Data Analyst | Madrid, Spain".
func headline(line string) string {
	parts := strings.Split(line, "|")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || isPlaceOnly(part) {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, " | ")
}

func isPlaceOnly(part string) bool {
	loc := location.Resolve([]string{part})
	return loc != "" && textutil.AlnumKey(loc) == textutil.AlnumKey(part)
}

// LooksLikeName reports whether line is a short run of capitalized words.
func LooksLikeName(line string) bool {
	if notNames[strings.ToLower(line)] {
		return false
	}
	if strings.ContainsAny(line, "@|:•,") || textutil.HasDigit(line) {
		return false
	}
	tokens := strings.Fields(line)
	if len(tokens) < 2 || len(tokens) > 6 {
		return false
	}
	capitalized := 0
	for _, tok := range tokens {
		if capitalizedWord(tok) {
			capitalized++
		}
	}
	return capitalized*10 >= len(tokens)*6
}

func capitalizedWord(tok string) bool {
	runes := []rune(tok)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && r != '.' && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}

func isTitle(line string) bool {
	if dates.Contains(line) {
		return false
	}
	if len(strings.Fields(line)) > maxTitleTokens || len([]rune(line)) > maxTitleRunes {
		return false
	}
	return !strings.HasSuffix(line, ".")
}
