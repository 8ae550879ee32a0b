// Package textutil contains small string helpers shared by the parser,
// the normalizer and the fuser.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold applies NFKC compatibility folding so that ligatures, full-width
// characters and non-breaking spaces compare like their plain forms.
func Fold(s string) string {
	return norm.NFKC.String(s)
}

// Clean folds the string and collapses every whitespace run into one space.
func Clean(s string) string {
	return strings.Join(strings.Fields(Fold(s)), " ")
}

// Key returns the case-insensitive comparison key of s.
func Key(s string) string {
	return strings.ToLower(Clean(s))
}

// AlnumKey lowercases s and drops everything that is not a letter or digit.
// "Start_Date", "start-date" and "startDate" share the key "startdate".
func AlnumKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TitleCase returns s in Title Case ("ENGLISH" -> "English").
func TitleCase(s string) string {
	return cases.Title(language.Und).String(strings.ToLower(Clean(s)))
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// IsAllCaps reports whether s has at least two letters and none of them is lowercase.
func IsAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}

// HasDigit reports whether s contains a decimal digit.
func HasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// Lines splits text into trimmed, non-empty lines.
func Lines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\r", ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
