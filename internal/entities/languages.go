package entities

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/spigell/cvfuse/internal/cv"
	"github.com/spigell/cvfuse/internal/dedupe"
	"github.com/spigell/cvfuse/internal/textutil"
)

var (
	levelRe = regexp.MustCompile(`(?i)\b(?:[abc][12](?:\+|\b)|native|mother tongue|bilingual|fluent|fluency|proficient|proficiency|professional|advanced|upper[- ]intermediate|intermediate|elementary|basic|beginner|conversational|limited working|business|working knowledge|good|excellent)`)

	langParenRe = regexp.MustCompile(`^([\p{L}][\p{L} '-]{1,30}?)\s*\(([^)]*)\)`)
	langDashRe  = regexp.MustCompile(`^([\p{L}][\p{L} '-]{1,30}?)\s*[-–—:]\s*(.+)$`)
	langLabelRe = regexp.MustCompile(`^([\p{L} ()']{2,40}):\s*(.*)$`)
	langSplitRe = regexp.MustCompile(`\s*[,;|]\s*`)

	langContextRe = regexp.MustCompile(`(?i)languages?|speak|spoken|fluent|native|bilingual|mother tongue`)
)

var knownLanguages = []string{
	"English", "French", "Dutch", "German", "Spanish", "Italian", "Portuguese", "Russian",
	"Ukrainian", "Polish", "Czech", "Slovak", "Romanian", "Bulgarian", "Greek", "Turkish",
	"Arabic", "Hebrew", "Persian", "Hindi", "Urdu", "Bengali", "Chinese", "Mandarin",
	"Cantonese", "Japanese", "Korean", "Vietnamese", "Thai", "Indonesian", "Malay",
	"Swedish", "Norwegian", "Danish", "Finnish", "Estonian", "Latvian", "Lithuanian",
	"Hungarian", "Serbian", "Croatian", "Slovenian", "Albanian", "Armenian", "Georgian",
	"Kazakh", "Uzbek", "Flemish", "Catalan", "Basque", "Irish", "Swahili", "Tagalog",
}

var knownLanguageRe = regexp.MustCompile(`(?i)\b(` + strings.Join(knownLanguages, "|") + `)\b`)

// Languages parses language lines. Each fragment is read as "Name (Level)",
// "Name - Level" or a bare name. When nothing is found, fallback lines that
// talk about languages are scanned for known language names.
func Languages(lines, fallback []string) []cv.LanguageItem {
	var out []cv.LanguageItem
	for _, line := range lines {
		out = append(out, languageLine(line)...)
	}
	if len(out) == 0 {
		out = scanLanguages(fallback)
	}
	return dedupe.Languages(out)
}

func languageLine(line string) []cv.LanguageItem {
	line = dedupe.CleanBullet(line)

	defaultLevel := ""
	if m := langLabelRe.FindStringSubmatch(line); m != nil && isLanguageLabel(m[1]) {
		label := strings.ToLower(m[1])
		if strings.Contains(label, "mother tongue") || strings.Contains(label, "native") {
			defaultLevel = "Native"
		}
		line = m[2]
	}

	var out []cv.LanguageItem
	for _, frag := range langSplitRe.Split(line, -1) {
		if item, ok := languageFragment(frag); ok {
			if item.Level == "" {
				item.Level = defaultLevel
			}
			out = append(out, item)
		}
	}
	return out
}

func isLanguageLabel(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "language") || strings.Contains(l, "mother tongue") || strings.Contains(l, "native")
}

func languageFragment(frag string) (cv.LanguageItem, bool) {
	frag = textutil.Clean(frag)
	if frag == "" {
		return cv.LanguageItem{}, false
	}

	for _, re := range []*regexp.Regexp{langParenRe, langDashRe} {
		m := re.FindStringSubmatch(frag)
		if m == nil {
			continue
		}
		name := textutil.Clean(m[1])
		if !isLanguageName(name) {
			continue
		}
		level := ""
		if levelRe.MatchString(m[2]) {
			level = textutil.Clean(m[2])
		}
		return cv.LanguageItem{Name: name, Level: level}, true
	}

	if isLanguageName(frag) {
		return cv.LanguageItem{Name: frag}, true
	}
	return cv.LanguageItem{}, false
}

// isLanguageName accepts known language names and one or two capitalized
// words that are not level keywords.
func isLanguageName(s string) bool {
	if s == "" {
		return false
	}
	if knownLanguageRe.FindString(s) == s {
		return true
	}
	if levelRe.MatchString(s) || textutil.HasDigit(s) {
		return false
	}
	words := strings.Fields(s)
	if len(words) > 2 {
		return false
	}
	for _, w := range words {
		if r := []rune(w); !unicode.IsUpper(r[0]) {
			return false
		}
	}
	return true
}

func scanLanguages(lines []string) []cv.LanguageItem {
	var out []cv.LanguageItem
	for _, line := range lines {
		if !langContextRe.MatchString(line) {
			continue
		}
		for _, name := range knownLanguageRe.FindAllString(line, -1) {
			out = append(out, cv.LanguageItem{Name: name})
		}
	}
	return out
}
