package normalize

import (
	"regexp"
	"strings"

	"github.com/spigell/cvfuse/internal/textutil"
)

var noisePatterns = []*regexp.Regexp{
	// schema and namespace URLs left by OOXML/PDF extraction
	regexp.MustCompile(`(?i)https?://(?:schemas\.(?:openxmlformats|microsoft)\.(?:org|com)|www\.w3\.org|purl\.org|ns\.adobe\.com|schemas\.android\.com)\S*`),
	// control characters other than tab and newline
	regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F\x{FFFD}]`),
	// embedded font names, with or without subset prefixes
	regexp.MustCompile(`\b(?:[A-Z]{6}\+)?(?:Calibri|Cambria|Arial|Helvetica|TimesNewRoman|Times New Roman|Verdana|Tahoma|Garamond|Segoe UI|Roboto|OpenSans|Open Sans|Montserrat|Wingdings)(?:[-,](?:Bold|Italic|Regular|Light|BoldItalic|Medium))*(?:MT|PSMT)?\b`),
	regexp.MustCompile(`\+m[nj]-(?:lt|ea|cs)\b`),
	// long digit runs: object ids, hashes, page streams
	regexp.MustCompile(`\d{12,}`),
	// layout tool and markup leftovers
	regexp.MustCompile(`(?i)\b(?:microsoft office user|slide number|page \d+ of \d+|click to edit master[\w ]*|xml:space|rId\d+|w:[a-z]+|a:[a-z]+|endobj|endstream)\b`),
	regexp.MustCompile(`<<|>>|/(?:Type|Subtype|Font|Filter|Length)\s*/?\w*`),
}

// stripNoise removes extraction artefacts from raw text and drops the lines
// that become empty.
func stripNoise(s string) string {
	for _, re := range noisePatterns {
		s = re.ReplaceAllString(s, " ")
	}
	lines := textutil.Lines(s)
	for i, l := range lines {
		lines[i] = textutil.Clean(l)
	}
	out := lines[:0]
	for _, l := range lines {
		if strings.Trim(l, " .,;:|-") != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
