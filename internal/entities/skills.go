// Package entities extracts skills, languages, certifications, experience
// and education from the lines of a résumé section.
package entities

import (
	"regexp"
	"strings"

	"github.com/spigell/cvfuse/internal/dedupe"
)

const maxSkillRunes = 50

var (
	skillSplitRe   = regexp.MustCompile(`[,;|/\n•·▪■●◦‣]+`)
	skillLabelRe   = regexp.MustCompile(`^[\p{L}][\p{L} &()-]{1,40}:\s*`)
	skillTrimChars = " \t-–—*>"
)

// Skills splits skill lines into unique skill names. A "Label:" prefix on a
// line is dropped and overly long fragments are discarded.
func Skills(lines []string) []string {
	var out []string
	for _, line := range lines {
		line = skillLabelRe.ReplaceAllString(strings.TrimSpace(line), "")
		for _, tok := range skillSplitRe.Split(line, -1) {
			tok = strings.Trim(strings.TrimSpace(tok), skillTrimChars)
			tok = dedupe.CleanBullet(tok)
			if tok == "" || len([]rune(tok)) > maxSkillRunes {
				continue
			}
			out = append(out, tok)
		}
	}
	return dedupe.Skills(out, 0)
}

// SplitSkills splits one delimited string into skills.
func SplitSkills(s string) []string {
	return Skills([]string{s})
}
