package entities

import (
	"regexp"
	"strings"
)

var (
	bulletRe    = regexp.MustCompile(`^\s*(?:[•·‣◦▪▫■□●○◆◇►▸✓✔➢➤*]|[-–—](?:\s|$)|\d{1,2}[.)]\s)`)
	subLabelRe  = regexp.MustCompile(`^[\p{L} /&()]{2,40}:$`)
	sentenceEnd = regexp.MustCompile(`[.;!?]$`)

	titleRe = regexp.MustCompile(`(?i)\b(?:engineer|developer|programmer|consultant|manager|architect|analyst|lead|director|specialist|administrator|admin|designer|scientist|intern|internship|officer|head|coordinator|technician|tester|owner|scrum master|devops|sre|cto|ceo|cfo|coo|founder|co-founder|advisor|adviser|assistant|associate|executive|president|vp|researcher|teacher|lecturer|professor|accountant|editor|writer|supervisor|trainee|expert|partner|contractor|freelancer|principal|strategist|auditor|recruiter|representative|instructor)s?\b`)

	companyRe = regexp.MustCompile(`(?i)\b(?:inc|ltd|llc|llp|gmbh|corp|corporation|plc|bvba|srl|sarl|ag|group|company|technologies|technology|solutions|systems|consulting|consultancy|labs|bank|services|partners|software|studio|agency|holdings?|international|ventures|capital|media|digital|networks)\b|\b(?:s\.a|n\.v|b\.v)\.`)

	degreeRe      = regexp.MustCompile(`(?i)\b(?:bachelor(?:'s)?|master(?:'s)?|ph\.?\s?d|doctor(?:ate)?|mba|m\.?sc|b\.?sc|b\.?a|m\.?a|b\.?s|m\.?s|b\.?eng|m\.?eng|llb|llm|associate degree|diploma|degree|licen[cs]iate|baccalaureate|hnd|a-levels?|gcse|postgraduate|undergraduate)\b`)
	institutionRe = regexp.MustCompile(`(?i)\b(?:universit|college|institut|school|academ|polytechn|politecnico|hochschule|ecole|faculty|lyceum|gymnasium|conservatory)|école|\b(?:mit|eth|epfl)\b`)
	achievementRe = regexp.MustCompile(`(?i)\b(?:honou?rs|gpa|grade|scholarship|dissertation|thesis|cum laude|magna|summa|distinction|dean'?s list|valedictorian|first class|award(?:ed)?|prize|coursework|relevant courses|major|minor)\b`)

	strongSepRe = regexp.MustCompile(`\s*\|\s*|\s+[-–—]\s+|\s*[–—]\s*`)
	atSepRe     = regexp.MustCompile(`(?i)\s+(?:at|@)\s+`)
)

func isBulletLine(line string) bool {
	return bulletRe.MatchString(line)
}

func isSubLabel(line string) bool {
	return subLabelRe.MatchString(strings.TrimSpace(line))
}

func hasTitle(s string) bool {
	return titleRe.MatchString(s)
}

func hasCompanyHint(s string) bool {
	return companyRe.MatchString(s)
}

func splitStrong(s string) []string {
	var out []string
	for _, p := range strongSepRe.Split(s, -1) {
		p = strings.Trim(strings.TrimSpace(p), ",;:")
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
