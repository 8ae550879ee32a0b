package entities

import (
	"regexp"
	"strings"

	"github.com/spigell/cvfuse/internal/cv"
	"github.com/spigell/cvfuse/internal/dates"
	"github.com/spigell/cvfuse/internal/dedupe"
	"github.com/spigell/cvfuse/internal/textutil"
)

const maxCertRunes = 140

type vendor struct {
	re     *regexp.Regexp
	issuer string
}

var vendors = []vendor{
	{regexp.MustCompile(`(?i)\b(?:aws|amazon web services)\b`), "Amazon Web Services"},
	{regexp.MustCompile(`(?i)\b(?:azure|microsoft|(?:az|ms|dp|ai|pl|sc|md)-\d{3})\b`), "Microsoft"},
	{regexp.MustCompile(`(?i)\b(?:gcp|google cloud)\b`), "Google Cloud"},
	{regexp.MustCompile(`(?i)\b(?:pmp|capm|pmi(?:-acp)?)\b`), "Project Management Institute"},
	{regexp.MustCompile(`(?i)\b(?:itil|prince2)\b`), "AXELOS"},
	{regexp.MustCompile(`(?i)\b(?:cisco|ccna|ccnp|ccie)\b`), "Cisco"},
	{regexp.MustCompile(`(?i)\b(?:comptia|security\+|network\+)`), "CompTIA"},
	{regexp.MustCompile(`(?i)\b(?:cissp|isc2)\b|\(isc\)²`), "ISC2"},
	{regexp.MustCompile(`(?i)\b(?:cism|cisa|crisc|isaca)\b`), "ISACA"},
	{regexp.MustCompile(`(?i)\b(?:cka|ckad|cks|kcna)\b`), "Cloud Native Computing Foundation"},
	{regexp.MustCompile(`(?i)\b(?:hashicorp|terraform associate|vault associate)\b`), "HashiCorp"},
	{regexp.MustCompile(`(?i)\b(?:oracle certified|ocp|oca)\b`), "Oracle"},
	{regexp.MustCompile(`(?i)\b(?:psm|pspo|psd)\b`), "Scrum.org"},
	{regexp.MustCompile(`(?i)\b(?:csm|cspo)\b`), "Scrum Alliance"},
	{regexp.MustCompile(`(?i)\btogaf\b`), "The Open Group"},
	{regexp.MustCompile(`(?i)\bsafe\s?\d`), "Scaled Agile"},
	{regexp.MustCompile(`(?i)\b(?:red hat|rhce|rhcsa)\b`), "Red Hat"},
	{regexp.MustCompile(`(?i)\bsalesforce\b`), "Salesforce"},
	{regexp.MustCompile(`(?i)\bistqb\b`), "ISTQB"},
}

var (
	certKeywordRe = regexp.MustCompile(`(?i)certif|\blicen[cs]e\b|\baccredit`)
	allowRe       = regexp.MustCompile(`(?i)\b(?:lean six sigma|six sigma (?:green|black|yellow) belt|scrum master|product owner|google analytics|toefl|ielts|cambridge (?:c1|c2|cae|cpe|fce)|delf|dalf|goethe-zertifikat|cfa|acca|cpa|chartered accountant)\b`)
	denyRe        = regexp.MustCompile(`(?i)\b(?:iso\s?\d{4,5}|gdpr|sox|compliance|governance|audit(?:ing)?|polic(?:y|ies)|regulation|framework|standards?|procedure)\b`)
	issuedByRe    = regexp.MustCompile(`(?i)\b(?:issued by|issuer:?)\s*([^|,;()]+)`)
)

// Certifications keeps the lines that name a certificate. Inside a
// certifications section a vendor, certificate code or known phrase is
// enough; elsewhere the line must also say "certif". Governance noise is
// rejected unless the line mentions a certificate explicitly.
func Certifications(lines []string, inSection bool) []cv.CertificationItem {
	var out []cv.CertificationItem
	for _, line := range lines {
		if item, ok := certification(line, inSection); ok {
			out = append(out, item)
		}
	}
	return dedupe.Certifications(out)
}

func certification(line string, inSection bool) (cv.CertificationItem, bool) {
	text := dedupe.CleanBullet(line)
	if text == "" || len([]rune(text)) > maxCertRunes {
		return cv.CertificationItem{}, false
	}

	lower := strings.ToLower(text)
	mentionsCert := strings.Contains(lower, "cert")
	if !inSection && !strings.Contains(lower, "certif") {
		return cv.CertificationItem{}, false
	}
	if denyRe.MatchString(text) && !mentionsCert {
		return cv.CertificationItem{}, false
	}

	issuer := ""
	for _, v := range vendors {
		if v.re.MatchString(text) {
			issuer = v.issuer
			break
		}
	}
	if issuer == "" && !allowRe.MatchString(text) && !certKeywordRe.MatchString(text) {
		return cv.CertificationItem{}, false
	}

	item := cv.CertificationItem{Issuer: issuer}

	r := dates.Extract(text)
	item.Date = r.Start
	if item.Date == "" && r.End != dates.Present {
		item.Date = r.End
	}

	name := text
	if m := issuedByRe.FindStringSubmatchIndex(name); m != nil {
		item.Issuer = textutil.Clean(name[m[2]:m[3]])
		name = name[:m[0]] + name[m[1]:]
	}
	name = dates.Strip(name)
	if parts := strings.Split(name, "|"); len(parts) > 1 {
		name = textutil.Clean(parts[0])
		if explicit := textutil.Clean(parts[1]); explicit != "" && item.Issuer == issuer {
			item.Issuer = explicit
		}
	}
	item.Name = strings.Trim(textutil.Clean(name), " -–—,;:")
	if item.Name == "" {
		return cv.CertificationItem{}, false
	}
	return item, true
}
