// Package location picks a location out of short résumé fragments.
package location

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/spigell/cvfuse/internal/textutil"
)

// Work arrangement flags returned when no place can be found.
const (
	Remote = "Remote"
	Hybrid = "Hybrid"
	Onsite = "Onsite"
)

var (
	splitRe = regexp.MustCompile(`\s*[|/•·;]\s*`)
	parenRe = regexp.MustCompile(`\(([^()]+)\)`)
	flagRe  = regexp.MustCompile(`(?i)\b(remote|hybrid|on-?site)\b`)
)

var connectors = map[string]bool{
	"de": true, "da": true, "del": true, "la": true, "le": true,
	"am": true, "an": true, "upon": true, "on": true, "of": true,
}

// Words that mark a fragment as a role, an organisation or a skill list.
var nonPlace = map[string]bool{
	"inc": true, "inc.": true, "ltd": true, "ltd.": true, "llc": true, "corp": true, "corp.": true,
	"gmbh": true, "plc": true, "group": true, "company": true, "solutions": true, "technologies": true,
	"university": true, "college": true, "school": true, "institute": true,
	"engineer": true, "developer": true, "manager": true, "consultant": true, "analyst": true,
	"architect": true, "lead": true, "senior": true, "junior": true, "intern": true, "director": true,
	"designer": true, "specialist": true, "officer": true, "head": true, "scientist": true,
	"remote": true, "hybrid": true, "onsite": true, "on-site": true,
}

var countries = map[string]bool{}

func init() {
	for _, c := range []string{
		"afghanistan", "albania", "algeria", "argentina", "armenia", "australia", "austria",
		"azerbaijan", "bahrain", "bangladesh", "belarus", "belgium", "bolivia", "bosnia",
		"brazil", "bulgaria", "canada", "chile", "china", "colombia", "costa rica", "croatia",
		"cyprus", "czechia", "czech republic", "denmark", "ecuador", "egypt", "estonia",
		"finland", "france", "georgia", "germany", "ghana", "greece", "hong kong", "hungary",
		"iceland", "india", "indonesia", "iran", "iraq", "ireland", "israel", "italy", "japan",
		"jordan", "kazakhstan", "kenya", "korea", "south korea", "kuwait", "kyrgyzstan",
		"latvia", "lebanon", "lithuania", "luxembourg", "malaysia", "malta", "mexico",
		"moldova", "montenegro", "morocco", "nepal", "netherlands", "the netherlands",
		"new zealand", "nigeria", "north macedonia", "norway", "oman", "pakistan", "peru",
		"philippines", "poland", "portugal", "qatar", "romania", "russia", "saudi arabia",
		"serbia", "singapore", "slovakia", "slovenia", "south africa", "spain", "sri lanka",
		"sweden", "switzerland", "taiwan", "tajikistan", "thailand", "tunisia", "turkey",
		"turkiye", "ukraine", "united arab emirates", "united kingdom", "united states",
		"uruguay", "uzbekistan", "venezuela", "vietnam",
		"usa", "us", "uk", "uae", "england", "scotland", "wales",
	} {
		countries[c] = true
	}
}

// HasCountryHint reports whether s is, or ends with, a known country name.
func HasCountryHint(s string) bool {
	key := strings.Trim(textutil.Key(s), ".")
	if countries[key] {
		return true
	}
	words := strings.Fields(key)
	for i := 1; i < len(words); i++ {
		if countries[strings.Join(words[i:], " ")] {
			return true
		}
	}
	return false
}

// Split breaks a line into pipe, slash, semicolon and bullet separated parts.
func Split(s string) []string {
	parts := splitRe.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Resolve picks the best location from the candidates. "City, Country"
// pairs win, those naming a known country first and the last one otherwise.
// A parenthesized pair comes next, then a work arrangement flag.
func Resolve(candidates []string) string {
	var hinted, plain string
	for _, c := range candidates {
		for _, part := range Split(c) {
			h, p := pairs(part)
			if h != "" {
				hinted = h
			}
			if p != "" {
				plain = p
			}
		}
	}
	if hinted != "" {
		return hinted
	}
	if plain != "" {
		return plain
	}

	for _, c := range candidates {
		for _, m := range parenRe.FindAllStringSubmatch(c, -1) {
			if pair := parenPair(m[1]); pair != "" {
				return pair
			}
		}
	}

	for _, c := range candidates {
		if m := flagRe.FindStringSubmatch(c); m != nil {
			return Flag(m[1])
		}
	}
	return ""
}

// Flag returns the canonical spelling of a work arrangement flag, or "".
func Flag(s string) string {
	switch strings.ReplaceAll(textutil.Key(s), "-", "") {
	case "remote":
		return Remote
	case "hybrid":
		return Hybrid
	case "onsite":
		return Onsite
	}
	return ""
}

// IsPlace reports whether s looks like a place name: up to three
// capitalized words made of letters.
func IsPlace(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > 3 {
		return false
	}
	for i, w := range words {
		lw := strings.ToLower(w)
		if nonPlace[lw] {
			return false
		}
		if i > 0 && connectors[lw] {
			continue
		}
		runes := []rune(w)
		if !unicode.IsUpper(runes[0]) {
			return false
		}
		for _, r := range runes {
			if !unicode.IsLetter(r) && r != '-' && r != '\'' && r != '.' {
				return false
			}
		}
	}
	return true
}

// pairs returns the last country-hinted pair and the last plain pair found in
// a single fragment. Long comma lists are not places.
func pairs(part string) (hinted, plain string) {
	fields := strings.Split(part, ",")
	if len(fields) < 2 {
		return "", ""
	}
	for i := range fields {
		fields[i] = textutil.Clean(fields[i])
	}
	for i := 1; i < len(fields); i++ {
		if !IsPlace(fields[i-1]) || !IsPlace(fields[i]) {
			continue
		}
		pair := fields[i-1] + ", " + fields[i]
		if HasCountryHint(fields[i]) {
			hinted = pair
		} else if len(fields) <= 3 {
			plain = pair
		}
	}
	return hinted, plain
}

func parenPair(inner string) string {
	fields := strings.Split(inner, ",")
	if len(fields) != 2 {
		return ""
	}
	city, country := textutil.Clean(fields[0]), textutil.Clean(fields[1])
	if !IsPlace(city) || !IsPlace(country) {
		return ""
	}
	return city + ", " + country
}
