// Package segment splits résumé lines into named sections.
package segment

import (
	"strings"

	"github.com/spigell/cvfuse/internal/textutil"
)

// Canonical section keys.
const (
	Preamble       = "preamble"
	Summary        = "summary"
	Experience     = "experience"
	Education      = "education"
	Skills         = "skills"
	Languages      = "languages"
	Certifications = "certifications"
	Projects       = "projects"
	Interests      = "interests"
	References     = "references"
	Publications   = "publications"
	Awards         = "awards"
	Volunteering   = "volunteering"
)

var headings = map[string][]string{
	Summary: {
		"summary", "profile", "professional summary", "profile summary", "executive summary",
		"personal profile", "about", "about me", "objective", "career objective", "overview",
	},
	Experience: {
		"experience", "work experience", "professional experience", "work history",
		"employment", "employment history", "career history", "relevant experience",
		"professional background", "project experience", "experience summary",
	},
	Education: {
		"education", "education and training", "academic background", "academic qualifications",
		"qualifications", "studies", "education history",
	},
	Skills: {
		"skills", "technical skills", "key skills", "core competencies", "competencies",
		"skills and expertise", "expertise", "technologies", "tech stack", "it skills",
		"skill set", "skillset", "tools and technologies",
	},
	Languages: {"languages", "language skills", "spoken languages", "language"},
	Certifications: {
		"certifications", "certification", "certificates", "licenses", "licenses and certifications",
		"licences and certifications", "courses and certifications", "training and certifications",
	},
	Projects:     {"projects", "key projects", "selected projects", "personal projects"},
	Interests:    {"interests", "hobbies", "hobbies and interests"},
	References:   {"references"},
	Publications: {"publications"},
	Awards:       {"awards", "honors", "honours", "achievements", "awards and honors"},
	Volunteering: {"volunteering", "volunteer experience"},
}

var lookup = map[string]string{}

func init() {
	for key, names := range headings {
		for _, n := range names {
			lookup[n] = key
		}
	}
}

// Heading returns the canonical key of a heading line.
func Heading(line string) (string, bool) {
	s := strings.ToLower(textutil.Clean(line))
	s = strings.Trim(s, "#*=_-–—:•.| ")
	s = strings.ReplaceAll(s, "&", "and")
	s = textutil.Clean(s)
	key, ok := lookup[s]
	return key, ok
}

// Sections is an ordered mapping of section key to lines.
type Sections struct {
	order []string
	lines map[string][]string
}

// Keys returns the section keys in first-seen order.
func (s Sections) Keys() []string {
	return append([]string(nil), s.order...)
}

// Lines returns a copy of the lines stored under key.
func (s Sections) Lines(key string) []string {
	return append([]string(nil), s.lines[key]...)
}

// Has reports whether the section exists.
func (s Sections) Has(key string) bool {
	_, ok := s.lines[key]
	return ok
}

// HasHeadings reports whether any heading was recognized.
func (s Sections) HasHeadings() bool {
	for _, k := range s.order {
		if k != Preamble {
			return true
		}
	}
	return false
}

// Split assigns every line to the section introduced by the closest heading
// above it. Lines before the first heading go to Preamble. A repeated heading
// continues the existing section.
func Split(lines []string) Sections {
	s := Sections{lines: map[string][]string{}}
	current := Preamble
	for _, line := range lines {
		if key, ok := Heading(line); ok {
			current = key
			s.touch(key)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.touch(current)
		s.lines[current] = append(s.lines[current], line)
	}
	return s
}

func (s *Sections) touch(key string) {
	if _, ok := s.lines[key]; ok {
		return
	}
	s.lines[key] = []string{}
	s.order = append(s.order, key)
}
