// Package parser turns free résumé text into a rule-based record.
package parser

import (
	"strings"

	"github.com/spigell/cvfuse/internal/cv"
	"github.com/spigell/cvfuse/internal/entities"
	"github.com/spigell/cvfuse/internal/identity"
	"github.com/spigell/cvfuse/internal/segment"
	"github.com/spigell/cvfuse/internal/textutil"
)

// Source marks records produced by ParseFreeText.
const Source = "heuristic"

// sections whose lines never hold a certificate worth reporting
var noCertSections = map[string]bool{
	segment.Experience:     true,
	segment.Projects:       true,
	segment.Certifications: true,
	segment.Skills:         true,
}

// ParseFreeText segments the text, reads the identity block and runs the
// entity parsers over the matching sections. It never fails: missing parts
// come back empty and the name falls back to a placeholder.
func ParseFreeText(text string) cv.Record {
	lines := textutil.Lines(textutil.Fold(text))
	sections := segment.Split(lines)

	rec := cv.Empty()
	rec.Meta.Source = Source

	rec.Candidate = identity.Extract(lines)
	if rec.Candidate.Name == "" {
		rec.Candidate.Name = cv.PlaceholderName
	}
	rec.Candidate.Summary = textutil.Clean(strings.Join(sections.Lines(segment.Summary), " "))

	rec.Skills = entities.Skills(sections.Lines(segment.Skills))
	rec.Languages = entities.Languages(sections.Lines(segment.Languages), lines)

	var loose []string
	for _, key := range sections.Keys() {
		if !noCertSections[key] {
			loose = append(loose, sections.Lines(key)...)
		}
	}
	rec.Certifications = append(
		entities.Certifications(sections.Lines(segment.Certifications), true),
		entities.Certifications(loose, false)...,
	)

	if sections.HasHeadings() {
		rec.Experience = entities.Experience(sections.Lines(segment.Experience), true)
	} else {
		rec.Experience = entities.Experience(lines, false)
	}
	rec.Education = entities.Education(sections.Lines(segment.Education))

	return rec
}
