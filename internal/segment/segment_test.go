package segment

import (
	"reflect"
	"testing"
)

func TestHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		key  string
		ok   bool
	}{
		{"EXPERIENCE", Experience, true},
		{"Work History:", Experience, true},
		{"## Employment ##", Experience, true},
		{"Skills & Expertise", Skills, true},
		{"Licenses and Certifications", Certifications, true},
		{"Education", Education, true},
		{"Experienced engineer", "", false},
		{"Senior Consultant", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			key, ok := Heading(tt.line)
			if key != tt.key || ok != tt.ok {
				t.Fatalf("Heading(%q) = %q, %v; want %q, %v", tt.line, key, ok, tt.key, tt.ok)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	lines := []string{
		"Jane Doe",
		"jane@x.com",
		"Experience",
		"Engineer | Acme | 2020 - 2021",
		"Skills:",
		"Go, Python",
		"Work History",
		"Developer | Beta | 2018 - 2019",
		"",
		"EDUCATION",
	}

	s := Split(lines)

	if want := []string{Preamble, Experience, Skills, Education}; !reflect.DeepEqual(s.Keys(), want) {
		t.Fatalf("keys: got %v, want %v", s.Keys(), want)
	}
	if want := []string{"Engineer | Acme | 2020 - 2021", "Developer | Beta | 2018 - 2019"}; !reflect.DeepEqual(s.Lines(Experience), want) {
		t.Fatalf("experience lines: got %v", s.Lines(Experience))
	}
	if want := []string{"Jane Doe", "jane@x.com"}; !reflect.DeepEqual(s.Lines(Preamble), want) {
		t.Fatalf("preamble lines: got %v", s.Lines(Preamble))
	}
	if !s.Has(Education) || len(s.Lines(Education)) != 0 {
		t.Fatalf("expected empty education section")
	}
	if s.Has(Languages) {
		t.Fatalf("unexpected languages section")
	}
	if !s.HasHeadings() {
		t.Fatalf("expected headings")
	}
}

func TestSplitWithoutHeadings(t *testing.T) {
	s := Split([]string{"just", "text"})
	if s.HasHeadings() {
		t.Fatalf("unexpected headings: %v", s.Keys())
	}
	if got := s.Lines(Preamble); len(got) != 2 {
		t.Fatalf("preamble: %v", got)
	}
}
