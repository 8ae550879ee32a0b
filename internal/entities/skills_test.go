package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "mixed delimiters",
			lines: []string{"Python, Go; Rust\nJava"},
			want:  []string{"Python", "Go", "Rust", "Java"},
		},
		{
			name:  "label prefix and duplicates",
			lines: []string{"Programming: Go, Python", "Cloud | AWS • go"},
			want:  []string{"Go", "Python", "Cloud", "AWS"},
		},
		{
			name:  "slash splits and dotted names survive",
			lines: []string{"CI/CD, .NET, Node.js"},
			want:  []string{"CI", "CD", ".NET", "Node.js"},
		},
		{
			name:  "overlong fragments are dropped",
			lines: []string{"Go, designed and implemented a distributed scheduler for batch workloads"},
			want:  []string{"Go"},
		},
		{
			name: "empty",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Skills(tt.lines))
		})
	}
}
