package location

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{
			name:       "city and country among noise",
			candidates: []string{"Senior Engineer", "Kyndryl Belgium", "Brussels, Belgium"},
			want:       "Brussels, Belgium",
		},
		{
			name:       "country hint beats later plain pair",
			candidates: []string{"Berlin, Germany", "Springfield, Ohio"},
			want:       "Berlin, Germany",
		},
		{
			name:       "last hinted pair wins",
			candidates: []string{"Paris, France | Madrid, Spain"},
			want:       "Madrid, Spain",
		},
		{
			name:       "plain pair when nothing is hinted",
			candidates: []string{"jane@x.com | Springfield, Ohio"},
			want:       "Springfield, Ohio",
		},
		{
			name:       "parenthesized pair",
			candidates: []string{"Consultant (Ghent, Flanders)"},
			want:       "Ghent, Flanders",
		},
		{
			name:       "remote flag",
			candidates: []string{"Backend Developer", "Fully REMOTE"},
			want:       Remote,
		},
		{
			name:       "on-site flag",
			candidates: []string{"on-site"},
			want:       Onsite,
		},
		{
			name:       "skill list is not a place",
			candidates: []string{"Python, Go, Rust, Java"},
			want:       "",
		},
		{
			name:       "role and company are not a place",
			candidates: []string{"Senior Consultant, Acme Corp"},
			want:       "",
		},
		{
			name: "nothing",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Resolve(tt.candidates); got != tt.want {
				t.Fatalf("Resolve(%q) = %q, want %q", tt.candidates, got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	got := Split("a | b / c • d ;  ")
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split: got %v, want %v", got, want)
	}
}

func TestHasCountryHint(t *testing.T) {
	for _, s := range []string{"Belgium", "the Netherlands", "USA", "Republic of Korea"} {
		if !HasCountryHint(s) {
			t.Fatalf("expected hint in %q", s)
		}
	}
	if HasCountryHint("Brussels") {
		t.Fatalf("unexpected hint")
	}
}
