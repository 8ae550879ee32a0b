package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/cvfuse/internal/cv"
)

const janeDoe = `Jane Doe
Senior Consultant
jane@x.com
EXPERIENCE
Senior Consultant | Acme Corp | Jan 2020 - Present | Brussels, Belgium
• Led migration
• Led migration
EDUCATION
MSc Computer Science - MIT
`

func TestParseFreeTextEndToEnd(t *testing.T) {
	rec := ParseFreeText(janeDoe)

	assert.Equal(t, "Jane Doe", rec.Candidate.Name)
	assert.Equal(t, "Senior Consultant", rec.Candidate.Title)
	assert.Equal(t, "jane@x.com", rec.Candidate.Contacts.Email)

	require.Len(t, rec.Experience, 1)
	assert.Equal(t, cv.ExperienceItem{
		Employer: "Acme Corp",
		Role:     "Senior Consultant",
		Start:    "Jan 2020",
		End:      "Present",
		Location: "Brussels, Belgium",
		Bullets:  []cv.Bullet{{Text: "Led migration"}},
	}, rec.Experience[0])

	require.Len(t, rec.Education, 1)
	assert.Equal(t, "MIT", rec.Education[0].School)
	assert.Equal(t, "MSc Computer Science", rec.Education[0].Degree)

	assert.Equal(t, Source, rec.Meta.Source)
	require.NoError(t, cv.Validate(rec))
}

func TestParseFreeTextSections(t *testing.T) {
	text := `John Smith
Platform Engineer
+32 470 12 34 56 | Ghent, Belgium
Summary
Builds reliable platforms.
Skills
Go, Kubernetes; Terraform
Languages
English (C1), Dutch - Native
Certifications
CKA - Certified Kubernetes Administrator (2022)
Team player
Experience
Platform Engineer | Globex Solutions | 2021 - Present
• Ran the clusters
`

	rec := ParseFreeText(text)

	assert.Equal(t, "John Smith", rec.Candidate.Name)
	assert.Equal(t, "Platform Engineer", rec.Candidate.Title)
	assert.Equal(t, "Ghent, Belgium", rec.Candidate.Location)
	assert.Equal(t, "+32 470 12 34 56", rec.Candidate.Contacts.Phone)
	assert.Equal(t, "Builds reliable platforms.", rec.Candidate.Summary)
	assert.Equal(t, []string{"Go", "Kubernetes", "Terraform"}, rec.Skills)
	assert.Equal(t, []cv.LanguageItem{{Name: "English", Level: "C1"}, {Name: "Dutch", Level: "Native"}}, rec.Languages)

	require.Len(t, rec.Certifications, 1)
	assert.Equal(t, "Cloud Native Computing Foundation", rec.Certifications[0].Issuer)
	assert.Equal(t, "2022", rec.Certifications[0].Date)

	require.Len(t, rec.Experience, 1)
	assert.Equal(t, "Globex Solutions", rec.Experience[0].Employer)
}

func TestParseFreeTextWithoutHeadings(t *testing.T) {
	rec := ParseFreeText("Developer | Initech Ltd | 2015 - 2018\n• Wrote reports")

	assert.Equal(t, cv.PlaceholderName, rec.Candidate.Name)
	require.Len(t, rec.Experience, 1)
	assert.Equal(t, "Initech Ltd", rec.Experience[0].Employer)
	assert.Equal(t, cv.BulletsOf("Wrote reports"), rec.Experience[0].Bullets)
}

func TestParseFreeTextEmpty(t *testing.T) {
	rec := ParseFreeText("")
	assert.Equal(t, cv.PlaceholderName, rec.Candidate.Name)
	assert.Empty(t, rec.Experience)
	assert.NotNil(t, rec.Skills)
}
