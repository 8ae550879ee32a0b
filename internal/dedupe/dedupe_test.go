package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/cvfuse/internal/cv"
)

func TestBulletsCollapseWhitespaceAndCase(t *testing.T) {
	got := Bullets(cv.BulletsOf("Led  migration", "• led migration ", "", "Shipped v2"), DefaultBulletCap)
	assert.Equal(t, cv.BulletsOf("Led migration", "Shipped v2"), got)
}

func TestBulletsCap(t *testing.T) {
	in := make([]cv.Bullet, 0, 30)
	for i := 0; i < 30; i++ {
		in = append(in, cv.Bullet{Text: string(rune('a'+i%26)) + string(rune('A'+i/26))})
	}
	assert.Len(t, Bullets(in, 25), 25)
	assert.Len(t, Bullets(in, 0), 30)
}

func TestSkillsKeepFirstCasing(t *testing.T) {
	got := Skills([]string{"Go", "go", " Python ", "GO", "python"}, DefaultSkillCap)
	assert.Equal(t, []string{"Go", "Python"}, got)
}

func TestRankSkills(t *testing.T) {
	primary := []string{"Go", "Kubernetes", "Terraform"}
	assist := []string{"terraform", "Python", "go"}

	got := RankSkills(DefaultSkillCap, primary, assist)
	assert.Equal(t, []string{"Go", "Terraform", "Kubernetes", "Python"}, got)

	assert.Equal(t, primary, RankSkills(DefaultSkillCap, primary, primary))
	assert.Equal(t, []string{"Go", "Terraform"}, RankSkills(2, primary, assist))
}

func TestJob(t *testing.T) {
	got := Job(cv.ExperienceItem{
		Employer: " Acme  Corp ",
		End:      "current",
		Bullets:  cv.BulletsOf("Did X", "did x"),
	}, DefaultBulletCap)

	assert.Equal(t, "Acme Corp", got.Employer)
	assert.Equal(t, cv.PresentEnd, got.End)
	assert.Equal(t, cv.BulletsOf("Did X"), got.Bullets)
	assert.False(t, JobIsEmpty(got))
	assert.True(t, JobIsEmpty(Job(cv.ExperienceItem{}, 0)))
}

func TestEducationMergesByKey(t *testing.T) {
	got := Education([]cv.EducationItem{
		{School: "MIT", Degree: "MSc Computer Science"},
		{School: "mit", Degree: "msc computer science", Start: "2010", End: "2012", FieldOfStudy: "CS"},
		{School: "Stanford", Degree: "BSc"},
		{},
	}, DefaultBulletCap)

	require.Len(t, got, 2)
	assert.Equal(t, cv.EducationItem{
		School:       "MIT",
		Degree:       "MSc Computer Science",
		FieldOfStudy: "CS",
		Start:        "2010",
		End:          "2012",
	}, got[0])
	assert.Equal(t, "Stanford", got[1].School)
}

func TestEducationWithoutSchoolOrDegree(t *testing.T) {
	got := Education([]cv.EducationItem{
		{FieldOfStudy: "Physics", Start: "2001"},
		{FieldOfStudy: "Chemistry", Start: "2001"},
	}, DefaultBulletCap)
	assert.Len(t, got, 2)
}

func TestLanguagesPreferCodedLevel(t *testing.T) {
	got := Languages([]cv.LanguageItem{
		{Name: "english", Level: "Fluent"},
		{Name: "ENGLISH", Level: "C1"},
		{Name: "French"},
		{Name: "french", Level: "Intermediate"},
		{Name: "  "},
	})

	assert.Equal(t, []cv.LanguageItem{
		{Name: "English", Level: "C1"},
		{Name: "French", Level: "Intermediate"},
	}, got)
}

func TestIsCodedLevel(t *testing.T) {
	for _, l := range []string{"C2", "b1", "Native", "Mother tongue", "Bilingual proficiency"} {
		assert.True(t, IsCodedLevel(l), l)
	}
	for _, l := range []string{"Fluent", "Professional working", ""} {
		assert.False(t, IsCodedLevel(l), l)
	}
}

func TestCertifications(t *testing.T) {
	got := Certifications([]cv.CertificationItem{
		{Name: "AWS Solutions Architect"},
		{Name: "aws solutions architect", Issuer: "Amazon Web Services", Date: "2021"},
		{Name: ""},
	})
	assert.Equal(t, []cv.CertificationItem{
		{Name: "AWS Solutions Architect", Issuer: "Amazon Web Services", Date: "2021"},
	}, got)
}
