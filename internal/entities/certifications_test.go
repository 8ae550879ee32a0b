package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/cvfuse/internal/cv"
)

func TestCertificationsInSection(t *testing.T) {
	got := Certifications([]string{
		"AWS Certified Solutions Architect – Associate (2021)",
		"ISO 27001 compliance",
		"ISO 27001 Lead Auditor Certification",
		"PMP | PMI | 2019",
		"Team player",
		"• Certified Kubernetes Administrator (CKA)",
	}, true)

	assert.Equal(t, []cv.CertificationItem{
		{Name: "AWS Certified Solutions Architect – Associate", Issuer: "Amazon Web Services", Date: "2021"},
		{Name: "ISO 27001 Lead Auditor Certification"},
		{Name: "PMP", Issuer: "PMI", Date: "2019"},
		{Name: "Certified Kubernetes Administrator (CKA)", Issuer: "Cloud Native Computing Foundation"},
	}, got)
}

func TestCertificationsOutsideSectionNeedCertif(t *testing.T) {
	got := Certifications([]string{
		"AWS Solutions Architect",
		"ITIL 4 Foundation certificate, issued by AXELOS",
		"Governance framework certification program",
	}, false)

	require.Len(t, got, 2)
	assert.Equal(t, "AXELOS", got[0].Issuer)
	assert.Equal(t, "ITIL 4 Foundation certificate", got[0].Name)
	assert.Equal(t, "Governance framework certification program", got[1].Name)
}
