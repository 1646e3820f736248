package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateIncludesJobAndCompany(t *testing.T) {
	out := Generate(Details{CompanyName: "Acme Corp", JobTitle: "Backend Engineer"})

	assert.True(t, strings.HasPrefix(out, "Dear Hiring Manager,"))
	assert.Contains(t, out, "Backend Engineer position at Acme Corp")
	assert.Contains(t, out, "Best regards,")
}

func TestGenerateOptionalSections(t *testing.T) {
	withAll := Generate(Details{
		CompanyName:       "Acme Corp",
		JobTitle:          "Backend Engineer",
		JobDescription:    "it focuses on distributed systems.",
		AdditionalDetails: "Available from next month.",
	})
	assert.Contains(t, withAll, "I was particularly drawn to this role because it focuses on distributed systems.")
	assert.Contains(t, withAll, "Additional Information: Available from next month.")

	minimal := Generate(Details{CompanyName: "Acme Corp", JobTitle: "Backend Engineer"})
	assert.NotContains(t, minimal, "I was particularly drawn")
	assert.NotContains(t, minimal, "Additional Information:")
}

func TestGenerateIsPure(t *testing.T) {
	d := Details{CompanyName: "Acme Corp", JobTitle: "Backend Engineer"}
	assert.Equal(t, Generate(d), Generate(d))
}
