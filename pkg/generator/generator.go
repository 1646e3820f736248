// Package generator produces application email text from job details.
// It is a pure templated generator; the rest of the system only depends
// on its Generate signature, so a real generation backend can replace it
// without touching callers.
package generator

import (
	"fmt"
	"strings"
)

// Details carries the job information the email is built from.
type Details struct {
	CompanyName       string
	JobTitle          string
	JobDescription    string
	AdditionalDetails string
}

// Generate returns the application email for the given details.
func Generate(d Details) string {
	var b strings.Builder

	b.WriteString("Dear Hiring Manager,\n\n")
	fmt.Fprintf(&b,
		"I hope this email finds you well. I am writing to express my strong interest in the %s position at %s.\n",
		d.JobTitle, d.CompanyName)

	if d.JobDescription != "" {
		fmt.Fprintf(&b, "\nI was particularly drawn to this role because %s\n", d.JobDescription)
	}
	if d.AdditionalDetails != "" {
		fmt.Fprintf(&b, "\nAdditional Information: %s\n", d.AdditionalDetails)
	}

	b.WriteString("\nI have attached my resume for your review.\n\n")
	b.WriteString("Thank you for considering my application.\n\n")
	b.WriteString("Best regards,\n[Your Name]")

	return b.String()
}
