// Package report renders downloadable documents for the portal.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const dateLayout = "2006-01-02"

// ConsentStatement is the data rendered into a consent statement PDF.
type ConsentStatement struct {
	PatientName           string
	PatientEmail          string
	ProjectTitle          string
	PrincipalInvestigator string
	Institution           string
	ConsentGiven          bool
	ConsentDate           time.Time
	WithdrawalDate        *time.Time
	RetentionMonths       int
	DataSharing           bool
	FederatedLearning     bool
	AnonymizedResearch    bool
	GeneratedAt           time.Time
}

// RenderConsentStatement produces a one-page PDF of the statement.
func RenderConsentStatement(st ConsentStatement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Consent Statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Patient: %s", st.PatientName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", st.PatientEmail))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Research Project: %s", st.ProjectTitle))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	if st.PrincipalInvestigator != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Principal Investigator: %s", st.PrincipalInvestigator))
		pdf.Ln(7)
	}
	if st.Institution != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Institution: %s", st.Institution))
		pdf.Ln(7)
	}
	pdf.Ln(3)

	decision := "WITHDRAWN"
	if st.ConsentGiven {
		decision = "GRANTED"
	}
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Current decision: %s", decision))
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Consent date: %s", st.ConsentDate.Format(dateLayout)))
	pdf.Ln(7)
	if st.WithdrawalDate != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Withdrawal date: %s", st.WithdrawalDate.Format(dateLayout)))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Data retention period: %d months", st.RetentionMonths))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Permissions")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Data sharing: %s", yesNo(st.DataSharing)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Federated learning: %s", yesNo(st.FederatedLearning)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Anonymized research: %s", yesNo(st.AnonymizedResearch)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Generated %s", st.GeneratedAt.Format(time.RFC1123)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
