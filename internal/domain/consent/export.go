package consent

import (
	"encoding/csv"
	"io"
)

// csvTimeLayout is the date format used in export rows.
const csvTimeLayout = "2006-01-02"

var exportHeader = []string{
	"Project", "Patient Email", "Consent Status", "Consent Date", "Withdrawal Date", "GDPR Compliant",
}

// WriteCSV renders export records as CSV. Zero records yields the header
// row alone.
func WriteCSV(w io.Writer, records []*ExportRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range records {
		status := "Withdrawn"
		if r.ConsentGiven {
			status = "Granted"
		}
		withdrawal := "N/A"
		if r.WithdrawalDate != nil {
			withdrawal = r.WithdrawalDate.Format(csvTimeLayout)
		}
		gdpr := "No"
		if r.GDPRCompliant {
			gdpr = "Yes"
		}
		row := []string{
			r.ProjectTitle,
			r.PatientEmail,
			status,
			r.ConsentDate.Format(csvTimeLayout),
			withdrawal,
			gdpr,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
