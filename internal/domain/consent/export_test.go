package consent

import (
	"strings"
	"testing"
	"time"
)

func TestWriteCSV_EmptyYieldsHeaderOnly(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(sb.String())
	want := "Project,Patient Email,Consent Status,Consent Date,Withdrawal Date,GDPR Compliant"
	if got != want {
		t.Errorf("expected header only, got %q", got)
	}
}

func TestWriteCSV_Rows(t *testing.T) {
	consentDate := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	withdrawal := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	records := []*ExportRecord{
		{
			ProjectTitle:  "Diabetes FL Study",
			PatientEmail:  "p1@example.org",
			ConsentGiven:  true,
			ConsentDate:   consentDate,
			GDPRCompliant: true,
		},
		{
			ProjectTitle:   "Imaging Study",
			PatientEmail:   "p2@example.org",
			ConsentGiven:   false,
			ConsentDate:    consentDate,
			WithdrawalDate: &withdrawal,
			GDPRCompliant:  false,
		},
	}

	var sb strings.Builder
	if err := WriteCSV(&sb, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[1] != "Diabetes FL Study,p1@example.org,Granted,2026-03-14,N/A,Yes" {
		t.Errorf("unexpected granted row: %q", lines[1])
	}
	if lines[2] != "Imaging Study,p2@example.org,Withdrawn,2026-03-14,2026-05-02,No" {
		t.Errorf("unexpected withdrawn row: %q", lines[2])
	}
}

func TestWriteCSV_QuotesCommas(t *testing.T) {
	records := []*ExportRecord{{
		ProjectTitle: "Cardiology, Phase II",
		PatientEmail: "p@example.org",
		ConsentGiven: true,
		ConsentDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	var sb strings.Builder
	if err := WriteCSV(&sb, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sb.String(), `"Cardiology, Phase II"`) {
		t.Errorf("expected quoted title, got %q", sb.String())
	}
}
