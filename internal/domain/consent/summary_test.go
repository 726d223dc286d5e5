package consent

import (
	"testing"

	"github.com/google/uuid"

	"github.com/consentd/consentd/internal/domain/project"
)

func proj(title string) *project.Project {
	return &project.Project{ID: uuid.New(), Title: title, Status: project.StatusActive}
}

func rec(projectID uuid.UUID, given bool) *Record {
	return &Record{ID: uuid.New(), PatientID: uuid.New().String(), ProjectID: projectID, ConsentGiven: given}
}

func TestSummarize_Empty(t *testing.T) {
	out := Summarize(nil, nil)
	if len(out) != 0 {
		t.Errorf("expected no summaries, got %d", len(out))
	}
}

func TestSummarize_ProjectWithoutRecords(t *testing.T) {
	p := proj("Empty Project")
	out := Summarize([]*project.Project{p}, nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(out))
	}
	s := out[0]
	if s.Total != 0 || s.Consented != 0 || s.Withdrawn != 0 {
		t.Errorf("expected zero counts, got %+v", s)
	}
	if s.Rate != 0 {
		t.Errorf("expected rate 0 for empty project, got %v", s.Rate)
	}
}

func TestSummarize_Counts(t *testing.T) {
	p := proj("Study")
	records := []*Record{
		rec(p.ID, true), rec(p.ID, true), rec(p.ID, true), rec(p.ID, true),
		rec(p.ID, false), rec(p.ID, false), rec(p.ID, false),
		rec(p.ID, false), rec(p.ID, false), rec(p.ID, false),
	}
	out := Summarize([]*project.Project{p}, records)
	s := out[0]
	if s.Total != 10 || s.Consented != 4 || s.Withdrawn != 6 {
		t.Errorf("expected 10/4/6, got %d/%d/%d", s.Total, s.Consented, s.Withdrawn)
	}
	if s.Rate != 40.0 {
		t.Errorf("expected rate 40.0, got %v", s.Rate)
	}
}

func TestSummarize_ConsentedPlusWithdrawnEqualsTotal(t *testing.T) {
	p1, p2 := proj("A"), proj("B")
	records := []*Record{
		rec(p1.ID, true), rec(p1.ID, false), rec(p1.ID, true),
		rec(p2.ID, false),
	}
	for _, s := range Summarize([]*project.Project{p1, p2}, records) {
		if s.Consented+s.Withdrawn != s.Total {
			t.Errorf("%s: consented %d + withdrawn %d != total %d", s.Title, s.Consented, s.Withdrawn, s.Total)
		}
	}
}

func TestSummarize_PreservesProjectOrder(t *testing.T) {
	p1, p2, p3 := proj("First"), proj("Second"), proj("Third")
	out := Summarize([]*project.Project{p1, p2, p3}, nil)
	if out[0].Title != "First" || out[1].Title != "Second" || out[2].Title != "Third" {
		t.Errorf("expected input order preserved, got %v", []string{out[0].Title, out[1].Title, out[2].Title})
	}
}

func TestSummarize_IgnoresOrphanRecords(t *testing.T) {
	p := proj("Study")
	records := []*Record{rec(uuid.New(), true)} // record for a project not in the input
	out := Summarize([]*project.Project{p}, records)
	if out[0].Total != 0 {
		t.Errorf("expected orphan record ignored, got total %d", out[0].Total)
	}
}
