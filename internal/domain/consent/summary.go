package consent

import (
	"github.com/google/uuid"

	"github.com/consentd/consentd/internal/domain/project"
)

// ProjectSummary aggregates the consent records of one project.
type ProjectSummary struct {
	ProjectID uuid.UUID `json:"project_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Total     int       `json:"total"`
	Consented int       `json:"consented"`
	Withdrawn int       `json:"withdrawn"`
	// Rate is the consented share in percent, 0 for projects without records.
	Rate float64 `json:"rate"`
}

// Summarize computes one summary per project, in input project order.
// It is a pure function over the full fetch; projects without any record
// report zero counts and a zero rate.
func Summarize(projects []*project.Project, records []*Record) []ProjectSummary {
	byProject := make(map[uuid.UUID]*ProjectSummary, len(projects))
	out := make([]ProjectSummary, len(projects))
	for i, p := range projects {
		out[i] = ProjectSummary{ProjectID: p.ID, Title: p.Title, Status: p.Status}
		byProject[p.ID] = &out[i]
	}

	for _, r := range records {
		s, ok := byProject[r.ProjectID]
		if !ok {
			continue
		}
		s.Total++
		if r.ConsentGiven {
			s.Consented++
		}
	}

	for i := range out {
		s := &out[i]
		s.Withdrawn = s.Total - s.Consented
		if s.Total > 0 {
			s.Rate = float64(s.Consented) / float64(s.Total) * 100
		}
	}
	return out
}
