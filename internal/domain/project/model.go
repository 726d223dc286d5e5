package project

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses. Patients only ever see active projects.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusPaused    = "paused"
)

// Project maps to the research_projects table.
type Project struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	Title                 string    `db:"title" json:"title"`
	Description           *string   `db:"description" json:"description,omitempty"`
	PrincipalInvestigator *string   `db:"principal_investigator" json:"principal_investigator,omitempty"`
	Institution           *string   `db:"institution" json:"institution,omitempty"`
	DataTypes             []string  `db:"data_types" json:"data_types,omitempty"`
	Purpose               *string   `db:"purpose" json:"purpose,omitempty"`
	DurationMonths        *int      `db:"duration_months" json:"duration_months,omitempty"`
	Status                string    `db:"status" json:"status"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the project currently accepts consent changes.
func (p *Project) IsActive() bool {
	return p.Status == StatusActive
}
