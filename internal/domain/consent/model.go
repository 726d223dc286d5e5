package consent

import (
	"time"

	"github.com/google/uuid"
)

// Defaults applied when a patient grants consent for the first time.
const (
	DefaultRetentionMonths = 60
)

// Permissions are the sub-scopes of a granted consent, stored as JSONB.
type Permissions struct {
	DataSharing        bool `json:"data_sharing"`
	FederatedLearning  bool `json:"federated_learning"`
	AnonymizedResearch bool `json:"anonymized_research"`
}

// DefaultPermissions returns the sub-scopes a first grant carries.
func DefaultPermissions() Permissions {
	return Permissions{
		DataSharing:        true,
		FederatedLearning:  true,
		AnonymizedResearch: true,
	}
}

// Record maps to the consent_records table. At most one row exists per
// (patient, project) pair, enforced by a unique constraint; withdrawal flips
// the flag in place and the row is never deleted.
type Record struct {
	ID                  uuid.UUID   `db:"id" json:"id"`
	PatientID           string      `db:"patient_id" json:"patient_id"`
	ProjectID           uuid.UUID   `db:"project_id" json:"project_id"`
	ConsentGiven        bool        `db:"consent_given" json:"consent_given"`
	ConsentDate         time.Time   `db:"consent_date" json:"consent_date"`
	WithdrawalDate      *time.Time  `db:"withdrawal_date" json:"withdrawal_date,omitempty"`
	DataRetentionMonths int         `db:"data_retention_months" json:"data_retention_months"`
	Permissions         Permissions `db:"permissions" json:"permissions"`
	GDPRCompliant       bool        `db:"gdpr_compliant" json:"gdpr_compliant"`
	CreatedAt           time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time   `db:"updated_at" json:"updated_at"`
}

// ExportRecord is one row of the admin CSV export: a consent record joined
// with its project title and patient email.
type ExportRecord struct {
	ProjectTitle   string
	PatientEmail   string
	ConsentGiven   bool
	ConsentDate    time.Time
	WithdrawalDate *time.Time
	GDPRCompliant  bool
}
