package audit

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded for consent state transitions.
const (
	ActionConsentGranted   = "consent granted"
	ActionConsentWithdrawn = "consent withdrawn"
)

// Log maps to the audit_logs table. Rows are append-only: nothing in the
// codebase updates or deletes them.
type Log struct {
	ID           uuid.UUID              `db:"id" json:"id"`
	UserID       string                 `db:"user_id" json:"user_id"`
	Action       string                 `db:"action" json:"action"`
	ResourceType string                 `db:"resource_type" json:"resource_type"`
	ResourceID   *string                `db:"resource_id" json:"resource_id,omitempty"`
	Details      map[string]interface{} `db:"details" json:"details,omitempty"`
	CreatedAt    time.Time              `db:"created_at" json:"created_at"`
}
