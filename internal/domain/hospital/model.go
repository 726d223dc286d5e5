package hospital

import (
	"time"

	"github.com/google/uuid"
)

// Hospital maps to the hospitals table. Reference data: rows are seeded by
// migrations and never written through the API.
type Hospital struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Address      *string   `db:"address" json:"address,omitempty"`
	ContactEmail *string   `db:"contact_email" json:"contact_email,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
