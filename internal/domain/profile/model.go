package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile maps to the profiles table. The primary key is the identity
// provider's subject claim, so one profile exists per authenticated identity
// and ownership checks reduce to an id comparison.
type Profile struct {
	ID         string     `db:"id" json:"id"`
	Email      string     `db:"email" json:"email"`
	FullName   *string    `db:"full_name" json:"full_name,omitempty"`
	Role       string     `db:"role" json:"role"`
	HospitalID *uuid.UUID `db:"hospital_id" json:"hospital_id,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
