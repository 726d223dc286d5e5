package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/consentd/consentd/internal/platform/auth"
)

// RoleResolver returns an auth.RoleResolver backed by the profiles table.
// The role on the row is what the portal trusts; a role claim in the token
// is never consulted. Unknown subjects get a patient profile on first
// sight, so an admin assigned directly in the database keeps that role on
// the very next request.
func RoleResolver(profiles Repository) auth.RoleResolver {
	return func(ctx context.Context, subject, email string) (string, error) {
		p, err := profiles.GetByID(ctx, subject)
		if err == nil {
			return p.Role, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}

		fresh := &Profile{ID: subject, Email: email, Role: auth.RolePatient}
		if err := profiles.Create(ctx, fresh); err != nil {
			// Lost a first-request race; the row exists now.
			if p, getErr := profiles.GetByID(ctx, subject); getErr == nil {
				return p.Role, nil
			}
			return "", err
		}
		return auth.RolePatient, nil
	}
}
