package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/consentd/consentd/internal/platform/auth"
	"github.com/consentd/consentd/internal/platform/policy"
)

type Service struct {
	profiles Repository
	policies *policy.Engine
}

func NewService(profiles Repository, policies *policy.Engine) *Service {
	return &Service{profiles: profiles, policies: policies}
}

// GetOrCreate returns the caller's profile, creating it from the token
// claims on first sight. Admins are never minted here: a fresh profile is
// always a patient, and a profile row's role column is the role the portal
// trusts afterwards.
func (s *Service) GetOrCreate(ctx context.Context) (*Profile, error) {
	p := policy.PrincipalFromContext(ctx)
	if d := s.policies.Evaluate(p, policy.ResourceProfiles, policy.ActionRead, p.UserID); !d.Allowed {
		return nil, fmt.Errorf("read profile: %s", d.Reason)
	}

	existing, err := s.profiles.GetByID(ctx, p.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if d := s.policies.Evaluate(p, policy.ResourceProfiles, policy.ActionInsert, p.UserID); !d.Allowed {
		return nil, fmt.Errorf("create profile: %s", d.Reason)
	}
	fresh := &Profile{
		ID:    p.UserID,
		Email: auth.UserEmailFromContext(ctx),
		Role:  auth.RolePatient,
	}
	if err := s.profiles.Create(ctx, fresh); err != nil {
		return nil, err
	}
	return s.profiles.GetByID(ctx, p.UserID)
}

// UpdateRequest carries the only two profile fields a user may change.
// Role and email are deliberately absent.
type UpdateRequest struct {
	FullName   *string    `json:"full_name"`
	HospitalID *uuid.UUID `json:"hospital_id"`
}

// Update applies an UpdateRequest to the caller's own profile.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Profile, error) {
	p := policy.PrincipalFromContext(ctx)
	if d := s.policies.Evaluate(p, policy.ResourceProfiles, policy.ActionUpdate, p.UserID); !d.Allowed {
		return nil, fmt.Errorf("update profile: %s", d.Reason)
	}

	current, err := s.profiles.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		current.FullName = req.FullName
	}
	if req.HospitalID != nil {
		current.HospitalID = req.HospitalID
	}
	if err := s.profiles.Update(ctx, current); err != nil {
		return nil, err
	}
	return s.profiles.GetByID(ctx, p.UserID)
}
