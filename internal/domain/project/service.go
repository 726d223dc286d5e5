package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/consentd/consentd/internal/platform/policy"
)

var validStatuses = map[string]bool{
	StatusActive: true, StatusCompleted: true, StatusPaused: true,
}

type Service struct {
	projects Repository
	policies *policy.Engine
}

func NewService(projects Repository, policies *policy.Engine) *Service {
	return &Service{projects: projects, policies: policies}
}

func (s *Service) Create(ctx context.Context, proj *Project) error {
	p := policy.PrincipalFromContext(ctx)
	if d := s.policies.Evaluate(p, policy.ResourceProjects, policy.ActionInsert, p.UserID); !d.Allowed {
		return fmt.Errorf("create project: %s", d.Reason)
	}
	if proj.Title == "" {
		return fmt.Errorf("title is required")
	}
	if proj.Status == "" {
		proj.Status = StatusActive
	}
	if !validStatuses[proj.Status] {
		return fmt.Errorf("invalid status: %s", proj.Status)
	}
	return s.projects.Create(ctx, proj)
}

// Get returns a project by id. Patients only resolve active projects; a
// paused or completed project looks absent to them.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	p := policy.PrincipalFromContext(ctx)
	if d := s.policies.Evaluate(p, policy.ResourceProjects, policy.ActionRead, p.UserID); !d.Allowed {
		return nil, fmt.Errorf("read project: %s", d.Reason)
	}
	proj, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !proj.IsActive() {
		return nil, fmt.Errorf("project not found")
	}
	return proj, nil
}

func (s *Service) Update(ctx context.Context, proj *Project) error {
	p := policy.PrincipalFromContext(ctx)
	if d := s.policies.Evaluate(p, policy.ResourceProjects, policy.ActionUpdate, p.UserID); !d.Allowed {
		return fmt.Errorf("update project: %s", d.Reason)
	}
	if proj.Status != "" && !validStatuses[proj.Status] {
		return fmt.Errorf("invalid status: %s", proj.Status)
	}
	return s.projects.Update(ctx, proj)
}

// List returns projects visible to the caller. Patients are pinned to the
// active set regardless of the requested filter; admins may filter freely.
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Project, int, error) {
	p := policy.PrincipalFromContext(ctx)
	if s.policies.ReadScope(p, policy.ResourceProjects) == policy.ScopeNone {
		return nil, 0, fmt.Errorf("read projects: denied")
	}
	if !p.IsAdmin() {
		status = StatusActive
	}
	if status != "" && !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}
	return s.projects.List(ctx, status, limit, offset)
}
