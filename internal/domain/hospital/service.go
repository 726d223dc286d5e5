package hospital

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/consentd/consentd/internal/platform/policy"
)

type Service struct {
	hospitals Repository
	policies  *policy.Engine
}

func NewService(hospitals Repository, policies *policy.Engine) *Service {
	return &Service{hospitals: hospitals, policies: policies}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	p := policy.PrincipalFromContext(ctx)
	if d := s.policies.Evaluate(p, policy.ResourceHospitals, policy.ActionRead, p.UserID); !d.Allowed {
		return nil, fmt.Errorf("read hospitals: %s", d.Reason)
	}
	return s.hospitals.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Hospital, error) {
	p := policy.PrincipalFromContext(ctx)
	if s.policies.ReadScope(p, policy.ResourceHospitals) == policy.ScopeNone {
		return nil, fmt.Errorf("read hospitals: denied")
	}
	return s.hospitals.List(ctx)
}
