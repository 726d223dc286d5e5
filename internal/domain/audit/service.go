package audit

import (
	"context"
	"fmt"

	"github.com/consentd/consentd/internal/platform/policy"
)

type Service struct {
	logs     Repository
	policies *policy.Engine
}

func NewService(logs Repository, policies *policy.Engine) *Service {
	return &Service{logs: logs, policies: policies}
}

// Record appends one trail entry on behalf of the caller. The entry's
// user id is always the principal's own; there is no way to write a trail
// row for somebody else.
func (s *Service) Record(ctx context.Context, l *Log) error {
	p := policy.PrincipalFromContext(ctx)
	if d := s.policies.Evaluate(p, policy.ResourceAuditLogs, policy.ActionInsert, p.UserID); !d.Allowed {
		return fmt.Errorf("record audit log: %s", d.Reason)
	}
	if l.Action == "" {
		return fmt.Errorf("action is required")
	}
	l.UserID = p.UserID
	return s.logs.Create(ctx, l)
}

// List returns trail entries visible to the caller: their own, or all of
// them for admins. Admins may narrow to one user with userFilter.
func (s *Service) List(ctx context.Context, userFilter string, limit, offset int) ([]*Log, int, error) {
	p := policy.PrincipalFromContext(ctx)
	switch s.policies.ReadScope(p, policy.ResourceAuditLogs) {
	case policy.ScopeAll:
		if userFilter != "" {
			return s.logs.ListByUser(ctx, userFilter, limit, offset)
		}
		return s.logs.List(ctx, limit, offset)
	case policy.ScopeSelf:
		return s.logs.ListByUser(ctx, p.UserID, limit, offset)
	default:
		return nil, 0, fmt.Errorf("read audit logs: denied")
	}
}
