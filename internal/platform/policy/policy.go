// Package policy is the portal's authorization surface: an explicit rule
// engine that every service consults before touching a repository, so all
// access paths share one coverage guarantee.
package policy

import (
	"context"

	"github.com/consentd/consentd/internal/platform/auth"
)

// Resource names a policy-governed table.
type Resource string

const (
	ResourceProfiles       Resource = "profiles"
	ResourceHospitals      Resource = "hospitals"
	ResourceProjects       Resource = "research_projects"
	ResourceConsentRecords Resource = "consent_records"
	ResourceAuditLogs      Resource = "audit_logs"
)

// Action is the verb a caller attempts against a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Mode is the predicate attached to a (resource, action) pair.
type Mode int

const (
	// ModeDenied: no caller may perform the action.
	ModeDenied Mode = iota
	// ModeAny: any authenticated caller.
	ModeAny
	// ModeSelf: the caller must own the row (owner id == caller id).
	ModeSelf
	// ModeSelfOrAdmin: the owner, or any caller holding the admin role.
	ModeSelfOrAdmin
	// ModeAdmin: admin role only.
	ModeAdmin
)

// Principal is the caller identity evaluated against the rules.
type Principal struct {
	UserID string
	Role   string
}

// PrincipalFromContext builds a Principal from the auth values the JWT
// middleware placed on the request context.
func PrincipalFromContext(ctx context.Context) Principal {
	return Principal{
		UserID: auth.UserIDFromContext(ctx),
		Role:   auth.RoleFromContext(ctx),
	}
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == auth.RoleAdmin
}

// Decision is the outcome of evaluating a rule.
type Decision struct {
	Allowed bool
	Reason  string
}

// Scope is the breadth a read grants over a table.
type Scope int

const (
	// ScopeNone: the caller may not read the table at all.
	ScopeNone Scope = iota
	// ScopeSelf: reads must be filtered to rows the caller owns.
	ScopeSelf
	// ScopeAll: the caller sees every row.
	ScopeAll
)

type ruleKey struct {
	resource Resource
	action   Action
}

// Engine evaluates the policy table. Unknown (resource, action) pairs are
// denied.
type Engine struct {
	rules map[ruleKey]Mode
}

// NewEngine creates an engine from an explicit rule set.
func NewEngine(rules map[Resource]map[Action]Mode) *Engine {
	flat := make(map[ruleKey]Mode)
	for res, actions := range rules {
		for act, mode := range actions {
			flat[ruleKey{res, act}] = mode
		}
	}
	return &Engine{rules: flat}
}

// DefaultRules returns the portal's policy table. Deletes appear nowhere:
// no in-scope operation removes rows (withdrawal is a state change and the
// audit log is append-only).
func DefaultRules() map[Resource]map[Action]Mode {
	return map[Resource]map[Action]Mode{
		ResourceProfiles: {
			ActionRead:   ModeSelf,
			ActionInsert: ModeSelf,
			ActionUpdate: ModeSelf,
		},
		ResourceHospitals: {
			ActionRead: ModeAny,
		},
		ResourceProjects: {
			ActionRead:   ModeAny,
			ActionInsert: ModeAdmin,
			ActionUpdate: ModeAdmin,
		},
		ResourceConsentRecords: {
			ActionRead:   ModeSelfOrAdmin,
			ActionInsert: ModeSelf,
			ActionUpdate: ModeSelf,
		},
		ResourceAuditLogs: {
			ActionRead:   ModeSelfOrAdmin,
			ActionInsert: ModeSelf,
		},
	}
}

// Evaluate checks a single row access. ownerID is the row's owning user id;
// pass the caller's own id for inserts. An unauthenticated principal is
// always denied.
func (e *Engine) Evaluate(p Principal, res Resource, act Action, ownerID string) Decision {
	if p.UserID == "" {
		return Decision{Allowed: false, Reason: "unauthenticated"}
	}

	mode, ok := e.rules[ruleKey{res, act}]
	if !ok {
		return Decision{Allowed: false, Reason: "no policy for " + string(res) + "/" + string(act)}
	}

	switch mode {
	case ModeAny:
		return Decision{Allowed: true, Reason: "authenticated"}
	case ModeSelf:
		if p.UserID == ownerID {
			return Decision{Allowed: true, Reason: "owner"}
		}
		return Decision{Allowed: false, Reason: "not owner"}
	case ModeSelfOrAdmin:
		if p.IsAdmin() {
			return Decision{Allowed: true, Reason: "admin role"}
		}
		if p.UserID == ownerID {
			return Decision{Allowed: true, Reason: "owner"}
		}
		return Decision{Allowed: false, Reason: "not owner"}
	case ModeAdmin:
		if p.IsAdmin() {
			return Decision{Allowed: true, Reason: "admin role"}
		}
		return Decision{Allowed: false, Reason: "admin role required"}
	default:
		return Decision{Allowed: false, Reason: "denied"}
	}
}

// ReadScope returns how broadly the principal may list rows of a resource.
// Services use it to choose between caller-filtered and unfiltered queries.
func (e *Engine) ReadScope(p Principal, res Resource) Scope {
	if p.UserID == "" {
		return ScopeNone
	}

	mode, ok := e.rules[ruleKey{res, ActionRead}]
	if !ok {
		return ScopeNone
	}

	switch mode {
	case ModeAny:
		return ScopeAll
	case ModeSelf:
		return ScopeSelf
	case ModeSelfOrAdmin:
		if p.IsAdmin() {
			return ScopeAll
		}
		return ScopeSelf
	case ModeAdmin:
		if p.IsAdmin() {
			return ScopeAll
		}
		return ScopeNone
	default:
		return ScopeNone
	}
}
