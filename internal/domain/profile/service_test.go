package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/consentd/consentd/internal/platform/auth"
	"github.com/consentd/consentd/internal/platform/policy"
)

type mockRepo struct {
	data map[string]*Profile
}

func (m *mockRepo) Create(_ context.Context, p *Profile) error {
	m.data[p.ID] = p
	return nil
}
func (m *mockRepo) GetByID(_ context.Context, id string) (*Profile, error) {
	if p, ok := m.data[id]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}
func (m *mockRepo) Update(_ context.Context, p *Profile) error {
	if _, ok := m.data[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.data[p.ID] = p
	return nil
}

func newTestService() (*Service, *mockRepo) {
	repo := &mockRepo{data: make(map[string]*Profile)}
	return NewService(repo, policy.NewEngine(policy.DefaultRules())), repo
}

func userCtx(id, email, role string) context.Context {
	ctx := context.WithValue(context.Background(), auth.UserIDKey, id)
	ctx = context.WithValue(ctx, auth.UserEmailKey, email)
	return context.WithValue(ctx, auth.UserRoleKey, role)
}

func TestGetOrCreate_CreatesOnFirstSight(t *testing.T) {
	svc, repo := newTestService()
	ctx := userCtx("sub-1", "one@example.org", auth.RolePatient)

	p, err := svc.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "sub-1" {
		t.Errorf("expected id sub-1, got %s", p.ID)
	}
	if p.Email != "one@example.org" {
		t.Errorf("expected claim email, got %s", p.Email)
	}
	if p.Role != auth.RolePatient {
		t.Errorf("fresh profiles must be patients, got %s", p.Role)
	}
	if len(repo.data) != 1 {
		t.Errorf("expected 1 stored profile, got %d", len(repo.data))
	}
}

func TestGetOrCreate_ReturnsExisting(t *testing.T) {
	svc, repo := newTestService()
	ctx := userCtx("sub-1", "one@example.org", auth.RolePatient)

	first, _ := svc.GetOrCreate(ctx)
	second, err := svc.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Error("expected the same profile on repeat calls")
	}
	if len(repo.data) != 1 {
		t.Errorf("expected no duplicate profile, got %d", len(repo.data))
	}
}

func TestGetOrCreate_TokenRoleDoesNotMintAdmin(t *testing.T) {
	svc, _ := newTestService()
	// Even a token claiming admin creates a patient profile; the profile
	// row is the role source of truth going forward.
	p, err := svc.GetOrCreate(userCtx("sub-9", "x@example.org", auth.RoleAdmin))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Role != auth.RolePatient {
		t.Errorf("expected patient role on fresh profile, got %s", p.Role)
	}
}

func TestGetOrCreate_Unauthenticated(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.GetOrCreate(context.Background()); err == nil {
		t.Error("expected error for unauthenticated caller")
	}
}

func TestUpdate_NameAndHospitalOnly(t *testing.T) {
	svc, repo := newTestService()
	ctx := userCtx("sub-1", "one@example.org", auth.RolePatient)
	svc.GetOrCreate(ctx)

	name := "New Name"
	hospitalID := uuid.New()
	p, err := svc.Update(ctx, UpdateRequest{FullName: &name, HospitalID: &hospitalID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.FullName == nil || *p.FullName != "New Name" {
		t.Error("expected name updated")
	}
	if p.HospitalID == nil || *p.HospitalID != hospitalID {
		t.Error("expected hospital updated")
	}
	// Untouched fields survive
	if repo.data["sub-1"].Email != "one@example.org" {
		t.Error("expected email unchanged")
	}
	if repo.data["sub-1"].Role != auth.RolePatient {
		t.Error("expected role unchanged")
	}
}

func TestUpdate_PartialLeavesOtherFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := userCtx("sub-1", "one@example.org", auth.RolePatient)
	svc.GetOrCreate(ctx)

	name := "Only Name"
	p, err := svc.Update(ctx, UpdateRequest{FullName: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.HospitalID != nil {
		t.Error("expected hospital untouched")
	}
}

func TestUpdate_WithoutProfile(t *testing.T) {
	svc, _ := newTestService()
	name := "x"
	if _, err := svc.Update(userCtx("ghost", "g@example.org", auth.RolePatient), UpdateRequest{FullName: &name}); err == nil {
		t.Error("expected error updating a profile that does not exist")
	}
}
