package consent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/consentd/consentd/internal/domain/audit"
	"github.com/consentd/consentd/internal/domain/profile"
	"github.com/consentd/consentd/internal/domain/project"
	"github.com/consentd/consentd/internal/platform/db"
	"github.com/consentd/consentd/internal/platform/policy"
	"github.com/consentd/consentd/internal/platform/report"
)

// ErrNoConsentToWithdraw is returned when a withdrawal targets a pair that
// never consented.
var ErrNoConsentToWithdraw = errors.New("no consent record to withdraw")

// ErrProjectNotAccepting is returned when the target project is not active.
var ErrProjectNotAccepting = errors.New("project is not accepting consent changes")

type Service struct {
	records  Repository
	projects project.Repository
	profiles profile.Repository
	audits   *audit.Service
	policies *policy.Engine
	tx       db.TxRunner
}

func NewService(records Repository, projects project.Repository, profiles profile.Repository, audits *audit.Service, policies *policy.Engine, tx db.TxRunner) *Service {
	return &Service{
		records:  records,
		projects: projects,
		profiles: profiles,
		audits:   audits,
		policies: policies,
		tx:       tx,
	}
}

// SetConsent moves the caller's consent for a project to the requested state
// and appends the matching audit entry. Both writes share one transaction:
// a failed audit insert rolls the consent change back.
//
// Grant with no prior record inserts a fresh row with the default retention
// period and sub-permissions. Grant over an existing row updates it in place,
// clearing any withdrawal date. Withdrawal flips the flag and stamps the
// withdrawal date; the row survives for audit continuity. Repeating the
// current state re-runs the same in-place update, so the unique
// (patient, project) constraint is never under pressure from this path.
func (s *Service) SetConsent(ctx context.Context, projectID uuid.UUID, give bool) (*Record, error) {
	p := policy.PrincipalFromContext(ctx)

	proj, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !proj.IsActive() {
		return nil, ErrProjectNotAccepting
	}

	var result *Record
	err = s.tx(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		existing, err := s.records.GetByPatientAndProject(ctx, p.UserID, projectID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if !give {
				return ErrNoConsentToWithdraw
			}
			if d := s.policies.Evaluate(p, policy.ResourceConsentRecords, policy.ActionInsert, p.UserID); !d.Allowed {
				return fmt.Errorf("grant consent: %s", d.Reason)
			}
			rec := &Record{
				PatientID:           p.UserID,
				ProjectID:           projectID,
				ConsentGiven:        true,
				ConsentDate:         now,
				DataRetentionMonths: DefaultRetentionMonths,
				Permissions:         DefaultPermissions(),
				GDPRCompliant:       true,
			}
			if err := s.records.Create(ctx, rec); err != nil {
				return err
			}
			result = rec
		case err != nil:
			return err
		default:
			if d := s.policies.Evaluate(p, policy.ResourceConsentRecords, policy.ActionUpdate, existing.PatientID); !d.Allowed {
				return fmt.Errorf("update consent: %s", d.Reason)
			}
			if give {
				existing.ConsentGiven = true
				existing.ConsentDate = now
				existing.WithdrawalDate = nil
			} else {
				existing.ConsentGiven = false
				existing.WithdrawalDate = &now
			}
			if err := s.records.Update(ctx, existing); err != nil {
				return err
			}
			result = existing
		}

		action := audit.ActionConsentWithdrawn
		status := "withdrawn"
		if give {
			action = audit.ActionConsentGranted
			status = "granted"
		}
		resourceID := result.ID.String()
		return s.audits.Record(ctx, &audit.Log{
			Action:       action,
			ResourceType: "consent_records",
			ResourceID:   &resourceID,
			Details: map[string]interface{}{
				"project_id":     projectID.String(),
				"consent_status": status,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns the caller's consent record for one project.
func (s *Service) Get(ctx context.Context, projectID uuid.UUID) (*Record, error) {
	p := policy.PrincipalFromContext(ctx)
	rec, err := s.records.GetByPatientAndProject(ctx, p.UserID, projectID)
	if err != nil {
		return nil, err
	}
	if d := s.policies.Evaluate(p, policy.ResourceConsentRecords, policy.ActionRead, rec.PatientID); !d.Allowed {
		return nil, pgx.ErrNoRows
	}
	return rec, nil
}

// List returns consent records visible to the caller: their own rows, or
// every row for admins, optionally narrowed to one project.
func (s *Service) List(ctx context.Context, projectID *uuid.UUID, limit, offset int) ([]*Record, int, error) {
	p := policy.PrincipalFromContext(ctx)
	switch s.policies.ReadScope(p, policy.ResourceConsentRecords) {
	case policy.ScopeAll:
		return s.records.List(ctx, projectID, limit, offset)
	case policy.ScopeSelf:
		return s.records.ListByPatient(ctx, p.UserID, limit, offset)
	default:
		return nil, 0, fmt.Errorf("read consent records: denied")
	}
}

// Summary aggregates every project's consent records. Admin only: the full
// fetch crosses patient boundaries.
func (s *Service) Summary(ctx context.Context) ([]ProjectSummary, error) {
	p := policy.PrincipalFromContext(ctx)
	if s.policies.ReadScope(p, policy.ResourceConsentRecords) != policy.ScopeAll {
		return nil, fmt.Errorf("consent summary: admin role required")
	}
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.records.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(projects, records), nil
}

// Export returns the CSV export rows visible to the caller: every record
// for admins, the caller's own otherwise.
func (s *Service) Export(ctx context.Context) ([]*ExportRecord, error) {
	p := policy.PrincipalFromContext(ctx)
	switch s.policies.ReadScope(p, policy.ResourceConsentRecords) {
	case policy.ScopeAll:
		return s.records.ListForExport(ctx, "")
	case policy.ScopeSelf:
		return s.records.ListForExport(ctx, p.UserID)
	default:
		return nil, fmt.Errorf("export consent records: denied")
	}
}

// Statement assembles a patient's consent statement for one project.
// Strictly self-scoped: admins get their own record or nothing.
func (s *Service) Statement(ctx context.Context, projectID uuid.UUID) (*report.ConsentStatement, error) {
	p := policy.PrincipalFromContext(ctx)
	proj, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	rec, err := s.records.GetByPatientAndProject(ctx, p.UserID, projectID)
	if err != nil {
		return nil, err
	}
	prof, err := s.profiles.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	st := &report.ConsentStatement{
		PatientEmail:       prof.Email,
		ProjectTitle:       proj.Title,
		ConsentGiven:       rec.ConsentGiven,
		ConsentDate:        rec.ConsentDate,
		WithdrawalDate:     rec.WithdrawalDate,
		RetentionMonths:    rec.DataRetentionMonths,
		DataSharing:        rec.Permissions.DataSharing,
		FederatedLearning:  rec.Permissions.FederatedLearning,
		AnonymizedResearch: rec.Permissions.AnonymizedResearch,
		GeneratedAt:        time.Now().UTC(),
	}
	if prof.FullName != nil {
		st.PatientName = *prof.FullName
	}
	if proj.PrincipalInvestigator != nil {
		st.PrincipalInvestigator = *proj.PrincipalInvestigator
	}
	if proj.Institution != nil {
		st.Institution = *proj.Institution
	}
	return st, nil
}
