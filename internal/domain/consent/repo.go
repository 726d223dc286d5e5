package consent

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByPatientAndProject(ctx context.Context, patientID string, projectID uuid.UUID) (*Record, error)
	Update(ctx context.Context, r *Record) error
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Record, int, error)
	// List returns all records, optionally narrowed to one project.
	// Admin listings only.
	List(ctx context.Context, projectID *uuid.UUID, limit, offset int) ([]*Record, int, error)
	ListAll(ctx context.Context) ([]*Record, error)
	// ListForExport joins records with project titles and patient emails.
	// An empty patientID exports every record.
	ListForExport(ctx context.Context, patientID string) ([]*ExportRecord, error)
}
