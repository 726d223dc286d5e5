package project

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	Update(ctx context.Context, p *Project) error
	// List returns projects, optionally filtered to a single status.
	// An empty status means no filter.
	List(ctx context.Context, status string, limit, offset int) ([]*Project, int, error)
	ListAll(ctx context.Context) ([]*Project, error)
}
