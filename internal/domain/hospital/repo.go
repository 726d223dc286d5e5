package hospital

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	List(ctx context.Context) ([]*Hospital, error)
}
