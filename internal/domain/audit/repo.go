package audit

import "context"

type Repository interface {
	Create(ctx context.Context, l *Log) error
	// ListByUser returns the user's trail, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Log, int, error)
	// List returns every trail entry, newest first. Admin listings only.
	List(ctx context.Context, limit, offset int) ([]*Log, int, error)
}
