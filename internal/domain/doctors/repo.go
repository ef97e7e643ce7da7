package doctors

import "context"

// Repository is the doctor persistence port. Point lookups return nil on
// miss, never an error.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Doctor, error)
	FindByName(ctx context.Context, name string) (*Doctor, error)
	FindByQuery(ctx context.Context, q *Query) ([]*Doctor, int64, error)
	Upsert(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id string) (bool, error)
}
