package patients

import "context"

// Repository is the patient persistence port. Point lookups return nil on
// miss, never an error.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Patient, error)
	FindByNameAndDOB(ctx context.Context, name, dateOfBirth string) (*Patient, error)
	FindByQuery(ctx context.Context, q *Query) ([]*Patient, int64, error)
	Upsert(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id string) (bool, error)
}
