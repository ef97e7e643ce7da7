package appointments

import "context"

// Repository is the appointment persistence port, addressed by the
// caller-supplied integer key. Point lookups return nil on miss, never an
// error.
type Repository interface {
	FindByAppointmentID(ctx context.Context, appointmentID int) (*Appointment, error)
	FindByQuery(ctx context.Context, q *Query) ([]*Appointment, int64, error)
	Upsert(ctx context.Context, a *Appointment) error
	DeleteByAppointmentID(ctx context.Context, appointmentID int) (bool, error)
}
