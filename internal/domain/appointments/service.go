package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medportal/medportal/internal/platform/events"
	"github.com/medportal/medportal/pkg/pagination"
)

// ErrAlreadyExists signals a create for an appointment key that is already
// taken.
var ErrAlreadyExists = errors.New("appointment already exists")

// Publisher is the slice of the event bus the service needs.
type Publisher interface {
	Publish(ctx context.Context, evt events.Event)
}

// Service implements the appointment use cases over the repository. A
// successful create is announced on the bus so the patient record picks up
// the new appointment.
type Service struct {
	repo  Repository
	bus   Publisher
	newID func() string
}

func NewService(repo Repository, bus Publisher) *Service {
	return &Service{repo: repo, bus: bus, newID: uuid.NewString}
}

// Create registers an appointment under its caller-supplied integer key
// and publishes the creation event. The returned id is the underlying
// document key.
func (s *Service) Create(ctx context.Context, a *Appointment) (string, error) {
	if a.AppointmentID <= 0 {
		return "", fmt.Errorf("appointmentId must be a positive integer")
	}
	if strings.TrimSpace(a.PatientID) == "" {
		return "", fmt.Errorf("patientId is required")
	}
	if a.Date != "" {
		if _, err := time.Parse(DateLayout, a.Date); err != nil {
			return "", fmt.Errorf("invalid date %q: want %s", a.Date, DateLayout)
		}
	}

	existing, err := s.repo.FindByAppointmentID(ctx, a.AppointmentID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", fmt.Errorf("appointment %d: %w", a.AppointmentID, ErrAlreadyExists)
	}

	a.ID = s.newID()
	if err := s.repo.Upsert(ctx, a); err != nil {
		return "", err
	}

	s.bus.Publish(ctx, events.AppointmentCreated{
		AppointmentID: a.AppointmentID,
		PatientID:     a.PatientID,
		DoctorID:      a.DoctorID,
		Date:          a.Date,
		Description:   a.Description,
	})
	return a.ID, nil
}

// Get returns the appointment for the integer key, or nil when absent.
func (s *Service) Get(ctx context.Context, appointmentID int) (*Appointment, error) {
	return s.repo.FindByAppointmentID(ctx, appointmentID)
}

// Query returns an ordered page of appointments with its detail envelope.
func (s *Service) Query(ctx context.Context, q *Query) (*Page, error) {
	q.Params = q.Params.Normalize(sortableFields)

	list, total, err := s.repo.FindByQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Appointment{}
	}
	return &Page{
		Appointments: list,
		Detail: Detail{
			Detail:    pagination.NewDetail(q.Params, total),
			PatientID: q.PatientID,
			DoctorID:  q.DoctorID,
			Date:      q.Date,
		},
	}, nil
}

// Update merges the non-blank fields of in into the stored appointment and
// writes the merged document back in full. A miss reports false, not an
// error.
func (s *Service) Update(ctx context.Context, appointmentID int, in *Update) (bool, error) {
	existing, err := s.repo.FindByAppointmentID(ctx, appointmentID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	if strings.TrimSpace(in.PatientName) != "" {
		existing.PatientName = in.PatientName
	}
	if strings.TrimSpace(in.DoctorID) != "" {
		existing.DoctorID = in.DoctorID
	}
	if in.Date != "" {
		if _, err := time.Parse(DateLayout, in.Date); err != nil {
			return false, fmt.Errorf("invalid date %q: want %s", in.Date, DateLayout)
		}
		existing.Date = in.Date
	}
	if strings.TrimSpace(in.Description) != "" {
		existing.Description = in.Description
	}

	if err := s.repo.Upsert(ctx, existing); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the appointment for the integer key, reporting false when
// absent.
func (s *Service) Delete(ctx context.Context, appointmentID int) (bool, error) {
	return s.repo.DeleteByAppointmentID(ctx, appointmentID)
}
