package appointments

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medportal/medportal/internal/platform/events"
	"github.com/medportal/medportal/pkg/pagination"
)

// -- Mock Repository --

type mockRepo struct {
	docs map[string]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: make(map[string]*Appointment)}
}

func (m *mockRepo) FindByAppointmentID(_ context.Context, appointmentID int) (*Appointment, error) {
	for _, a := range m.docs {
		if a.AppointmentID == appointmentID {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) FindByQuery(_ context.Context, q *Query) ([]*Appointment, int64, error) {
	var matched []*Appointment
	for _, a := range m.docs {
		if q.PatientID != "" && a.PatientID != q.PatientID {
			continue
		}
		if q.DoctorID != "" && a.DoctorID != q.DoctorID {
			continue
		}
		if q.Date != "" && a.Date != q.Date {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool {
		less := matched[i].AppointmentID < matched[j].AppointmentID
		if q.SortOrder == pagination.SortDesc {
			return !less
		}
		return less
	})
	total := int64(len(matched))
	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *mockRepo) Upsert(_ context.Context, a *Appointment) error {
	m.docs[a.ID] = a
	return nil
}

func (m *mockRepo) DeleteByAppointmentID(_ context.Context, appointmentID int) (bool, error) {
	for id, a := range m.docs {
		if a.AppointmentID == appointmentID {
			delete(m.docs, id)
			return true, nil
		}
	}
	return false, nil
}

func newTestService() (*Service, *mockRepo, *events.Bus) {
	repo := newMockRepo()
	bus := events.NewBus(zerolog.Nop())
	return NewService(repo, bus), repo, bus
}

// -- Tests --

func TestCreateAppointment(t *testing.T) {
	svc, repo, _ := newTestService()
	id, err := svc.Create(context.Background(), &Appointment{
		AppointmentID: 1,
		PatientID:     "p1",
		PatientName:   "Alice",
		Date:          "2026-09-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected a uuid document key, got %q", id)
	}
	if repo.docs[id] == nil {
		t.Fatal("expected appointment to be stored")
	}
}

func TestCreateAppointment_KeyRequired(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), &Appointment{PatientID: "p1"})
	if err == nil {
		t.Error("expected error for a missing appointment key")
	}
}

func TestCreateAppointment_PatientRequired(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), &Appointment{AppointmentID: 1})
	if err == nil {
		t.Error("expected error for a missing patient id")
	}
}

func TestCreateAppointment_InvalidDate(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), &Appointment{AppointmentID: 1, PatientID: "p1", Date: "tomorrow"})
	if err == nil {
		t.Error("expected error for a malformed date")
	}
}

func TestCreateAppointment_Duplicate(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Create(context.Background(), &Appointment{AppointmentID: 1, PatientID: "p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Create(context.Background(), &Appointment{AppointmentID: 1, PatientID: "p2"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateAppointment_PublishesEvent(t *testing.T) {
	svc, _, bus := newTestService()

	var got events.AppointmentCreated
	bus.Subscribe(events.TopicAppointmentCreated, func(_ context.Context, evt events.Event) error {
		got = evt.(events.AppointmentCreated)
		return nil
	})

	_, err := svc.Create(context.Background(), &Appointment{
		AppointmentID: 7,
		PatientID:     "p1",
		DoctorID:      "d1",
		Date:          "2026-09-01",
		Description:   "checkup",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AppointmentID != 7 || got.PatientID != "p1" || got.DoctorID != "d1" {
		t.Errorf("unexpected event: %+v", got)
	}
	if got.Date != "2026-09-01" || got.Description != "checkup" {
		t.Errorf("unexpected event payload: %+v", got)
	}
}

func TestCreateAppointment_NoEventOnDuplicate(t *testing.T) {
	svc, _, bus := newTestService()
	published := 0
	bus.Subscribe(events.TopicAppointmentCreated, func(_ context.Context, _ events.Event) error {
		published++
		return nil
	})

	if _, err := svc.Create(context.Background(), &Appointment{AppointmentID: 1, PatientID: "p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.Create(context.Background(), &Appointment{AppointmentID: 1, PatientID: "p1"})
	if published != 1 {
		t.Errorf("expected exactly one event, got %d", published)
	}
}

func TestGetAppointment_Absent(t *testing.T) {
	svc, _, _ := newTestService()
	a, err := svc.Get(context.Background(), 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != nil {
		t.Error("expected nil appointment for an unknown key")
	}
}

func TestQueryAppointments_PatientFilter(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	for i, pid := range []string{"p1", "p1", "p2"} {
		if _, err := svc.Create(ctx, &Appointment{AppointmentID: i + 1, PatientID: pid}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page, err := svc.Query(ctx, &Query{PatientID: "p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Appointments) != 2 {
		t.Errorf("expected 2 appointments, got %d", len(page.Appointments))
	}
	if page.Detail.PatientID != "p1" {
		t.Errorf("expected the patient filter echoed, got %q", page.Detail.PatientID)
	}
	if page.Detail.TotalRecords != 2 {
		t.Errorf("expected 2 total records, got %d", page.Detail.TotalRecords)
	}
}

func TestUpdateAppointment_MergesFields(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	docID, err := svc.Create(ctx, &Appointment{AppointmentID: 1, PatientID: "p1", Description: "checkup"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := svc.Update(ctx, 1, &Update{Date: "2026-10-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected update to report a hit")
	}
	stored := repo.docs[docID]
	if stored.Date != "2026-10-01" {
		t.Errorf("expected date updated, got %q", stored.Date)
	}
	if stored.Description != "checkup" || stored.PatientID != "p1" {
		t.Error("expected untouched fields to survive the update")
	}
}

func TestUpdateAppointment_Absent(t *testing.T) {
	svc, _, _ := newTestService()
	ok, err := svc.Update(context.Background(), 42, &Update{Description: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected a miss for an unknown key")
	}
}

func TestDeleteAppointment(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, &Appointment{AppointmentID: 1, PatientID: "p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := svc.Delete(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected first delete to report a hit")
	}
	if ok, _ := svc.Delete(ctx, 1); ok {
		t.Error("expected second delete to report a miss")
	}
}
