package patients

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medportal/medportal/internal/platform/docstore"
	"github.com/medportal/medportal/internal/platform/events"
	"github.com/medportal/medportal/internal/platform/readstore"
)

// fakeCollection honors the version-guard contract in memory.
type fakeCollection struct {
	docs map[string]docstore.Document
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{docs: make(map[string]docstore.Document)}
}

func (f *fakeCollection) Get(_ context.Context, id string) (*docstore.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return &doc, nil
}

func (f *fakeCollection) Upsert(_ context.Context, doc docstore.Document, opts docstore.UpsertOptions) error {
	if stored, ok := f.docs[doc.ID]; ok {
		if opts.GuardVersion && stored.Version >= doc.Version {
			return nil
		}
		doc.CreatedAt = stored.CreatedAt
	}
	f.docs[doc.ID] = doc
	return nil
}

func newTestRecorder() (*Recorder, *fakeCollection) {
	coll := newFakeCollection()
	store := readstore.New[Patient, *Patient](coll, time.Now, zerolog.Nop())
	return &Recorder{store: store, log: zerolog.Nop()}, coll
}

func TestRecorder_CreatesRecordOnFirstAppointment(t *testing.T) {
	rec, _ := newTestRecorder()
	evt := events.AppointmentCreated{
		AppointmentID: 1,
		PatientID:     "p1",
		DoctorID:      "d1",
		Date:          "2026-09-01",
		Description:   "checkup",
	}
	if err := rec.HandleAppointmentCreated(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := rec.store.GetOrNil(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil {
		t.Fatal("expected a patient record to be created")
	}
	if p.GetVersion() != 1 {
		t.Errorf("expected version 1, got %d", p.GetVersion())
	}
	if len(p.Appointments) != 1 || p.Appointments[0].AppointmentID != 1 {
		t.Fatalf("unexpected appointment list: %+v", p.Appointments)
	}
	if p.Appointments[0].Description != "checkup" {
		t.Errorf("unexpected description: %s", p.Appointments[0].Description)
	}
}

func TestRecorder_AppendIsIdempotent(t *testing.T) {
	rec, _ := newTestRecorder()
	evt := events.AppointmentCreated{AppointmentID: 1, PatientID: "p1", Date: "2026-09-01"}

	for i := 0; i < 3; i++ {
		if err := rec.HandleAppointmentCreated(context.Background(), evt); err != nil {
			t.Fatalf("unexpected error on delivery %d: %v", i, err)
		}
	}

	p, _ := rec.store.GetOrNil(context.Background(), "p1")
	if len(p.Appointments) != 1 {
		t.Errorf("expected 1 appointment after redelivery, got %d", len(p.Appointments))
	}
	if p.GetVersion() != 1 {
		t.Errorf("expected version untouched by redelivery, got %d", p.GetVersion())
	}
}

func TestRecorder_AppendsToExistingRecord(t *testing.T) {
	rec, _ := newTestRecorder()
	ctx := context.Background()

	if err := rec.HandleAppointmentCreated(ctx, events.AppointmentCreated{AppointmentID: 1, PatientID: "p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rec.HandleAppointmentCreated(ctx, events.AppointmentCreated{AppointmentID: 2, PatientID: "p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, _ := rec.store.GetOrNil(ctx, "p1")
	if len(p.Appointments) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(p.Appointments))
	}
	if p.GetVersion() != 2 {
		t.Errorf("expected version 2 after two appends, got %d", p.GetVersion())
	}
}

func TestRecorder_ViaBus(t *testing.T) {
	rec, _ := newTestRecorder()
	bus := events.NewBus(zerolog.Nop())
	rec.Subscribe(bus)

	bus.Publish(context.Background(), events.AppointmentCreated{AppointmentID: 9, PatientID: "p2"})

	p, _ := rec.store.GetOrNil(context.Background(), "p2")
	if p == nil || len(p.Appointments) != 1 || p.Appointments[0].AppointmentID != 9 {
		t.Fatalf("expected the published appointment projected, got %+v", p)
	}
}

func TestRecorder_RejectsForeignEvent(t *testing.T) {
	rec, _ := newTestRecorder()
	err := rec.HandleAppointmentCreated(context.Background(), badEvent{})
	if err == nil {
		t.Error("expected an error for an event of the wrong type")
	}
}

type badEvent struct{}

func (badEvent) Topic() string { return events.TopicAppointmentCreated }
