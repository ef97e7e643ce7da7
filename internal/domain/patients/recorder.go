package patients

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medportal/medportal/internal/platform/docstore"
	"github.com/medportal/medportal/internal/platform/events"
	"github.com/medportal/medportal/internal/platform/readstore"
)

// Recorder projects appointment-created events onto the patient record.
// It goes through the versioned read-model store rather than the repository:
// the projection loads the record or a fresh default, appends, and saves
// under the version guard, so a replayed or racing event cannot regress a
// record state it has already seen.
type Recorder struct {
	store *readstore.Store[Patient, *Patient]
	log   zerolog.Logger
}

// NewRecorder builds a recorder over the patient collection.
func NewRecorder(q docstore.Querier, log zerolog.Logger) *Recorder {
	coll := docstore.NewCollection(q, CollectionName, log)
	return &Recorder{
		store: readstore.New[Patient, *Patient](coll, time.Now, log),
		log:   log,
	}
}

// Subscribe wires the recorder into the bus.
func (r *Recorder) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.TopicAppointmentCreated, r.HandleAppointmentCreated)
}

// HandleAppointmentCreated appends the appointment to the patient's
// projected list. The append is idempotent on the appointment id, and a
// patient record that does not exist yet is created on the fly.
func (r *Recorder) HandleAppointmentCreated(ctx context.Context, evt events.Event) error {
	ev, ok := evt.(events.AppointmentCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T on %s", evt, events.TopicAppointmentCreated)
	}

	p, err := r.store.Get(ctx, ev.PatientID)
	if err != nil {
		return err
	}
	for _, rec := range p.Appointments {
		if rec.AppointmentID == ev.AppointmentID {
			r.log.Debug().
				Int("appointment_id", ev.AppointmentID).
				Str("patient_id", ev.PatientID).
				Msg("appointment already recorded")
			return nil
		}
	}

	p.Appointments = append(p.Appointments, AppointmentRecord{
		AppointmentID: ev.AppointmentID,
		DoctorID:      ev.DoctorID,
		Date:          ev.Date,
		Description:   ev.Description,
	})
	return r.store.Save(ctx, p)
}
