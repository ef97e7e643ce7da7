// Package events carries domain notifications between packages through a
// synchronous in-process bus. Subscriber failures are logged and never
// propagate to the publisher: downstream projections are eventually
// consistent side effects, not part of the publishing operation.
package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Event is a published domain notification.
type Event interface {
	Topic() string
}

// HandlerFunc consumes one event. Errors are logged by the bus.
type HandlerFunc func(ctx context.Context, evt Event) error

// Bus is a synchronous topic-keyed dispatcher. Safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]HandlerFunc
	log  zerolog.Logger
}

func NewBus(log zerolog.Logger) *Bus {
	return &Bus{subs: make(map[string][]HandlerFunc), log: log}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic string, h HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// Publish dispatches the event to every subscriber of its topic, in
// subscription order, on the caller's goroutine.
func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.mu.RLock()
	handlers := b.subs[evt.Topic()]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			b.log.Error().Err(err).Str("topic", evt.Topic()).Msg("event handler failed")
		}
	}
}

// TopicAppointmentCreated is published after an appointment create commits.
const TopicAppointmentCreated = "appointment.created"

// AppointmentCreated notifies downstream projections (the denormalized
// appointment list on the patient record) of a new appointment.
type AppointmentCreated struct {
	AppointmentID int    `json:"appointmentId"`
	PatientID     string `json:"patientId"`
	DoctorID      string `json:"doctorId,omitempty"`
	Date          string `json:"date"`
	Description   string `json:"description,omitempty"`
}

func (AppointmentCreated) Topic() string { return TopicAppointmentCreated }
