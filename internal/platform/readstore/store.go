// Package readstore generalizes the document collection layer into a typed,
// versioned read-model store with optimistic concurrency on save.
package readstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medportal/medportal/internal/platform/docstore"
)

// Collection is the subset of the document collection the store depends on.
type Collection interface {
	Get(ctx context.Context, id string) (*docstore.Document, error)
	Upsert(ctx context.Context, doc docstore.Document, opts docstore.UpsertOptions) error
}

// Versioned constrains the store to pointer models satisfying the
// read-model capability, keeping them default-constructible.
type Versioned[T any] interface {
	Model
	*T
}

// Store persists versioned read models of one type in one collection.
type Store[T any, P Versioned[T]] struct {
	coll Collection
	now  func() time.Time
	log  zerolog.Logger
}

// New builds a store over a collection with the given clock.
func New[T any, P Versioned[T]](coll Collection, now func() time.Time, log zerolog.Logger) *Store[T, P] {
	return &Store[T, P]{coll: coll, now: now, log: log}
}

// Get returns the stored model for id or, when absent, a freshly defaulted
// instance carrying the requested identity at version zero, never nil.
// Callers that need to distinguish "absent" from "present but pristine"
// must use GetOrNil; this contract deliberately conflates the two.
func (s *Store[T, P]) Get(ctx context.Context, id string) (P, error) {
	m, err := s.GetOrNil(ctx, id)
	if err != nil {
		var zero P
		return zero, err
	}
	if m == nil {
		m = P(new(T))
		m.SetID(id)
	}
	return m, nil
}

// GetOrNil returns the stored model for id, or nil when absent.
func (s *Store[T, P]) GetOrNil(ctx context.Context, id string) (P, error) {
	var zero P
	doc, err := s.coll.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return zero, nil
		}
		s.log.Error().Err(err).Str("id", id).Msg("read model get failed")
		return zero, err
	}
	m := P(new(T))
	if err := json.Unmarshal(doc.Data, m); err != nil {
		return zero, fmt.Errorf("decode read model %s: %w", id, err)
	}
	// The envelope columns are authoritative for identity, version, and
	// audit stamps.
	m.SetID(doc.ID)
	m.SetVersion(doc.Version)
	m.SetTimestamps(doc.CreatedAt, doc.UpdatedAt)
	return m, nil
}

// Save bumps the model's version by exactly one from its in-memory value,
// refreshes the modified stamp, and writes it as a single atomic
// conditional replace-or-insert gated on the stored version being strictly
// lower. The gate stops a write from regressing a version it has seen; it
// does not serialize concurrent writers, so Save alone cannot be relied on
// to detect lost updates.
func (s *Store[T, P]) Save(ctx context.Context, m P) error {
	m.SetVersion(m.GetVersion() + 1)
	m.Touch(s.now())

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode read model %s: %w", m.GetID(), err)
	}
	err = s.coll.Upsert(ctx, docstore.Document{
		ID:        m.GetID(),
		Version:   m.GetVersion(),
		CreatedAt: m.GetCreatedAt(),
		UpdatedAt: m.GetUpdatedAt(),
		Data:      data,
	}, docstore.UpsertOptions{GuardVersion: true})
	if err != nil {
		s.log.Error().Err(err).Str("id", m.GetID()).Msg("read model save failed")
		return err
	}
	return nil
}
