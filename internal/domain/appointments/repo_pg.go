package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medportal/medportal/internal/platform/docstore"
	"github.com/medportal/medportal/pkg/pagination"
)

type appointmentRepo struct {
	coll *docstore.Collection
	now  func() time.Time
}

// NewRepository returns an appointment repository over the appointment
// collection.
func NewRepository(q docstore.Querier, log zerolog.Logger) Repository {
	return &appointmentRepo{
		coll: docstore.NewCollection(q, CollectionName, log),
		now:  time.Now,
	}
}

func (r *appointmentRepo) FindByAppointmentID(ctx context.Context, appointmentID int) (*Appointment, error) {
	f := docstore.NewFilter().EqInt("appointmentId", appointmentID)
	doc, err := r.coll.FindOne(ctx, f)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeAppointment(doc)
}

func (r *appointmentRepo) FindByQuery(ctx context.Context, q *Query) ([]*Appointment, int64, error) {
	f := q.filter()

	total, err := r.coll.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	docs, err := r.coll.Find(ctx, f, docstore.FindOptions{
		Sort:  sortableFields[q.SortBy],
		Desc:  q.SortOrder == pagination.SortDesc,
		Skip:  q.Offset(),
		Limit: q.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*Appointment, 0, len(docs))
	for i := range docs {
		a, err := decodeAppointment(&docs[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, nil
}

// Upsert replaces or inserts the full document. Appointment writes carry
// no version guard; the last write to complete wins.
func (r *appointmentRepo) Upsert(ctx context.Context, a *Appointment) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode appointment %s: %w", a.ID, err)
	}
	now := r.now()
	return r.coll.Upsert(ctx, docstore.Document{
		ID:        a.ID,
		CreatedAt: now,
		UpdatedAt: now,
		Data:      data,
	}, docstore.UpsertOptions{})
}

func (r *appointmentRepo) DeleteByAppointmentID(ctx context.Context, appointmentID int) (bool, error) {
	n, err := r.coll.DeleteWhere(ctx, docstore.NewFilter().EqInt("appointmentId", appointmentID))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func decodeAppointment(doc *docstore.Document) (*Appointment, error) {
	var a Appointment
	if err := json.Unmarshal(doc.Data, &a); err != nil {
		return nil, fmt.Errorf("decode appointment %s: %w", doc.ID, err)
	}
	a.ID = doc.ID
	a.SetVersion(doc.Version)
	a.SetTimestamps(doc.CreatedAt, doc.UpdatedAt)
	return &a, nil
}
