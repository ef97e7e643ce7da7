package doctors

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

type doctorRepo struct {
	coll *docstore.Collection
	now  func() time.Time
}

// NewRepository returns a doctor repository over the doctor collection.
func NewRepository(q docstore.Querier, log zerolog.Logger) Repository {
	return &doctorRepo{
		coll: docstore.NewCollection(q, CollectionName, log),
		now:  time.Now,
	}
}

func (r *doctorRepo) FindByID(ctx context.Context, id string) (*Doctor, error) {
	doc, err := r.coll.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDoctor(doc)
}

func (r *doctorRepo) FindByName(ctx context.Context, name string) (*Doctor, error) {
	doc, err := r.coll.FindOne(ctx, docstore.NewFilter().Eq("name", name))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDoctor(doc)
}

func (r *doctorRepo) FindByQuery(ctx context.Context, q *Query) ([]*Doctor, int64, error) {
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

	out := make([]*Doctor, 0, len(docs))
	for i := range docs {
		d, err := decodeDoctor(&docs[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, nil
}

// Upsert replaces or inserts the full document. Doctor writes carry no
// version guard; the last write to complete wins.
func (r *doctorRepo) Upsert(ctx context.Context, d *Doctor) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode doctor %s: %w", d.ID, err)
	}
	now := r.now()
	return r.coll.Upsert(ctx, docstore.Document{
		ID:        d.ID,
		CreatedAt: now,
		UpdatedAt: now,
		Data:      data,
	}, docstore.UpsertOptions{})
}

func (r *doctorRepo) Delete(ctx context.Context, id string) (bool, error) {
	return r.coll.Delete(ctx, id)
}

func decodeDoctor(doc *docstore.Document) (*Doctor, error) {
	var d Doctor
	if err := json.Unmarshal(doc.Data, &d); err != nil {
		return nil, fmt.Errorf("decode doctor %s: %w", doc.ID, err)
	}
	d.ID = doc.ID
	d.SetVersion(doc.Version)
	d.SetTimestamps(doc.CreatedAt, doc.UpdatedAt)
	return &d, nil
}
