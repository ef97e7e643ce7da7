package patients

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

type patientRepo struct {
	coll *docstore.Collection
	now  func() time.Time
}

// NewRepository returns a patient repository over the patient collection.
func NewRepository(q docstore.Querier, log zerolog.Logger) Repository {
	return &patientRepo{
		coll: docstore.NewCollection(q, CollectionName, log),
		now:  time.Now,
	}
}

func (r *patientRepo) FindByID(ctx context.Context, id string) (*Patient, error) {
	doc, err := r.coll.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodePatient(doc)
}

func (r *patientRepo) FindByNameAndDOB(ctx context.Context, name, dateOfBirth string) (*Patient, error) {
	f := docstore.NewFilter().Eq("name", name).Eq("dateOfBirth", dateOfBirth)
	doc, err := r.coll.FindOne(ctx, f)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodePatient(doc)
}

func (r *patientRepo) FindByQuery(ctx context.Context, q *Query) ([]*Patient, int64, error) {
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

	out := make([]*Patient, 0, len(docs))
	for i := range docs {
		p, err := decodePatient(&docs[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, nil
}

// Upsert merges the set fields of the document into the stored one, or
// inserts it whole when absent. Fields the incoming patient leaves unset
// survive untouched; patient writes carry no version guard.
func (r *patientRepo) Upsert(ctx context.Context, p *Patient) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode patient %s: %w", p.ID, err)
	}
	now := r.now()
	return r.coll.Upsert(ctx, docstore.Document{
		ID:        p.ID,
		CreatedAt: now,
		UpdatedAt: now,
		Data:      data,
	}, docstore.UpsertOptions{Merge: true})
}

func (r *patientRepo) Delete(ctx context.Context, id string) (bool, error) {
	return r.coll.Delete(ctx, id)
}

func decodePatient(doc *docstore.Document) (*Patient, error) {
	var p Patient
	if err := json.Unmarshal(doc.Data, &p); err != nil {
		return nil, fmt.Errorf("decode patient %s: %w", doc.ID, err)
	}
	p.ID = doc.ID
	p.SetVersion(doc.Version)
	p.SetTimestamps(doc.CreatedAt, doc.UpdatedAt)
	return &p, nil
}
