package doctors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/medportal/medportal/pkg/objectid"
	"github.com/medportal/medportal/pkg/pagination"
)

// ErrAlreadyExists signals a create for a doctor name that is already
// registered. Callers map it to a conflict response; it is the only error
// this package manufactures for control flow.
var ErrAlreadyExists = errors.New("doctor already exists")

// Service implements the doctor use cases over the repository.
type Service struct {
	repo  Repository
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, newID: objectid.New}
}

// Create registers a doctor if no doctor with the same name exists and
// returns the new identifier.
func (s *Service) Create(ctx context.Context, d *Doctor) (string, error) {
	if strings.TrimSpace(d.Name) == "" {
		return "", fmt.Errorf("name is required")
	}
	if d.Specialism != "" {
		spec, ok := NormalizeSpecialism(d.Specialism)
		if !ok {
			return "", fmt.Errorf("invalid specialism: %s", d.Specialism)
		}
		d.Specialism = spec
	}
	if d.Status == "" {
		d.Status = StatusActive
	}
	status, ok := NormalizeStatus(d.Status)
	if !ok {
		return "", fmt.Errorf("invalid status: %s", d.Status)
	}
	d.Status = status

	existing, err := s.repo.FindByName(ctx, d.Name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", fmt.Errorf("doctor %q: %w", d.Name, ErrAlreadyExists)
	}

	d.ID = s.newID()
	if err := s.repo.Upsert(ctx, d); err != nil {
		return "", err
	}
	return d.ID, nil
}

// Get returns the doctor for id, or nil when absent.
func (s *Service) Get(ctx context.Context, id string) (*Doctor, error) {
	return s.repo.FindByID(ctx, id)
}

// Query returns an ordered page of doctors with its detail envelope.
func (s *Service) Query(ctx context.Context, q *Query) (*Page, error) {
	q.Params = q.Params.Normalize(sortableFields)

	list, total, err := s.repo.FindByQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Doctor{}
	}
	return &Page{
		Doctors: list,
		Detail: Detail{
			Detail:      pagination.NewDetail(q.Params, total),
			Name:        q.Name,
			Specialisms: q.Specialisms,
			Statuses:    q.Statuses,
		},
	}, nil
}

// Update merges the non-blank fields of in into the stored doctor and
// writes the merged document back in full. A miss reports false, not an
// error.
func (s *Service) Update(ctx context.Context, id string, in *Update) (bool, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	if strings.TrimSpace(in.Name) != "" {
		existing.Name = in.Name
	}
	if in.Rate != nil {
		existing.Rate = *in.Rate
	}
	if in.Specialism != "" {
		spec, ok := NormalizeSpecialism(in.Specialism)
		if !ok {
			return false, fmt.Errorf("invalid specialism: %s", in.Specialism)
		}
		existing.Specialism = spec
	}
	if in.Status != "" {
		status, ok := NormalizeStatus(in.Status)
		if !ok {
			return false, fmt.Errorf("invalid status: %s", in.Status)
		}
		existing.Status = status
	}

	if err := s.repo.Upsert(ctx, existing); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the doctor for id, reporting false when absent.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	return s.repo.Delete(ctx, id)
}
