package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medportal/medportal/pkg/objectid"
	"github.com/medportal/medportal/pkg/pagination"
)

// ErrAlreadyExists signals a create for a name and date of birth that are
// already registered.
var ErrAlreadyExists = errors.New("patient already exists")

// Service implements the patient use cases over the repository.
type Service struct {
	repo  Repository
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, newID: objectid.New}
}

// Create registers a patient if no patient with the same name and date of
// birth exists and returns the new identifier.
func (s *Service) Create(ctx context.Context, p *Patient) (string, error) {
	if strings.TrimSpace(p.Name) == "" {
		return "", fmt.Errorf("name is required")
	}
	if p.DateOfBirth != "" {
		if _, err := time.Parse(DateLayout, p.DateOfBirth); err != nil {
			return "", fmt.Errorf("invalid dateOfBirth %q: want %s", p.DateOfBirth, DateLayout)
		}
	}
	if p.Gender != "" {
		g, ok := NormalizeGender(p.Gender)
		if !ok {
			return "", fmt.Errorf("invalid gender: %s", p.Gender)
		}
		p.Gender = g
	}
	// Commands never write the projected appointment list.
	p.Appointments = nil

	existing, err := s.repo.FindByNameAndDOB(ctx, p.Name, p.DateOfBirth)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", fmt.Errorf("patient %q born %s: %w", p.Name, p.DateOfBirth, ErrAlreadyExists)
	}

	p.ID = s.newID()
	if err := s.repo.Upsert(ctx, p); err != nil {
		return "", err
	}
	return p.ID, nil
}

// Get returns the patient for id, or nil when absent.
func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.repo.FindByID(ctx, id)
}

// Query returns an ordered page of patients with its detail envelope.
func (s *Service) Query(ctx context.Context, q *Query) (*Page, error) {
	q.Params = q.Params.Normalize(sortableFields)

	list, total, err := s.repo.FindByQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Patient{}
	}
	return &Page{
		Patients: list,
		Detail: Detail{
			Detail:      pagination.NewDetail(q.Params, total),
			Name:        q.Name,
			Genders:     q.Genders,
			DateOfBirth: q.DateOfBirth,
			Admitted:    q.Admitted,
		},
	}, nil
}

// Update writes the set fields of in over the stored patient. The write is
// a merge: only the fields carried here reach the document, so the stored
// values of everything else, the projected appointment list included,
// survive untouched. A miss reports false, not an error.
func (s *Service) Update(ctx context.Context, id string, in *Update) (bool, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	patch := &Patient{
		Name:       strings.TrimSpace(in.Name),
		Email:      in.Email,
		Phone:      in.Phone,
		IsAdmitted: in.IsAdmitted,
		Room:       in.Room,
	}
	patch.ID = id
	if in.DateOfBirth != "" {
		if _, err := time.Parse(DateLayout, in.DateOfBirth); err != nil {
			return false, fmt.Errorf("invalid dateOfBirth %q: want %s", in.DateOfBirth, DateLayout)
		}
		patch.DateOfBirth = in.DateOfBirth
	}
	if in.Gender != "" {
		g, ok := NormalizeGender(in.Gender)
		if !ok {
			return false, fmt.Errorf("invalid gender: %s", in.Gender)
		}
		patch.Gender = g
	}

	if err := s.repo.Upsert(ctx, patch); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the patient for id, reporting false when absent.
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
