package doctors

import (
	"strings"

	"github.com/medportal/medportal/internal/platform/docstore"
	"github.com/medportal/medportal/internal/platform/readstore"
	"github.com/medportal/medportal/pkg/pagination"
)

// CollectionName is the document collection backing this package.
const CollectionName = "doctor"

// Specialism values, serialized as canonical strings.
const (
	SpecialismGeneralPractice = "GeneralPractice"
	SpecialismOrthopaedics    = "Orthopaedics"
	SpecialismCardiology      = "Cardiology"
	SpecialismDermatology     = "Dermatology"
	SpecialismNeurology       = "Neurology"
	SpecialismPaediatrics     = "Paediatrics"
)

// Status values.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

var specialisms = []string{
	SpecialismGeneralPractice, SpecialismOrthopaedics, SpecialismCardiology,
	SpecialismDermatology, SpecialismNeurology, SpecialismPaediatrics,
}

var statuses = []string{StatusActive, StatusInactive}

// NormalizeSpecialism maps a case-insensitive specialism to its canonical
// form.
func NormalizeSpecialism(s string) (string, bool) {
	return normalize(s, specialisms)
}

// NormalizeStatus maps a case-insensitive status to its canonical form.
func NormalizeStatus(s string) (string, bool) {
	return normalize(s, statuses)
}

func normalize(s string, canon []string) (string, bool) {
	for _, c := range canon {
		if strings.EqualFold(s, c) {
			return c, true
		}
	}
	return "", false
}

// Doctor is the doctor read model. Doctors are written full-replace: every
// upsert overwrites all document fields, so callers merge existing state
// with requested changes before saving.
type Doctor struct {
	readstore.Base
	Name       string `json:"name,omitempty"`
	Rate       int    `json:"rate,omitempty"`
	Specialism string `json:"specialism,omitempty"`
	Status     string `json:"status,omitempty"`
}

// Update carries the optional fields of an update command. Blank strings
// and a nil rate mean "leave the stored value alone".
type Update struct {
	Name       string `json:"name"`
	Rate       *int   `json:"rate"`
	Specialism string `json:"specialism"`
	Status     string `json:"status"`
}

// Query holds normalized filter criteria plus the pagination/sort tuple.
type Query struct {
	pagination.Params
	Name        string
	Specialisms []string
	Statuses    []string
}

// Detail echoes effective pagination, sort, and applied filters.
type Detail struct {
	pagination.Detail
	Name        string   `json:"name,omitempty"`
	Specialisms []string `json:"specialisms,omitempty"`
	Statuses    []string `json:"statuses,omitempty"`
}

// Page is one query result: an ordered page of doctors plus its detail
// envelope.
type Page struct {
	Doctors []*Doctor `json:"doctors"`
	Detail  Detail    `json:"detail"`
}

// sortableFields is the sort allow-list; unrecognized names fall back to
// the default sort field.
var sortableFields = map[string]string{
	"name":       docstore.Field("name"),
	"rate":       docstore.IntField("rate"),
	"specialism": docstore.Field("specialism"),
	"status":     docstore.Field("status"),
}

func (q *Query) filter() *docstore.Filter {
	return docstore.NewFilter().
		Eq("name", q.Name).
		In("specialism", q.Specialisms).
		In("status", q.Statuses)
}
