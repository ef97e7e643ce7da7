package patients

import (
	"strings"

	"github.com/medportal/medportal/internal/platform/docstore"
	"github.com/medportal/medportal/internal/platform/readstore"
	"github.com/medportal/medportal/pkg/pagination"
)

// CollectionName is the document collection backing this package.
const CollectionName = "patient"

// DateLayout is the wire format for dates of birth and appointment dates.
const DateLayout = "2006-01-02"

// Gender values, serialized as canonical strings.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

var genders = []string{GenderMale, GenderFemale, GenderOther}

// NormalizeGender maps a case-insensitive gender to its canonical form.
func NormalizeGender(s string) (string, bool) {
	for _, c := range genders {
		if strings.EqualFold(s, c) {
			return c, true
		}
	}
	return "", false
}

// AppointmentRecord is the denormalized appointment entry carried on the
// patient record. It is projected from appointment-created events, not
// written by patient commands.
type AppointmentRecord struct {
	AppointmentID int    `json:"appointmentId"`
	DoctorID      string `json:"doctorId,omitempty"`
	Date          string `json:"date,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Patient is the patient read model. Patient writes merge into the stored
// document: absent fields leave the stored values alone, so every field
// here is omitted from the JSON when unset. Once written, a field cannot be
// blanked through an upsert.
type Patient struct {
	readstore.Base
	Name         string              `json:"name,omitempty"`
	Gender       string              `json:"gender,omitempty"`
	DateOfBirth  string              `json:"dateOfBirth,omitempty"`
	Email        string              `json:"email,omitempty"`
	Phone        string              `json:"phone,omitempty"`
	IsAdmitted   *bool               `json:"isAdmitted,omitempty"`
	Room         string              `json:"room,omitempty"`
	Appointments []AppointmentRecord `json:"appointments,omitempty"`
}

// Admitted reports the admission flag, treating an unset flag as false.
func (p *Patient) Admitted() bool {
	return p.IsAdmitted != nil && *p.IsAdmitted
}

// Update carries the optional fields of an update command. Blank strings
// and a nil admission flag mean "leave the stored value alone".
type Update struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateOfBirth"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	IsAdmitted  *bool  `json:"isAdmitted"`
	Room        string `json:"room"`
}

// Query holds normalized filter criteria plus the pagination/sort tuple.
type Query struct {
	pagination.Params
	Name        string
	Genders     []string
	DateOfBirth string
	Admitted    *bool
}

// Detail echoes effective pagination, sort, and applied filters.
type Detail struct {
	pagination.Detail
	Name        string   `json:"name,omitempty"`
	Genders     []string `json:"genders,omitempty"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	Admitted    *bool    `json:"admitted,omitempty"`
}

// Page is one query result: an ordered page of patients plus its detail
// envelope.
type Page struct {
	Patients []*Patient `json:"patients"`
	Detail   Detail     `json:"detail"`
}

var sortableFields = map[string]string{
	"name":        docstore.Field("name"),
	"gender":      docstore.Field("gender"),
	"dateOfBirth": docstore.Field("dateOfBirth"),
	"room":        docstore.Field("room"),
}

func (q *Query) filter() *docstore.Filter {
	return docstore.NewFilter().
		Eq("name", q.Name).
		In("gender", q.Genders).
		Eq("dateOfBirth", q.DateOfBirth).
		Flag("isAdmitted", q.Admitted)
}
