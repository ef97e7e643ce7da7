package appointments

import (
	"github.com/medportal/medportal/internal/platform/docstore"
	"github.com/medportal/medportal/internal/platform/readstore"
	"github.com/medportal/medportal/pkg/pagination"
)

// CollectionName is the document collection backing this package.
const CollectionName = "appointment"

// DateLayout is the wire format for appointment dates.
const DateLayout = "2006-01-02"

// Appointment is the appointment read model. The document key is a random
// uuid; the key callers address appointments by is the small integer
// AppointmentID they supply on create. Appointments are written
// full-replace, like doctors.
type Appointment struct {
	readstore.Base
	AppointmentID int    `json:"appointmentId,omitempty"`
	PatientID     string `json:"patientId,omitempty"`
	PatientName   string `json:"patientName,omitempty"`
	DoctorID      string `json:"doctorId,omitempty"`
	Date          string `json:"date,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Update carries the optional fields of an update command. Blank strings
// mean "leave the stored value alone"; the keys (AppointmentID, PatientID)
// are not updatable.
type Update struct {
	PatientName string `json:"patientName"`
	DoctorID    string `json:"doctorId"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Query holds normalized filter criteria plus the pagination/sort tuple.
type Query struct {
	pagination.Params
	PatientID string
	DoctorID  string
	Date      string
}

// Detail echoes effective pagination, sort, and applied filters.
type Detail struct {
	pagination.Detail
	PatientID string `json:"patientId,omitempty"`
	DoctorID  string `json:"doctorId,omitempty"`
	Date      string `json:"date,omitempty"`
}

// Page is one query result: an ordered page of appointments plus its
// detail envelope.
type Page struct {
	Appointments []*Appointment `json:"appointments"`
	Detail       Detail         `json:"detail"`
}

// The default sort name maps onto the denormalized patient name, the only
// name-like field an appointment has.
var sortableFields = map[string]string{
	"name":          docstore.Field("patientName"),
	"date":          docstore.Field("date"),
	"appointmentId": docstore.IntField("appointmentId"),
}

func (q *Query) filter() *docstore.Filter {
	return docstore.NewFilter().
		Eq("patientId", q.PatientID).
		Eq("doctorId", q.DoctorID).
		Eq("date", q.Date)
}
