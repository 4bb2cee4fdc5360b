package submission

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAssigned Status = "ASSIGNED"
	StatusAccepted Status = "ACCEPTED"
	StatusDeclined Status = "DECLINED"
)

// Submission is one finalized intake persisted as a row. Rows are appended
// once and never deleted; only the status cell changes afterwards
// (ASSIGNED -> ACCEPTED|DECLINED via the doctor's reply).
type Submission struct {
	ID               uuid.UUID
	RequesterAddress string
	Appointment      string
	IsPrivate        bool
	Specialists      string
	Procedures       string
	PatientName      string
	Medical          string
	DoctorName       string
	DoctorAddress    string
	Status           Status
	CreatedAt        time.Time
}
