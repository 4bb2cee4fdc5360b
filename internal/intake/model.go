package intake

import "fmt"

// Step is a named position in the intake flow.
type Step string

const (
	StepStart           Step = "start"
	StepMainMenu        Step = "main_menu"
	StepAppointmentDate Step = "appointment_date"
	StepAppointmentTime Step = "appointment_time"
	StepPrivate         Step = "private"
	StepSpecialist      Step = "specialist"
	StepProcedure       Step = "procedure"
	StepPatient         Step = "patient"
	StepMedical         Step = "medical"
	StepTerms           Step = "terms"
)

// Session is the ephemeral per-sender conversation state. Fields of Record
// are only written by the step that produces them and never read before that
// step has passed.
type Session struct {
	Step   Step
	Record Record
}

func NewSession() *Session {
	return &Session{Step: StepStart}
}

// Record accumulates the intake answers. AvailableProcedures is transient:
// it exists only to give procedure selections a stable 1-based index space,
// and is rebuilt whenever Specialists is set.
type Record struct {
	AppointmentDate     string
	Appointment         string
	IsPrivate           bool
	Specialists         []string
	AvailableProcedures []string
	Procedures          []string
	PatientName         string
	Medical             string
}

// complete validates field presence at the submit boundary rather than
// trusting the accumulated writes.
func (r *Record) complete() error {
	switch {
	case r.Appointment == "":
		return fmt.Errorf("intake record missing appointment")
	case len(r.Specialists) == 0:
		return fmt.Errorf("intake record missing specialists")
	case len(r.Procedures) == 0:
		return fmt.Errorf("intake record missing procedures")
	case r.PatientName == "":
		return fmt.Errorf("intake record missing patient name")
	case r.Medical == "":
		return fmt.Errorf("intake record missing medical history")
	}
	return nil
}
