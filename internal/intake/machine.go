package intake

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"donto-bot/internal/catalog"
)

// Recorder persists a completed intake and returns the generated submission id.
// Implemented by the submission package.
type Recorder interface {
	Record(ctx context.Context, from string, rec Record) (string, error)
}

// Machine advances a sender's session one turn per inbound message. Each step
// handler consumes the input, mutates the session, and renders the reply; the
// dispatch table is the single source of truth for which steps exist.
type Machine struct {
	store    SessionStore
	catalog  *catalog.Catalog
	recorder Recorder
	now      func() time.Time

	steps map[Step]stepFunc
}

type stepFunc func(ctx context.Context, from string, s *Session, input string) (reply string, end bool)

func NewMachine(store SessionStore, cat *catalog.Catalog, recorder Recorder) *Machine {
	m := &Machine{
		store:    store,
		catalog:  cat,
		recorder: recorder,
		now:      time.Now,
	}
	m.steps = map[Step]stepFunc{
		StepStart:           m.stepStart,
		StepMainMenu:        m.stepMainMenu,
		StepAppointmentDate: m.stepAppointmentDate,
		StepAppointmentTime: m.stepAppointmentTime,
		StepPrivate:         m.stepPrivate,
		StepSpecialist:      m.stepSpecialist,
		StepProcedure:       m.stepProcedure,
		StepPatient:         m.stepPatient,
		StepMedical:         m.stepMedical,
		StepTerms:           m.stepTerms,
	}
	return m
}

// Advance runs one turn for the sender and returns the reply text. The
// session is created on first contact, saved after every turn, and removed
// when the flow ends or the stored step is unrecognized.
func (m *Machine) Advance(ctx context.Context, from, input string) string {
	s, ok := m.store.Get(from)
	if !ok {
		s = NewSession()
	}

	fn, ok := m.steps[s.Step]
	if !ok {
		// Corrupted or unreachable state: reset, don't crash.
		log.Printf("Unknown session step %q for %s, resetting", s.Step, from)
		m.store.Delete(from)
		return msgRestart
	}

	reply, end := fn(ctx, from, s, input)
	if end {
		m.store.Delete(from)
	} else {
		m.store.Put(from, s)
	}
	return reply
}

func (m *Machine) stepStart(_ context.Context, _ string, s *Session, _ string) (string, bool) {
	s.Step = StepMainMenu
	return mainMenuPrompt(), false
}

func (m *Machine) stepMainMenu(_ context.Context, _ string, s *Session, input string) (string, bool) {
	if input != "1" {
		return msgSessionClosed, true
	}
	s.Step = StepAppointmentDate
	return datePrompt(m.now()), false
}

func (m *Machine) stepAppointmentDate(_ context.Context, _ string, s *Session, input string) (string, bool) {
	choice, ok := menuChoice(input, 3)
	if !ok {
		return msgInvalidChoice + datePrompt(m.now()), false
	}
	s.Record.AppointmentDate = m.now().AddDate(0, 0, choice-1).Format("2006-01-02")
	s.Step = StepAppointmentTime
	return timePrompt(), false
}

var timeSlots = []string{"09:00", "11:00", "14:00", "16:00"}

func (m *Machine) stepAppointmentTime(_ context.Context, _ string, s *Session, input string) (string, bool) {
	choice, ok := menuChoice(input, len(timeSlots))
	if !ok {
		return msgInvalidChoice + timePrompt(), false
	}
	s.Record.Appointment = s.Record.AppointmentDate + " " + timeSlots[choice-1]
	s.Step = StepPrivate
	return privatePrompt(), false
}

func (m *Machine) stepPrivate(_ context.Context, _ string, s *Session, input string) (string, bool) {
	// Anything other than "1" (including an absent body) means not private.
	s.Record.IsPrivate = input == "1"
	s.Step = StepSpecialist
	return specialistPrompt(m.catalog.Specialists()), false
}

func (m *Machine) stepSpecialist(_ context.Context, _ string, s *Session, input string) (string, bool) {
	names := m.catalog.Specialists()
	picks := parseSelections(input, len(names))
	if len(picks) == 0 {
		return msgInvalidChoice + specialistPrompt(names), false
	}

	s.Record.Specialists = nil
	for _, i := range picks {
		s.Record.Specialists = append(s.Record.Specialists, names[i-1])
	}

	// Rebuild the selectable procedure sequence from the chosen specialists,
	// in selection order, keeping duplicates. Procedure picks index into this.
	s.Record.AvailableProcedures = nil
	for _, name := range s.Record.Specialists {
		s.Record.AvailableProcedures = append(s.Record.AvailableProcedures, m.catalog.Procedures(name)...)
	}

	s.Step = StepProcedure
	return procedurePrompt(s.Record.AvailableProcedures), false
}

func (m *Machine) stepProcedure(_ context.Context, _ string, s *Session, input string) (string, bool) {
	avail := s.Record.AvailableProcedures
	picks := parseSelections(input, len(avail))
	if len(picks) == 0 {
		return msgInvalidChoice + procedurePrompt(avail), false
	}

	s.Record.Procedures = nil
	for _, i := range picks {
		s.Record.Procedures = append(s.Record.Procedures, avail[i-1])
	}

	s.Step = StepPatient
	return msgPatientPrompt, false
}

func (m *Machine) stepPatient(_ context.Context, _ string, s *Session, input string) (string, bool) {
	if strings.TrimSpace(input) == "" {
		return msgPatientPrompt, false
	}
	s.Record.PatientName = input
	s.Step = StepMedical
	return msgMedicalPrompt, false
}

func (m *Machine) stepMedical(_ context.Context, _ string, s *Session, input string) (string, bool) {
	if strings.TrimSpace(input) == "" {
		return msgMedicalPrompt, false
	}
	if input == "0" {
		s.Record.Medical = "None"
	} else {
		s.Record.Medical = input
	}
	s.Step = StepTerms
	return termsPrompt(), false
}

func (m *Machine) stepTerms(ctx context.Context, from string, s *Session, input string) (string, bool) {
	if input != "1" {
		return msgRequestCancelled, true
	}

	if err := s.Record.complete(); err != nil {
		log.Printf("Incomplete intake record for %s at submit: %v", from, err)
		return msgRestart, true
	}

	id, err := m.recorder.Record(ctx, from, s.Record)
	if err != nil {
		// Persistence is down for this turn; keep the session at terms so
		// the sender can retry with "1".
		log.Printf("Failed to record submission for %s: %v", from, err)
		return msgSubmitFailed + termsPrompt(), false
	}

	return summary(id, s.Record), true
}

// menuChoice parses input as a 1-based menu index in [1, n].
func menuChoice(input string, n int) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || v < 1 || v > n {
		return 0, false
	}
	return v, true
}

// parseSelections parses a comma-separated list of 1-based indices. Tokens
// that do not parse or fall outside [1, n] are dropped silently; input order
// and duplicates are preserved.
func parseSelections(input string, n int) []int {
	var picks []int
	for _, token := range strings.Split(input, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || v < 1 || v > n {
			continue
		}
		picks = append(picks, v)
	}
	return picks
}

const (
	msgSessionClosed    = "Session closed. Type HI to start again."
	msgRestart          = "Type HI to start."
	msgInvalidChoice    = "Invalid choice, please try again.\n\n"
	msgRequestCancelled = "Your request has been cancelled."
	msgSubmitFailed     = "Sorry, we could not submit your request right now. Please try again.\n\n"
	msgPatientPrompt    = "Please enter the patient's full name:"
	msgMedicalPrompt    = "Please describe any relevant medical history (allergies, medication, conditions).\nReply 0 if there is none:"
)

func mainMenuPrompt() string {
	return "Welcome to Donto Dental Clinic 👨‍⚕️\n\n" +
		"1. Book an appointment\n\n" +
		"Reply with the number of your choice. Type CANCEL at any time to stop."
}

func datePrompt(now time.Time) string {
	var b strings.Builder
	b.WriteString("When would you like to come in?\n")
	labels := []string{"Today", "Tomorrow", "Day after tomorrow"}
	for i, label := range labels {
		day := now.AddDate(0, 0, i)
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, label, day.Format("Mon, 02 Jan"))
	}
	return b.String()
}

func timePrompt() string {
	var b strings.Builder
	b.WriteString("Please pick a time slot:\n")
	for i, slot := range timeSlots {
		fmt.Fprintf(&b, "%d. %s\n", i+1, slot)
	}
	return b.String()
}

func privatePrompt() string {
	return "Is this a private (self-paying) appointment?\n1. Yes\n2. No"
}

func specialistPrompt(names []string) string {
	var b strings.Builder
	b.WriteString("Which specialist(s) do you need? You can pick more than one, e.g. 1,3\n")
	for i, name := range names {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}
	return b.String()
}

func procedurePrompt(procedures []string) string {
	var b strings.Builder
	b.WriteString("Which procedure(s)? You can pick more than one, e.g. 1,3\n")
	for i, p := range procedures {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return b.String()
}

func termsPrompt() string {
	return "Terms & Conditions:\n" +
		"Appointments may be rescheduled by the clinic with prior notice. " +
		"Cancellations less than 24 hours before the appointment may incur a fee. " +
		"Your details are used only to process this request.\n\n" +
		"1. Accept and submit\n2. Cancel"
}

func summary(id string, rec Record) string {
	return "✅ Your request has been submitted!\n\n" +
		"Request ID: " + id + "\n" +
		"Appointment: " + rec.Appointment + "\n" +
		"Specialists: " + strings.Join(rec.Specialists, ", ") + "\n" +
		"Procedures: " + strings.Join(rec.Procedures, ", ") + "\n" +
		"Patient: " + rec.PatientName + "\n\n" +
		"We will be in touch to confirm. Thank you!"
}
