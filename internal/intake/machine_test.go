package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donto-bot/internal/catalog"
)

type fakeRecorder struct {
	calls []Record
	from  string
	id    string
	err   error
}

func (f *fakeRecorder) Record(_ context.Context, from string, rec Record) (string, error) {
	f.calls = append(f.calls, rec)
	f.from = from
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}

func newTestMachine(rec *fakeRecorder) (*Machine, SessionStore) {
	store := NewMemoryStore()
	m := NewMachine(store, catalog.Default(), rec)
	m.now = func() time.Time {
		return time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC)
	}
	return m, store
}

// drive advances the machine through inputs and returns the last reply.
func drive(t *testing.T, m *Machine, from string, inputs ...string) string {
	t.Helper()
	var reply string
	for _, input := range inputs {
		reply = m.Advance(context.Background(), from, input)
	}
	return reply
}

func TestFirstContactShowsMainMenu(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})

	reply := m.Advance(context.Background(), "100", "hi")

	assert.Contains(t, reply, "1. Book an appointment")
	s, ok := store.Get("100")
	require.True(t, ok)
	assert.Equal(t, StepMainMenu, s.Step)
}

func TestMainMenuNonOneClosesSession(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})

	reply := drive(t, m, "100", "hi", "9")

	assert.Contains(t, reply, "Session closed")
	_, ok := store.Get("100")
	assert.False(t, ok)
}

func TestDateChoiceMapsToCalendarDate(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})

	// Choice 3 = day after tomorrow relative to the fixed clock.
	drive(t, m, "100", "hi", "1", "3")

	s, ok := store.Get("100")
	require.True(t, ok)
	assert.Equal(t, StepAppointmentTime, s.Step)
	assert.Equal(t, "2026-03-11", s.Record.AppointmentDate)
}

// TestInvalidDateInputRepromptsWithoutAdvancing covers the idempotent
// re-prompt rule: step and accumulated data must be untouched.
func TestInvalidDateInputRepromptsWithoutAdvancing(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})
	drive(t, m, "100", "hi", "1")

	before, _ := store.Get("100")
	recordBefore := before.Record

	reply := m.Advance(context.Background(), "100", "banana")

	assert.Contains(t, reply, "Invalid choice")
	after, ok := store.Get("100")
	require.True(t, ok)
	assert.Equal(t, StepAppointmentDate, after.Step)
	assert.Equal(t, recordBefore, after.Record)
}

func TestTimeChoiceCombinesWithDate(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})

	drive(t, m, "100", "hi", "1", "1", "4")

	s, _ := store.Get("100")
	assert.Equal(t, StepPrivate, s.Step)
	assert.Equal(t, "2026-03-09 16:00", s.Record.Appointment)
}

func TestInvalidTimeInputReprompts(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})

	reply := drive(t, m, "100", "hi", "1", "1", "5")

	assert.Contains(t, reply, "Invalid choice")
	s, _ := store.Get("100")
	assert.Equal(t, StepAppointmentTime, s.Step)
	assert.Empty(t, s.Record.Appointment)
}

func TestPrivateAcceptsAnyInput(t *testing.T) {
	cases := []struct {
		input   string
		private bool
	}{
		{"1", true},
		{"2", false},
		{"whatever", false},
		{"", false}, // absent body means not private
	}
	for _, tc := range cases {
		m, store := newTestMachine(&fakeRecorder{id: "x"})
		drive(t, m, "100", "hi", "1", "1", "1", tc.input)

		s, ok := store.Get("100")
		require.True(t, ok, "input %q", tc.input)
		assert.Equal(t, StepSpecialist, s.Step)
		assert.Equal(t, tc.private, s.Record.IsPrivate, "input %q", tc.input)
	}
}

func TestSpecialistSelectionBuildsProcedureList(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})
	cat := catalog.Default()

	// Catalog order: 1=General Dentist, 3=Endodontist. Selection order 3,1
	// must drive the procedure sequence order.
	drive(t, m, "100", "hi", "1", "1", "1", "2", "3,1")

	s, _ := store.Get("100")
	assert.Equal(t, StepProcedure, s.Step)
	assert.Equal(t, []string{"Endodontist", "General Dentist"}, s.Record.Specialists)

	want := append([]string{}, cat.Procedures("Endodontist")...)
	want = append(want, cat.Procedures("General Dentist")...)
	assert.Equal(t, want, s.Record.AvailableProcedures)
}

func TestSpecialistSelectionPreservesDuplicates(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})

	drive(t, m, "100", "hi", "1", "1", "1", "2", "3,1,3")

	s, _ := store.Get("100")
	assert.Equal(t, []string{"Endodontist", "General Dentist", "Endodontist"}, s.Record.Specialists)
}

func TestSpecialistSelectionAllInvalidReprompts(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})

	reply := drive(t, m, "100", "hi", "1", "1", "1", "2", "0,99,abc")

	assert.Contains(t, reply, "Invalid choice")
	s, _ := store.Get("100")
	assert.Equal(t, StepSpecialist, s.Step)
	assert.Nil(t, s.Record.Specialists)
}

func TestProcedureSelectionIndexesAvailableList(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})
	cat := catalog.Default()

	drive(t, m, "100", "hi", "1", "1", "1", "2", "1", "2,1")

	s, _ := store.Get("100")
	assert.Equal(t, StepPatient, s.Step)
	general := cat.Procedures("General Dentist")
	assert.Equal(t, []string{general[1], general[0]}, s.Record.Procedures)
}

func TestEmptyPatientNameReprompts(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})

	reply := drive(t, m, "100", "hi", "1", "1", "1", "2", "1", "1", "   ")

	assert.Contains(t, reply, "patient's full name")
	s, _ := store.Get("100")
	assert.Equal(t, StepPatient, s.Step)
	assert.Empty(t, s.Record.PatientName)
}

func TestMedicalZeroStoresNoneSentinel(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})

	drive(t, m, "100", "hi", "1", "1", "1", "2", "1", "1", "Jane Doe", "0")

	s, _ := store.Get("100")
	assert.Equal(t, StepTerms, s.Step)
	assert.Equal(t, "None", s.Record.Medical)
}

func TestTermsAcceptRecordsAndEndsSession(t *testing.T) {
	rec := &fakeRecorder{id: "sub-123"}
	m, store := newTestMachine(rec)

	reply := drive(t, m, "100",
		"hi", "1", "1", "1", "2", "1", "1", "Jane Doe", "penicillin allergy", "1")

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "100", rec.from)
	assert.Equal(t, "Jane Doe", rec.calls[0].PatientName)
	assert.Equal(t, "penicillin allergy", rec.calls[0].Medical)
	assert.Equal(t, "2026-03-09 09:00", rec.calls[0].Appointment)

	assert.Contains(t, reply, "sub-123")
	assert.Contains(t, reply, "Jane Doe")
	assert.Contains(t, reply, "2026-03-09 09:00")
	assert.Contains(t, reply, "General Dentist")
	assert.Contains(t, reply, "✅")

	_, ok := store.Get("100")
	assert.False(t, ok)
}

func TestTermsRejectCancelsRequest(t *testing.T) {
	rec := &fakeRecorder{id: "x"}
	m, store := newTestMachine(rec)

	reply := drive(t, m, "100",
		"hi", "1", "1", "1", "2", "1", "1", "Jane Doe", "0", "2")

	assert.Contains(t, reply, "cancelled")
	assert.Empty(t, rec.calls)
	_, ok := store.Get("100")
	assert.False(t, ok)
}

// TestTermsRecorderFailureKeepsSession verifies a persistence outage
// degrades to a retryable turn instead of losing the intake.
func TestTermsRecorderFailureKeepsSession(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("db down")}
	m, store := newTestMachine(rec)

	reply := drive(t, m, "100",
		"hi", "1", "1", "1", "2", "1", "1", "Jane Doe", "0", "1")

	assert.Contains(t, reply, "could not submit")
	s, ok := store.Get("100")
	require.True(t, ok)
	assert.Equal(t, StepTerms, s.Step)
}

func TestUnknownStepResetsSession(t *testing.T) {
	m, store := newTestMachine(&fakeRecorder{id: "x"})
	store.Put("100", &Session{Step: Step("corrupted")})

	reply := m.Advance(context.Background(), "100", "1")

	assert.Equal(t, msgRestart, reply)
	_, ok := store.Get("100")
	assert.False(t, ok)
}

func TestParseSelectionsOrderAndDuplicates(t *testing.T) {
	assert.Equal(t, []int{3, 1, 3}, parseSelections("3,1,3", 5))
	assert.Equal(t, []int{2, 4}, parseSelections(" 2 , 4 ", 5))
	assert.Equal(t, []int{1}, parseSelections("0,1,6,abc", 5))
	assert.Nil(t, parseSelections("x,y", 5))
	assert.Nil(t, parseSelections("", 5))
}
