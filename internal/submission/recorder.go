package submission

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"donto-bot/internal/intake"
	"donto-bot/internal/roster"
)

// DoctorResolver finds an available doctor for a specialist category.
type DoctorResolver interface {
	Resolve(ctx context.Context, category string) (*roster.Entry, error)
}

// Sender dispatches one outbound message.
type Sender interface {
	SendText(to, text string) error
}

// CaseReporter sends the assigned doctor a case sheet document. Best-effort.
// Implemented by the report package.
type CaseReporter interface {
	SendCaseSheet(ctx context.Context, s Submission) error
}

// Recorder turns a completed intake into a persisted submission row,
// assigning an available doctor for the first chosen specialist when one
// exists. Implements intake.Recorder.
type Recorder struct {
	repo     Repository
	resolver DoctorResolver
	sender   Sender
	reporter CaseReporter
}

func NewRecorder(repo Repository, resolver DoctorResolver, sender Sender, reporter CaseReporter) *Recorder {
	return &Recorder{
		repo:     repo,
		resolver: resolver,
		sender:   sender,
		reporter: reporter,
	}
}

func (r *Recorder) Record(ctx context.Context, from string, rec intake.Record) (string, error) {
	sub := &Submission{
		ID:               uuid.New(),
		RequesterAddress: from,
		Appointment:      rec.Appointment,
		IsPrivate:        rec.IsPrivate,
		Specialists:      strings.Join(rec.Specialists, ", "),
		Procedures:       strings.Join(rec.Procedures, ", "),
		PatientName:      rec.PatientName,
		Medical:          rec.Medical,
		Status:           StatusPending,
	}

	// Assignment uses the first chosen specialist only; any further
	// specialists on the request are not consulted.
	doctor, err := r.resolver.Resolve(ctx, rec.Specialists[0])
	if err != nil {
		// Roster unavailable this turn: the submission proceeds unassigned.
		log.Printf("Doctor lookup failed for %q: %v", rec.Specialists[0], err)
	} else if doctor != nil {
		sub.Status = StatusAssigned
		sub.DoctorName = doctor.Name
		sub.DoctorAddress = doctor.Address
	}

	if err := r.repo.Append(ctx, sub); err != nil {
		return "", fmt.Errorf("failed to append submission: %w", err)
	}

	if sub.Status == StatusAssigned {
		r.notifyDoctor(ctx, sub)
	}

	return sub.ID.String(), nil
}

func (r *Recorder) notifyDoctor(ctx context.Context, sub *Submission) {
	text := fmt.Sprintf(
		"New case %s\nPatient: %s\nAppointment: %s\nProcedures: %s\nMedical history: %s\n\nReply 1 to accept, 2 to decline.",
		sub.ID, sub.PatientName, sub.Appointment, sub.Procedures, sub.Medical)

	if err := r.sender.SendText(sub.DoctorAddress, text); err != nil {
		log.Printf("Failed to notify doctor %s of case %s: %v", sub.DoctorAddress, sub.ID, err)
	}

	if r.reporter != nil {
		if err := r.reporter.SendCaseSheet(ctx, *sub); err != nil {
			log.Printf("Failed to send case sheet for %s: %v", sub.ID, err)
		}
	}
}
