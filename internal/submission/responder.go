package submission

import (
	"context"
	"fmt"
	"log"
)

// ResponderHandler interprets "1"/"2" replies from doctors holding an
// outstanding ASSIGNED submission. It runs ahead of normal session routing
// on every inbound turn; when it does not recognize the sender the turn
// falls through to the session flow untouched. Implements
// intake.ResponderGate.
type ResponderHandler struct {
	repo   Repository
	sender Sender
}

func NewResponderHandler(repo Repository, sender Sender) *ResponderHandler {
	return &ResponderHandler{repo: repo, sender: sender}
}

// HandleReply reports whether the message was consumed as a doctor reply.
func (h *ResponderHandler) HandleReply(ctx context.Context, from, text string) bool {
	if text != "1" && text != "2" {
		return false
	}

	sub, err := h.repo.FindAssignedByDoctor(ctx, from)
	if err != nil {
		log.Printf("Assigned-case lookup failed for %s: %v", from, err)
		return false
	}
	if sub == nil {
		// Not a doctor with outstanding work; an ordinary session digit.
		return false
	}

	status := StatusDeclined
	if text == "1" {
		status = StatusAccepted
	}

	// One attempt, no retry. The turn is consumed either way so the digit
	// does not leak into a session that was never meant to see it.
	if err := h.repo.UpdateStatus(ctx, sub.ID, status); err != nil {
		log.Printf("Failed to update case %s to %s: %v", sub.ID, status, err)
		return true
	}

	verb := "declined"
	if status == StatusAccepted {
		verb = "accepted"
	}
	confirmation := fmt.Sprintf("You have %s case %s (patient %s, %s).", verb, sub.ID, sub.PatientName, sub.Appointment)
	if err := h.sender.SendText(from, confirmation); err != nil {
		log.Printf("Failed to confirm %s to doctor %s: %v", status, from, err)
	}

	return true
}
