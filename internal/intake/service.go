package intake

import (
	"context"
	"log"
	"strings"
)

// Sender dispatches one outbound message. Implemented by the whatsapp client.
type Sender interface {
	SendText(to, text string) error
}

// ResponderGate is tried before any session processing on every inbound turn.
// It reports whether the message was consumed as a doctor's accept/decline
// reply. Implemented by the submission package.
type ResponderGate interface {
	HandleReply(ctx context.Context, from, text string) bool
}

// Service routes one inbound turn: doctor-reply path first, then the global
// cancel interrupt, then the session state machine. The reply send is
// best-effort; a send failure never propagates to the webhook.
type Service struct {
	machine   *Machine
	store     SessionStore
	sender    Sender
	responder ResponderGate
}

func NewService(machine *Machine, store SessionStore, sender Sender, responder ResponderGate) *Service {
	return &Service{
		machine:   machine,
		store:     store,
		sender:    sender,
		responder: responder,
	}
}

const msgCancelAck = "Your request has been cancelled. Type HI to start again."

func (s *Service) HandleInbound(ctx context.Context, from, text string) {
	if s.responder.HandleReply(ctx, from, text) {
		return
	}

	if strings.EqualFold(strings.TrimSpace(text), "cancel") {
		// Unconditional: the session may not exist, the ack is sent anyway.
		s.store.Delete(from)
		s.send(from, msgCancelAck)
		return
	}

	reply := s.machine.Advance(ctx, from, text)
	s.send(from, reply)
}

func (s *Service) send(to, text string) {
	if err := s.sender.SendText(to, text); err != nil {
		log.Printf("Failed to send reply to %s: %v", to, err)
	}
}
