package intake

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"donto-bot/internal/platform/whatsapp"
)

type Handler struct {
	svc         *Service
	verifyToken string
}

func NewHandler(svc *Service, verifyToken string) *Handler {
	return &Handler{svc: svc, verifyToken: verifyToken}
}

// VerifyWebhook answers the platform's GET challenge during webhook setup.
func (h *Handler) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode != "" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

// ReceiveMessage handles inbound webhook notifications. It always returns
// 200 so the platform does not redeliver; processing errors are logged.
func (h *Handler) ReceiveMessage(w http.ResponseWriter, r *http.Request) {
	var payload whatsapp.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("Failed to decode webhook payload: %v", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	if msg := payload.FirstMessage(); msg != nil {
		log.Printf("Incoming message from %s", msg.From)
		h.svc.HandleInbound(r.Context(), msg.From, msg.Body())
	}

	w.WriteHeader(http.StatusOK)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/webhook", h.VerifyWebhook)
	r.Post("/webhook", h.ReceiveMessage)
}
