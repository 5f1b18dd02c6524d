package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/premOFbounteous/backFinal/internal/service"
)

const maxWebhookBody = 1 << 20 // Stripe events are small; 1MB is generous

// PaymentFinalizer processes a raw, signed payment gateway event.
type PaymentFinalizer interface {
	HandleEvent(ctx context.Context, rawPayload []byte, sigHeader string) error
}

type WebhookHandler struct {
	finalizer PaymentFinalizer
}

func NewWebhookHandler(finalizer PaymentFinalizer) *WebhookHandler {
	return &WebhookHandler{finalizer: finalizer}
}

// POST /cart/webhook/stripe
//
// The body must reach the verifier byte-for-byte as Stripe sent it, so this
// handler reads it raw and never goes through the JSON middleware.
func (h *WebhookHandler) HandleStripeEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	err = h.finalizer.HandleEvent(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		var authErr *service.AuthenticationError
		var validation *service.ValidationError
		switch {
		case errors.As(err, &authErr):
			// Tampered or unsigned: retrying is pointless.
			respondError(w, http.StatusBadRequest, authErr.Detail)
		case errors.As(err, &validation):
			respondError(w, http.StatusBadRequest, validation.Detail)
		default:
			// Transient failure: non-2xx invites Stripe to redeliver.
			respondError(w, http.StatusInternalServerError, "Failed to process event")
		}
		return
	}

	// Received (including no-op duplicates); do not redeliver.
	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
