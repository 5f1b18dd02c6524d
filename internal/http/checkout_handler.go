package http

import (
	"context"
	"encoding/json"
	"net/http"
)

// CheckoutInitiator converts a cart and a shipping address selector into a
// hosted payment page URL.
type CheckoutInitiator interface {
	InitiateCheckout(ctx context.Context, userID, addressID string) (string, error)
}

type CheckoutHandler struct {
	checkout CheckoutInitiator
}

func NewCheckoutHandler(checkout CheckoutInitiator) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type checkoutRequest struct {
	AddressID string `json:"addressId"`
}

// POST /cart/checkout
func (h *CheckoutHandler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req checkoutRequest
	// An empty or malformed body falls through with an empty addressId; the
	// service rejects it with the proper validation detail.
	_ = json.NewDecoder(r.Body).Decode(&req)

	url, err := h.checkout.InitiateCheckout(r.Context(), userID, req.AddressID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
