package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/premOFbounteous/backFinal/internal/service"
)

// ErrorResponse matches the API's historical error shape: a single
// human-readable detail string.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, ErrorResponse{Detail: detail})
}

// respondServiceError maps the service error taxonomy to HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		state      *service.InvalidStateError
		stock      *service.InsufficientStockError
		authErr    *service.AuthenticationError
		upstream   *service.UpstreamError
	)

	switch {
	case errors.As(err, &validation):
		respondError(w, http.StatusUnprocessableEntity, validation.Detail)
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, notFound.Detail)
	case errors.As(err, &state):
		respondError(w, http.StatusBadRequest, state.Detail)
	case errors.As(err, &stock):
		respondError(w, http.StatusBadRequest, stock.Error())
	case errors.As(err, &authErr):
		respondError(w, http.StatusUnauthorized, authErr.Detail)
	case errors.As(err, &upstream):
		respondError(w, http.StatusInternalServerError, upstream.Detail)
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
