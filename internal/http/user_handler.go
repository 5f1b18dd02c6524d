package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/premOFbounteous/backFinal/internal/service"
)

type UserService interface {
	Register(ctx context.Context, input service.RegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (*service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	Addresses(ctx context.Context, userID string) ([]domain.Address, error)
	AddAddress(ctx context.Context, userID string, input service.AddressInput) (*domain.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID string, input service.AddressInput) error
	RemoveAddress(ctx context.Context, userID, addressID string) error
}

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// POST /users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Username, email, password, DOB, and a complete address object are required")
		return
	}

	userID, err := h.users.Register(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
		"user_id": userID,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "email and password are required")
		return
	}

	pair, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// POST /users/refresh
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "refresh_token is required")
		return
	}

	pair, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pair)
}

// GET /users/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Profile(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// GET /users/addresses
func (h *UserHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.users.Addresses(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, addresses)
}

// POST /users/addresses
func (h *UserHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	var input service.AddressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "A complete address object is required")
		return
	}

	address, err := h.users.AddAddress(r.Context(), userIDFromContext(r.Context()), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Address added successfully",
		"address": address,
	})
}

// PUT /users/addresses/{addressId}
func (h *UserHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var input service.AddressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "A complete address object is required")
		return
	}

	addressID := chi.URLParam(r, "addressId")
	if err := h.users.UpdateAddress(r.Context(), userIDFromContext(r.Context()), addressID, input); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Address updated successfully"})
}

// DELETE /users/addresses/{addressId}
func (h *UserHandler) RemoveAddress(w http.ResponseWriter, r *http.Request) {
	addressID := chi.URLParam(r, "addressId")
	if err := h.users.RemoveAddress(r.Context(), userIDFromContext(r.Context()), addressID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Address deleted successfully"})
}
