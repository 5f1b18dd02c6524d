package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/premOFbounteous/backFinal/internal/domain"
)

type WishlistService interface {
	Add(ctx context.Context, userID string, productID int64) error
	List(ctx context.Context, userID string) ([]domain.Product, error)
	Remove(ctx context.Context, userID string, productID int64) error
}

type WishlistHandler struct {
	wishlist WishlistService
}

func NewWishlistHandler(wishlist WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

type wishlistItemRequest struct {
	ProductID int64 `json:"product_id"`
}

// POST /wishlist/add
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req wishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "product_id must be a number")
		return
	}

	if err := h.wishlist.Add(r.Context(), userIDFromContext(r.Context()), req.ProductID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Item added to wishlist"})
}

// GET /wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.wishlist.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"wishlist": products})
}

// POST /wishlist/remove
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req wishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "product_id must be a number")
		return
	}

	if err := h.wishlist.Remove(r.Context(), userIDFromContext(r.Context()), req.ProductID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Item removed from wishlist"})
}
