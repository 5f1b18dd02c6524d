package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/premOFbounteous/backFinal/internal/service"
)

type VendorService interface {
	Register(ctx context.Context, input service.VendorRegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (*service.VendorLoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error)
	ListProducts(ctx context.Context, vendorID string) ([]domain.Product, error)
	AddProduct(ctx context.Context, vendorID string, input service.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, vendorID string, productID int64, input service.ProductInput) error
	DeleteProduct(ctx context.Context, vendorID string, productID int64) error
}

type VendorHandler struct {
	vendors VendorService
}

func NewVendorHandler(vendors VendorService) *VendorHandler {
	return &VendorHandler{vendors: vendors}
}

// POST /vendors/register
func (h *VendorHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.VendorRegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Company name, email, and password are required")
		return
	}

	vendorID, err := h.vendors.Register(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message":   "Vendor registered successfully",
		"vendor_id": vendorID,
	})
}

// POST /vendors/login
func (h *VendorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Email and password are required")
		return
	}

	result, err := h.vendors.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// POST /vendors/refresh
func (h *VendorHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "refresh_token is required")
		return
	}

	pair, err := h.vendors.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pair)
}

// GET /vendors/products
func (h *VendorHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.vendors.ListProducts(r.Context(), vendorIDFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// POST /vendors/products
func (h *VendorHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var input service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Title, price, and stock are required")
		return
	}

	product, err := h.vendors.AddProduct(r.Context(), vendorIDFromContext(r.Context()), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

// PUT /vendors/products/{product_id}
func (h *VendorHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var input service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid JSON body")
		return
	}

	if err := h.vendors.UpdateProduct(r.Context(), vendorIDFromContext(r.Context()), productID, input); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product updated successfully"})
}

// DELETE /vendors/products/{product_id}
func (h *VendorHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.vendors.DeleteProduct(r.Context(), vendorIDFromContext(r.Context()), productID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Product "+raw+" not found")
		return 0, false
	}
	return productID, true
}
