package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/premOFbounteous/backFinal/internal/service"
)

type ProductService interface {
	List(ctx context.Context, params service.ListParams) (*service.ProductPage, error)
	Get(ctx context.Context, productID int64) (*domain.Product, error)
	SearchText(ctx context.Context, searchStr string, page, limit int64) (*service.ProductPage, error)
	SemanticSearch(ctx context.Context, searchStr string) (*service.SemanticResult, error)
	Categories(ctx context.Context) ([]string, error)
}

type ProductHandler struct {
	products ProductService
}

func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.products.List(r.Context(), service.ListParams{
		Page:     queryInt64(q.Get("page")),
		Limit:    queryInt64(q.Get("limit")),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// GET /products/{product_id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	product, err := h.products.Get(r.Context(), productID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// GET /products/normal-search?search_str=...
func (h *ProductHandler) SearchText(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.products.SearchText(r.Context(), q.Get("search_str"), queryInt64(q.Get("page")), queryInt64(q.Get("limit")))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// GET /products/search?search_str=...
func (h *ProductHandler) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	result, err := h.products.SemanticSearch(r.Context(), r.URL.Query().Get("search_str"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GET /categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.Categories(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}

	respondJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func queryInt64(raw string) int64 {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
