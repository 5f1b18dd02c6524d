package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/premOFbounteous/backFinal/internal/repository"
	"github.com/premOFbounteous/backFinal/internal/search"
)

var allowedSortFields = map[string]bool{
	"price":  true,
	"rating": true,
	"title":  true,
	"id":     true,
}

type ListParams struct {
	Page     int64
	Limit    int64
	Category string
	Sort     string
}

type ProductPage struct {
	Total    int64            `json:"total"`
	Page     int64            `json:"page"`
	Limit    int64            `json:"limit"`
	Pages    int64            `json:"pages"`
	Products []domain.Product `json:"products"`
}

type SemanticResult struct {
	Result   string           `json:"result"`
	Detail   string           `json:"detail,omitempty"`
	Products []domain.Product `json:"products,omitempty"`
}

type ProductService struct {
	products  repository.ProductRepository
	relevance search.RelevanceClient
}

func NewProductService(products repository.ProductRepository, relevance search.RelevanceClient) *ProductService {
	return &ProductService{products: products, relevance: relevance}
}

func (s *ProductService) List(ctx context.Context, params ListParams) (*ProductPage, error) {
	page, limit := clampPaging(params.Page, params.Limit)

	sortField, sortOrder := "id", 1
	if sort := strings.TrimSpace(params.Sort); sort != "" {
		if strings.HasPrefix(sort, "-") {
			sortField = sort[1:]
			sortOrder = -1
		} else {
			sortField = sort
		}
		if !allowedSortFields[sortField] {
			return nil, &InvalidStateError{Detail: fmt.Sprintf("Invalid sort field '%s'", sortField)}
		}
	}

	products, total, err := s.products.List(ctx, repository.ProductQuery{
		Category:  params.Category,
		SortField: sortField,
		SortOrder: sortOrder,
		Skip:      (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Total:    total,
		Page:     page,
		Limit:    limit,
		Pages:    totalPages(total, limit),
		Products: products,
	}, nil
}

func (s *ProductService) Get(ctx context.Context, productID int64) (*domain.Product, error) {
	product, err := s.products.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, &NotFoundError{Detail: fmt.Sprintf("Product %d not found", productID)}
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) SearchText(ctx context.Context, searchStr string, page, limit int64) (*ProductPage, error) {
	if searchStr == "" {
		return nil, &ValidationError{Detail: "Field 'search_str' min_length=1"}
	}

	page, limit = clampPaging(page, limit)
	products, total, err := s.products.SearchText(ctx, searchStr, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Total:    total,
		Page:     page,
		Limit:    limit,
		Pages:    totalPages(total, limit),
		Products: products,
	}, nil
}

// SemanticSearch hands the query and a compact catalog listing to the
// relevance collaborator and resolves the titles it picks back to products.
func (s *ProductService) SemanticSearch(ctx context.Context, searchStr string) (*SemanticResult, error) {
	if searchStr == "" {
		return nil, &ValidationError{Detail: "Field 'search_str' min_length=1"}
	}

	catalog, err := s.products.CatalogSummaries(ctx)
	if err != nil {
		return nil, err
	}

	titles, err := s.relevance.MatchTitles(ctx, searchStr, catalog)
	if err != nil {
		return nil, &UpstreamError{Detail: "Relevance search failed", Err: err}
	}
	if len(titles) == 0 {
		return &SemanticResult{Result: "No match found"}, nil
	}

	products, err := s.products.FindByTitles(ctx, titles)
	if err != nil {
		return nil, err
	}
	result := strings.Join(titles, ", ")
	if len(products) == 0 {
		return &SemanticResult{Result: result, Detail: "No products found in ecommerce collection"}, nil
	}

	return &SemanticResult{Result: result, Products: products}, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

func clampPaging(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func totalPages(total, limit int64) int64 {
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return pages
}
