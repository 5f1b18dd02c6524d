package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/premOFbounteous/backFinal/internal/auth"
	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/premOFbounteous/backFinal/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type VendorRegisterInput struct {
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type VendorLoginResult struct {
	TokenPair
	CompanyName string `json:"companyName"`
	VendorID    string `json:"vendorId"`
}

type ProductInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Brand       string   `json:"brand"`
	Thumbnail   string   `json:"thumbnail"`
	Images      []string `json:"images"`
}

type VendorService struct {
	vendors  repository.VendorRepository
	products repository.ProductRepository
	tokens   *auth.TokenManager
}

func NewVendorService(vendors repository.VendorRepository, products repository.ProductRepository, tokens *auth.TokenManager) *VendorService {
	return &VendorService{vendors: vendors, products: products, tokens: tokens}
}

func (s *VendorService) Register(ctx context.Context, input VendorRegisterInput) (string, error) {
	if input.CompanyName == "" || input.Email == "" || input.Password == "" {
		return "", &ValidationError{Detail: "Company name, email, and password are required"}
	}

	if _, err := s.vendors.FindByEmail(ctx, input.Email); err == nil {
		return "", &InvalidStateError{Detail: "Email is already registered"}
	} else if !errors.Is(err, repository.ErrVendorNotFound) {
		return "", fmt.Errorf("failed to check vendor email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	vendorID := uuid.NewString()
	vendor := &domain.Vendor{
		CompanyName: input.CompanyName,
		Email:       input.Email,
		Password:    string(hashed),
		VendorID:    vendorID,
		CreatedAt:   time.Now(),
	}
	if err := s.vendors.Insert(ctx, vendor); err != nil {
		return "", err
	}
	return vendorID, nil
}

func (s *VendorService) Login(ctx context.Context, email, password string) (*VendorLoginResult, error) {
	if email == "" || password == "" {
		return nil, &ValidationError{Detail: "Email and password are required"}
	}

	vendor, err := s.vendors.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			return nil, &AuthenticationError{Detail: "Invalid credentials"}
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(vendor.Password), []byte(password)) != nil {
		return nil, &AuthenticationError{Detail: "Invalid credentials"}
	}

	pair, err := s.issueTokens(vendor.VendorID)
	if err != nil {
		return nil, err
	}
	return &VendorLoginResult{
		TokenPair:   *pair,
		CompanyName: vendor.CompanyName,
		VendorID:    vendor.VendorID,
	}, nil
}

func (s *VendorService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, &ValidationError{Detail: "refresh_token is required"}
	}

	claims, err := s.tokens.Verify(refreshToken)
	if err != nil || claims.Role != auth.RoleVendor || claims.VendorID == "" {
		return nil, &AuthenticationError{Detail: "Invalid or expired token"}
	}

	return s.issueTokens(claims.VendorID)
}

func (s *VendorService) ListProducts(ctx context.Context, vendorID string) ([]domain.Product, error) {
	products, err := s.products.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *VendorService) AddProduct(ctx context.Context, vendorID string, input ProductInput) (*domain.Product, error) {
	if input.Title == "" || input.Price == 0 || input.Stock == 0 {
		return nil, &ValidationError{Detail: "Title, price, and stock are required"}
	}

	productID, err := s.products.NextProductID(ctx)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ProductID:   productID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		Brand:       input.Brand,
		Thumbnail:   input.Thumbnail,
		Images:      input.Images,
		VendorID:    vendorID,
	}
	if err := s.products.Insert(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *VendorService) UpdateProduct(ctx context.Context, vendorID string, productID int64, input ProductInput) error {
	fields := map[string]interface{}{}
	if input.Title != "" {
		fields["title"] = input.Title
	}
	if input.Description != "" {
		fields["description"] = input.Description
	}
	if input.Category != "" {
		fields["category"] = input.Category
	}
	if input.Price != 0 {
		fields["price"] = input.Price
	}
	if input.Stock != 0 {
		fields["stock"] = input.Stock
	}
	if input.Brand != "" {
		fields["brand"] = input.Brand
	}
	if input.Thumbnail != "" {
		fields["thumbnail"] = input.Thumbnail
	}
	if len(input.Images) > 0 {
		fields["images"] = input.Images
	}
	if len(fields) == 0 {
		return &ValidationError{Detail: "No fields to update"}
	}

	err := s.products.Update(ctx, vendorID, productID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return &NotFoundError{Detail: "Product not found for this vendor"}
		}
		return err
	}
	return nil
}

func (s *VendorService) DeleteProduct(ctx context.Context, vendorID string, productID int64) error {
	err := s.products.Delete(ctx, vendorID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return &NotFoundError{Detail: "Product not found for this vendor"}
		}
		return err
	}
	return nil
}

func (s *VendorService) issueTokens(vendorID string) (*TokenPair, error) {
	access, err := s.tokens.CreateAccessToken("", vendorID, auth.RoleVendor)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.CreateRefreshToken("", vendorID, auth.RoleVendor)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}
