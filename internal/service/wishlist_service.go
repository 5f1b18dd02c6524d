package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/premOFbounteous/backFinal/internal/repository"
)

type WishlistService struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
}

func NewWishlistService(wishlists repository.WishlistRepository, products repository.ProductRepository) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products}
}

func (s *WishlistService) Add(ctx context.Context, userID string, productID int64) error {
	if productID == 0 {
		return &InvalidStateError{Detail: "Product ID is required"}
	}

	if _, err := s.products.FindByProductID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return &NotFoundError{Detail: "Product not found"}
		}
		return fmt.Errorf("failed to load product %d: %w", productID, err)
	}

	return s.wishlists.AddItem(ctx, userID, productID)
}

// List resolves wishlist ids to live products. An id whose product has since
// been deleted is dropped rather than surfaced as an error.
func (s *WishlistService) List(ctx context.Context, userID string) ([]domain.Product, error) {
	wishlist, err := s.wishlists.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrWishlistNotFound) {
			return []domain.Product{}, nil
		}
		return nil, err
	}
	if len(wishlist.Items) == 0 {
		return []domain.Product{}, nil
	}

	products, err := s.products.FindByProductIDs(ctx, wishlist.Items)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID string, productID int64) error {
	if productID == 0 {
		return &InvalidStateError{Detail: "Product ID is required"}
	}
	return s.wishlists.RemoveItem(ctx, userID, productID)
}
