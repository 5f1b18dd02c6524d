package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/premOFbounteous/backFinal/internal/cache"
	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/premOFbounteous/backFinal/internal/repository"
	"golang.org/x/sync/singleflight"
)

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	cache    cache.CartCache
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, cartCache cache.CartCache) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		cache:    cartCache,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.carts.GetCart(ctx, userID)
		if errGet != nil {
			if errors.Is(errGet, repository.ErrCartNotFound) {
				// A user with no cart yet sees an empty one.
				return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
			}
			return nil, errGet
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := s.cache.Set(setCtx, userID, cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem validates the product and stock, then merges the quantity into the
// user's cart. Adding the same product twice accumulates; the accumulated
// quantity must still be covered by current stock.
func (s *CartService) AddItem(ctx context.Context, userID string, productID int64, quantity int) error {
	if quantity < 1 {
		return &ValidationError{Detail: "quantity must be at least 1"}
	}

	product, err := s.products.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return &NotFoundError{Detail: "Product not found"}
		}
		return fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	if product.Stock < quantity {
		return &InvalidStateError{Detail: fmt.Sprintf("Only %d items left in stock", product.Stock)}
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	var items []domain.CartItem
	if cart != nil {
		items = cart.Items
	}

	merged := false
	for i := range items {
		if items[i].ProductID == productID {
			proposed := items[i].Quantity + quantity
			if product.Stock < proposed {
				return &InvalidStateError{Detail: fmt.Sprintf("Only %d items left in stock", product.Stock)}
			}
			items[i].Quantity = proposed
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, domain.CartItem{ProductID: productID, Quantity: quantity})
	}

	if err := s.carts.UpsertItems(ctx, userID, items); err != nil {
		return err
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
