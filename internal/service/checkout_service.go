package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/premOFbounteous/backFinal/internal/metrics"
	"github.com/premOFbounteous/backFinal/internal/payment"
	"github.com/premOFbounteous/backFinal/internal/repository"
)

// CheckoutService turns a validated cart into a pending order plus a hosted
// payment page URL. Stock is only debited later, when the payment webhook
// confirms the charge, so an abandoned checkout never reserves inventory.
type CheckoutService struct {
	users    repository.UserRepository
	carts    repository.CartRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	gateway  payment.Gateway
}

func NewCheckoutService(
	users repository.UserRepository,
	carts repository.CartRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	gateway payment.Gateway,
) *CheckoutService {
	return &CheckoutService{
		users:    users,
		carts:    carts,
		products: products,
		orders:   orders,
		gateway:  gateway,
	}
}

func (s *CheckoutService) InitiateCheckout(ctx context.Context, userID, addressID string) (string, error) {
	if addressID == "" {
		metrics.CheckoutsInitiated.WithLabelValues("rejected").Inc()
		return "", &ValidationError{Detail: "addressId is required"}
	}

	user, address, err := s.users.FindAddress(ctx, userID, addressID)
	if err != nil {
		metrics.CheckoutsInitiated.WithLabelValues("rejected").Inc()
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", &NotFoundError{Detail: "User not found"}
		}
		if errors.Is(err, repository.ErrAddressNotFound) {
			return "", &NotFoundError{Detail: "Address not found for this user"}
		}
		return "", fmt.Errorf("failed to resolve shipping address: %w", err)
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return "", fmt.Errorf("failed to load cart: %w", err)
	}
	if err != nil || len(cart.Items) == 0 {
		metrics.CheckoutsInitiated.WithLabelValues("rejected").Inc()
		return "", &InvalidStateError{Detail: "Cart is empty"}
	}

	// Validate every line against the live catalog and snapshot it. The first
	// failing line aborts the whole checkout; no partial order is created.
	orderItems := make([]domain.OrderItem, 0, len(cart.Items))
	lineItems := make([]payment.LineItem, 0, len(cart.Items))
	var total float64

	for _, item := range cart.Items {
		product, err := s.products.FindByProductID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				metrics.CheckoutsInitiated.WithLabelValues("rejected").Inc()
				return "", &NotFoundError{Detail: fmt.Sprintf("Product %d not found", item.ProductID)}
			}
			return "", fmt.Errorf("failed to load product %d: %w", item.ProductID, err)
		}
		if product.Stock < item.Quantity {
			metrics.CheckoutsInitiated.WithLabelValues("rejected").Inc()
			return "", &InsufficientStockError{Title: product.Title, Left: product.Stock}
		}

		total += product.Price * float64(item.Quantity)
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: product.ProductID,
			Title:     product.Title,
			Price:     product.Price,
			Quantity:  item.Quantity,
			Thumbnail: product.Thumbnail,
		})
		lineItems = append(lineItems, payment.LineItem{
			Name:       product.Title,
			UnitAmount: int64(math.Round(product.Price * 100)),
			Quantity:   int64(item.Quantity),
		})
	}

	order := &domain.Order{
		UserID:          userID,
		Items:           orderItems,
		Total:           total,
		ShippingAddress: *address,
	}
	orderID, err := s.orders.InsertPending(ctx, order)
	if err != nil {
		metrics.CheckoutsInitiated.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("failed to create pending order: %w", err)
	}

	// The order id rides along as correlation metadata and comes back in the
	// completion webhook.
	session, err := s.gateway.CreateSession(ctx, lineItems, orderID, user.Email)
	if err != nil || session.URL == "" {
		// The pending order stays behind on purpose: it never debits stock,
		// and the customer can simply retry checkout.
		log.Printf("checkout: gateway session failed for order %s: %v", orderID, err)
		metrics.CheckoutsInitiated.WithLabelValues("failed").Inc()
		return "", &UpstreamError{Detail: "Could not create Stripe session", Err: err}
	}

	metrics.CheckoutsInitiated.WithLabelValues("ok").Inc()
	return session.URL, nil
}
