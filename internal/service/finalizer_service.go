package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/premOFbounteous/backFinal/internal/metrics"
	"github.com/premOFbounteous/backFinal/internal/payment"
	"github.com/premOFbounteous/backFinal/internal/repository"
)

// OrderPaidEvent is the outbox payload published to Kafka after finalization.
type OrderPaidEvent struct {
	OrderID     string             `json:"order_id"`
	UserID      string             `json:"user_id"`
	Items       []domain.OrderItem `json:"items"`
	Total       float64            `json:"total"`
	SessionID   string             `json:"session_id"`
	FinalizedAt time.Time          `json:"finalized_at"`
}

// FinalizerService is the single place where a payment confirmation becomes
// durable state: order marked paid, stock debited, cart emptied. All three
// happen in one transaction or not at all, and duplicate deliveries of the
// same event are no-ops thanks to the pending-status claim.
type FinalizerService struct {
	gateway  payment.Gateway
	tx       repository.TxRunner
	orders   repository.OrderRepository
	products repository.ProductRepository
	carts    repository.CartRepository
	outbox   repository.OutboxRepository
}

func NewFinalizerService(
	gateway payment.Gateway,
	tx repository.TxRunner,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	carts repository.CartRepository,
	outbox repository.OutboxRepository,
) *FinalizerService {
	return &FinalizerService{
		gateway:  gateway,
		tx:       tx,
		orders:   orders,
		products: products,
		carts:    carts,
		outbox:   outbox,
	}
}

func (s *FinalizerService) HandleEvent(ctx context.Context, rawPayload []byte, sigHeader string) error {
	// Signature first, before any of the payload is parsed.
	event, err := s.gateway.VerifyEvent(rawPayload, sigHeader)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("rejected").Inc()
		if errors.Is(err, payment.ErrInvalidSignature) {
			return &AuthenticationError{Detail: "Invalid webhook signature"}
		}
		return &ValidationError{Detail: "Malformed webhook payload"}
	}

	if event.Type != payment.EventCheckoutCompleted {
		metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		return nil
	}

	if event.OrderID == "" {
		metrics.WebhookEvents.WithLabelValues("rejected").Inc()
		return &ValidationError{Detail: "Missing orderId in session metadata"}
	}

	var finalized *domain.Order
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		order, err := s.orders.ClaimPending(txCtx, event.OrderID, event.SessionID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotPending) {
				// Unknown id or already finalized by an earlier delivery.
				// Acknowledge so the gateway stops retrying.
				return nil
			}
			return err
		}

		for _, item := range order.Items {
			if err := s.products.DecrementStock(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		// The cart may have changed since checkout; it is emptied regardless.
		if err := s.carts.ClearItems(txCtx, order.UserID); err != nil {
			return err
		}

		payload, err := json.Marshal(OrderPaidEvent{
			OrderID:     order.ID.Hex(),
			UserID:      order.UserID,
			Items:       order.Items,
			Total:       order.Total,
			SessionID:   event.SessionID,
			FinalizedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal order.paid event: %w", err)
		}
		if err := s.outbox.Insert(txCtx, &repository.OutboxEvent{
			AggregateID: order.ID.Hex(),
			EventType:   "order.paid",
			Payload:     payload,
		}); err != nil {
			return err
		}

		finalized = order
		return nil
	})
	if err != nil {
		// Rolled back; a non-2xx response makes the gateway redeliver.
		metrics.WebhookEvents.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to finalize order %s: %w", event.OrderID, err)
	}

	if finalized == nil {
		log.Printf("finalizer: order %s not pending, treating delivery as duplicate", event.OrderID)
		metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
		return nil
	}

	log.Printf("finalizer: order %s paid, %d line items debited", finalized.ID.Hex(), len(finalized.Items))
	metrics.WebhookEvents.WithLabelValues("finalized").Inc()
	return nil
}
