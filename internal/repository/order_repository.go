package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/premOFbounteous/backFinal/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderNotPending means no order matched both the id and the pending
	// status: either the id is unknown or a previous delivery already
	// finalized it. Callers treat the latter as an idempotent no-op.
	ErrOrderNotPending = errors.New("no pending order with this id")
)

type OrderRepository interface {
	InsertPending(ctx context.Context, order *domain.Order) (string, error)
	ClaimPending(ctx context.Context, orderID, sessionID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{collection: db.Collection("orders")}
}

// InsertPending records the order before payment confirmation. Stock is not
// touched here; a pending order never reserves inventory.
func (r *orderRepository) InsertPending(ctx context.Context, order *domain.Order) (string, error) {
	order.Status = domain.OrderStatusPending
	order.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return "", fmt.Errorf("failed to insert pending order: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

// ClaimPending atomically transitions a pending order to paid, recording the
// gateway session id. The status predicate in the filter is the idempotency
// guard: a duplicate webhook delivery finds no pending order and gets
// ErrOrderNotPending.
func (r *orderRepository) ClaimPending(ctx context.Context, orderID, sessionID string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	filter := bson.M{"_id": oid, "status": domain.OrderStatusPending}
	update := bson.M{"$set": bson.M{
		"status":            domain.OrderStatusPaid,
		"stripe_session_id": sessionID,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order domain.Order
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotPending
		}
		return nil, fmt.Errorf("failed to claim pending order %s: %w", orderID, err)
	}

	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var orders []domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}
