package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/premOFbounteous/backFinal/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type finalizerFixture struct {
	orders   *mockOrderRepo
	products *mockProductRepo
	carts    *mockCartRepo
	outbox   *mockOutboxRepo
	gateway  *mockGateway
	svc      *FinalizerService
	orderID  string
}

// newFinalizerFixture sets up a pending order for user-1 with two line items
// against a seeded catalog and cart.
func newFinalizerFixture(t *testing.T) *finalizerFixture {
	t.Helper()

	orders := newMockOrderRepo()
	products := newMockProductRepo(
		&domain.Product{ProductID: 1, Title: "Phone", Price: 10, Stock: 5},
		&domain.Product{ProductID: 2, Title: "Case", Price: 20, Stock: 3},
	)
	carts := newMockCartRepo()
	carts.carts["user-1"] = &domain.Cart{
		UserID: "user-1",
		Items:  []domain.CartItem{{ProductID: 1, Quantity: 2}},
	}
	outbox := &mockOutboxRepo{}

	orderID, err := orders.InsertPending(context.Background(), &domain.Order{
		UserID: "user-1",
		Items: []domain.OrderItem{
			{ProductID: 1, Title: "Phone", Price: 10, Quantity: 2},
			{ProductID: 2, Title: "Case", Price: 20, Quantity: 1},
		},
		Total: 40,
	})
	require.NoError(t, err)

	gateway := &mockGateway{event: &payment.Event{
		Type:      payment.EventCheckoutCompleted,
		SessionID: "cs_123",
		OrderID:   orderID,
	}}

	tx := &mockTxRunner{participants: []snapshotter{orders, products, carts, outbox}}
	svc := NewFinalizerService(gateway, tx, orders, products, carts, outbox)

	return &finalizerFixture{
		orders:   orders,
		products: products,
		carts:    carts,
		outbox:   outbox,
		gateway:  gateway,
		svc:      svc,
		orderID:  orderID,
	}
}

func TestHandleEvent_FinalizesOrder(t *testing.T) {
	f := newFinalizerFixture(t)

	err := f.svc.HandleEvent(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	order := f.orders.orders[f.orderID]
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.Equal(t, "cs_123", order.StripeSessionID)

	// Stock debited per snapshot quantity, not per current cart.
	assert.Equal(t, 3, f.products.products[1].Stock)
	assert.Equal(t, 2, f.products.products[2].Stock)

	// Cart emptied.
	assert.Empty(t, f.carts.carts["user-1"].Items)

	// One order.paid outbox event referencing the order.
	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, "order.paid", f.outbox.events[0].EventType)
	assert.Equal(t, f.orderID, f.outbox.events[0].AggregateID)

	var event OrderPaidEvent
	require.NoError(t, json.Unmarshal(f.outbox.events[0].Payload, &event))
	assert.Equal(t, f.orderID, event.OrderID)
	assert.Equal(t, 40.0, event.Total)
}

func TestHandleEvent_DuplicateDeliveryIsNoOp(t *testing.T) {
	f := newFinalizerFixture(t)

	require.NoError(t, f.svc.HandleEvent(context.Background(), []byte("{}"), "sig"))
	require.NoError(t, f.svc.HandleEvent(context.Background(), []byte("{}"), "sig"))

	// Stock debited exactly once, one outbox event.
	assert.Equal(t, 3, f.products.products[1].Stock)
	assert.Equal(t, 2, f.products.products[2].Stock)
	assert.Len(t, f.outbox.events, 1)
}

func TestHandleEvent_InvalidSignature(t *testing.T) {
	f := newFinalizerFixture(t)
	f.gateway.verifyErr = payment.ErrInvalidSignature

	err := f.svc.HandleEvent(context.Background(), []byte("{}"), "bad-sig")

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid webhook signature", authErr.Detail)

	// Nothing was touched.
	assert.Equal(t, domain.OrderStatusPending, f.orders.orders[f.orderID].Status)
	assert.Equal(t, 5, f.products.products[1].Stock)
	assert.Empty(t, f.outbox.events)
}

func TestHandleEvent_MalformedPayload(t *testing.T) {
	f := newFinalizerFixture(t)
	f.gateway.verifyErr = errors.New("unexpected end of JSON input")

	err := f.svc.HandleEvent(context.Background(), []byte("not-json"), "sig")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Malformed webhook payload", validation.Detail)
}

func TestHandleEvent_IgnoresOtherEventTypes(t *testing.T) {
	f := newFinalizerFixture(t)
	f.gateway.event = &payment.Event{Type: "payment_intent.created"}

	err := f.svc.HandleEvent(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, f.orders.orders[f.orderID].Status)
}

func TestHandleEvent_MissingOrderID(t *testing.T) {
	f := newFinalizerFixture(t)
	f.gateway.event = &payment.Event{Type: payment.EventCheckoutCompleted, SessionID: "cs_123"}

	err := f.svc.HandleEvent(context.Background(), []byte("{}"), "sig")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Missing orderId in session metadata", validation.Detail)
}

func TestHandleEvent_UnknownOrderIDAcknowledged(t *testing.T) {
	f := newFinalizerFixture(t)
	f.gateway.event.OrderID = primitive.NewObjectID().Hex()

	// Unknown ids are acknowledged like duplicates so the gateway stops
	// retrying a delivery that can never succeed.
	err := f.svc.HandleEvent(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	assert.Equal(t, 5, f.products.products[1].Stock)
	assert.Empty(t, f.outbox.events)
}

func TestHandleEvent_TransactionRollsBackOnFailure(t *testing.T) {
	f := newFinalizerFixture(t)
	f.carts.clearErr = errors.New("network blip")

	err := f.svc.HandleEvent(context.Background(), []byte("{}"), "sig")
	require.Error(t, err)

	// Everything restored: order still pending, stock untouched, no event.
	assert.Equal(t, domain.OrderStatusPending, f.orders.orders[f.orderID].Status)
	assert.Equal(t, 5, f.products.products[1].Stock)
	assert.Equal(t, 3, f.products.products[2].Stock)
	assert.Empty(t, f.outbox.events)

	// A retry after the blip clears succeeds.
	f.carts.clearErr = nil
	require.NoError(t, f.svc.HandleEvent(context.Background(), []byte("{}"), "sig"))
	assert.Equal(t, domain.OrderStatusPaid, f.orders.orders[f.orderID].Status)
}

func TestHandleEvent_StockMayGoNegative(t *testing.T) {
	f := newFinalizerFixture(t)
	// Stock shrank between checkout and payment confirmation.
	f.products.products[1].Stock = 1

	err := f.svc.HandleEvent(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	assert.Equal(t, -1, f.products.products[1].Stock)
	assert.Equal(t, domain.OrderStatusPaid, f.orders.orders[f.orderID].Status)
}
