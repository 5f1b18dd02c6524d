package repository

import (
	"context"
	"testing"

	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupTestDB(t *testing.T) (*mongo.Database, func()) {
	if testing.Short() {
		t.Skip("skipping container-backed repository tests in short mode")
	}

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return db, cleanup
}

func TestCartRepository_GetCart_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCartRepository(db)
	cart, err := repo.GetCart(context.Background(), "nonexistent")

	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestCartRepository_UpsertAndClear(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepository(db)

	err := repo.UpsertItems(ctx, "user123", []domain.CartItem{{ProductID: 1, Quantity: 3}})
	require.NoError(t, err)

	cart, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// Upsert replaces the whole item list.
	err = repo.UpsertItems(ctx, "user123", []domain.CartItem{
		{ProductID: 1, Quantity: 5},
		{ProductID: 2, Quantity: 1},
	})
	require.NoError(t, err)

	cart, err = repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)

	// Clearing empties items but keeps the document.
	require.NoError(t, repo.ClearItems(ctx, "user123"))
	cart, err = repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartRepository_ClearMissingCartIsNoError(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCartRepository(db)
	assert.NoError(t, repo.ClearItems(context.Background(), "ghost"))
}

func TestOrderRepository_ClaimPending_Idempotency(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewOrderRepository(db)

	orderID, err := repo.InsertPending(ctx, &domain.Order{
		UserID: "user123",
		Items:  []domain.OrderItem{{ProductID: 1, Title: "Phone", Price: 10, Quantity: 2}},
		Total:  20,
	})
	require.NoError(t, err)

	// First claim wins.
	order, err := repo.ClaimPending(ctx, orderID, "cs_123")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.Equal(t, "cs_123", order.StripeSessionID)

	// Second claim finds no pending order.
	_, err = repo.ClaimPending(ctx, orderID, "cs_123")
	assert.ErrorIs(t, err, ErrOrderNotPending)
}

func TestOrderRepository_ClaimPending_BadID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(db)

	_, err := repo.ClaimPending(context.Background(), "not-a-hex-id", "cs_123")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestProductRepository_DecrementStock(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepository(db)

	require.NoError(t, repo.Insert(ctx, &domain.Product{ProductID: 1, Title: "Phone", Price: 10, Stock: 5}))

	require.NoError(t, repo.DecrementStock(ctx, 1, 3))
	product, err := repo.FindByProductID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, product.Stock)

	// The debit is unconditional: stock can go negative.
	require.NoError(t, repo.DecrementStock(ctx, 1, 5))
	product, err = repo.FindByProductID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, -3, product.Stock)
}

func TestProductRepository_NextProductID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepository(db)

	id, err := repo.NextProductID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.NoError(t, repo.Insert(ctx, &domain.Product{ProductID: 41, Title: "Widget"}))

	id, err = repo.NextProductID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestProductRepository_UpdateScopedToVendor(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepository(db)

	require.NoError(t, repo.Insert(ctx, &domain.Product{ProductID: 1, Title: "Theirs", VendorID: "vendor-a"}))

	err := repo.Update(ctx, "vendor-b", 1, map[string]interface{}{"title": "Mine"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	require.NoError(t, repo.Update(ctx, "vendor-a", 1, map[string]interface{}{"title": "Renamed"}))
	product, err := repo.FindByProductID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", product.Title)
}

func TestProductRepository_SearchText(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepository(db)

	require.NoError(t, repo.Insert(ctx, &domain.Product{ProductID: 1, Title: "iPhone 15", Description: "A phone"}))
	require.NoError(t, repo.Insert(ctx, &domain.Product{ProductID: 2, Title: "Charger", Description: "Works with any iPhone"}))
	require.NoError(t, repo.Insert(ctx, &domain.Product{ProductID: 3, Title: "Desk Lamp", Description: "Lights up"}))

	// Case-insensitive match over title or description.
	products, total, err := repo.SearchText(ctx, "iphone", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)
}

func TestOutboxRepository_RoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewOutboxRepository(db)

	require.NoError(t, repo.Insert(ctx, &OutboxEvent{
		AggregateID: "order-1",
		EventType:   "order.paid",
		Payload:     []byte(`{"order_id":"order-1"}`),
	}))

	events, err := repo.GetUnprocessed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NoError(t, repo.MarkProcessed(ctx, events[0].ID))

	events, err = repo.GetUnprocessed(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestWishlistRepository_AddIsSetLike(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewWishlistRepository(db)

	require.NoError(t, repo.AddItem(ctx, "user123", 1))
	require.NoError(t, repo.AddItem(ctx, "user123", 1))
	require.NoError(t, repo.AddItem(ctx, "user123", 2))

	wishlist, err := repo.Get(ctx, "user123")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, wishlist.Items)

	require.NoError(t, repo.RemoveItem(ctx, "user123", 1))
	wishlist, err = repo.Get(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, wishlist.Items)
}
