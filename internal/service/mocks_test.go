package service

import (
	"context"
	"strings"

	"github.com/premOFbounteous/backFinal/internal/cache"
	"github.com/premOFbounteous/backFinal/internal/domain"
	"github.com/premOFbounteous/backFinal/internal/payment"
	"github.com/premOFbounteous/backFinal/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mockUserRepo implements repository.UserRepository for testing
type mockUserRepo struct {
	users map[string]*domain.User // keyed by user_id
	err   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*domain.User{}}
}

func (m *mockUserRepo) Insert(_ context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindByUserID(_ context.Context, userID string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindAddress(ctx context.Context, userID, addressID string) (*domain.User, *domain.Address, error) {
	user, err := m.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	for i := range user.Addresses {
		if user.Addresses[i].ID.Hex() == addressID {
			return user, &user.Addresses[i], nil
		}
	}
	return nil, nil, repository.ErrAddressNotFound
}

func (m *mockUserRepo) AddAddress(ctx context.Context, userID string, address domain.Address) error {
	user, err := m.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	user.Addresses = append(user.Addresses, address)
	return nil
}

func (m *mockUserRepo) UpdateAddress(ctx context.Context, userID, addressID string, address domain.Address) error {
	user, err := m.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	for i := range user.Addresses {
		if user.Addresses[i].ID.Hex() == addressID {
			address.ID = user.Addresses[i].ID
			address.IsDefault = user.Addresses[i].IsDefault
			user.Addresses[i] = address
			return nil
		}
	}
	return repository.ErrAddressNotFound
}

func (m *mockUserRepo) RemoveAddress(ctx context.Context, userID, addressID string) error {
	user, err := m.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	kept := user.Addresses[:0]
	for _, a := range user.Addresses {
		if a.ID.Hex() != addressID {
			kept = append(kept, a)
		}
	}
	user.Addresses = kept
	return nil
}

// mockCartRepo implements repository.CartRepository for testing
type mockCartRepo struct {
	carts    map[string]*domain.Cart // keyed by user_id
	getErr   error
	clearErr error
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: map[string]*domain.Cart{}}
}

func (m *mockCartRepo) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	cart, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	cp := *cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	return &cp, nil
}

func (m *mockCartRepo) UpsertItems(_ context.Context, userID string, items []domain.CartItem) error {
	cart, ok := m.carts[userID]
	if !ok {
		cart = &domain.Cart{UserID: userID}
		m.carts[userID] = cart
	}
	cart.Items = items
	return nil
}

func (m *mockCartRepo) ClearItems(_ context.Context, userID string) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	if cart, ok := m.carts[userID]; ok {
		cart.Items = []domain.CartItem{}
	}
	return nil
}

func (m *mockCartRepo) snapshot() func() {
	saved := map[string]*domain.Cart{}
	for k, v := range m.carts {
		cp := *v
		cp.Items = append([]domain.CartItem(nil), v.Items...)
		saved[k] = &cp
	}
	return func() { m.carts = saved }
}

// mockProductRepo implements repository.ProductRepository for testing
type mockProductRepo struct {
	products     map[int64]*domain.Product // keyed by catalog id
	decrementErr error
}

func newMockProductRepo(products ...*domain.Product) *mockProductRepo {
	m := &mockProductRepo{products: map[int64]*domain.Product{}}
	for _, p := range products {
		m.products[p.ProductID] = p
	}
	return m
}

func (m *mockProductRepo) FindByProductID(_ context.Context, productID int64) (*domain.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) FindByProductIDs(_ context.Context, productIDs []int64) ([]domain.Product, error) {
	var found []domain.Product
	for _, id := range productIDs {
		if p, ok := m.products[id]; ok {
			found = append(found, *p)
		}
	}
	return found, nil
}

func (m *mockProductRepo) FindByTitles(_ context.Context, titles []string) ([]domain.Product, error) {
	var found []domain.Product
	for _, title := range titles {
		for _, p := range m.products {
			if p.Title == title {
				found = append(found, *p)
			}
		}
	}
	return found, nil
}

func (m *mockProductRepo) FindByVendor(_ context.Context, vendorID string) ([]domain.Product, error) {
	var found []domain.Product
	for _, p := range m.products {
		if p.VendorID == vendorID {
			found = append(found, *p)
		}
	}
	return found, nil
}

func (m *mockProductRepo) List(_ context.Context, q repository.ProductQuery) ([]domain.Product, int64, error) {
	var all []domain.Product
	for _, p := range m.products {
		if q.Category == "" || p.Category == q.Category {
			all = append(all, *p)
		}
	}
	return all, int64(len(all)), nil
}

func (m *mockProductRepo) SearchText(_ context.Context, searchStr string, _, _ int64) ([]domain.Product, int64, error) {
	var found []domain.Product
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(searchStr)) {
			found = append(found, *p)
		}
	}
	return found, int64(len(found)), nil
}

func (m *mockProductRepo) Categories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var categories []string
	for _, p := range m.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories, nil
}

func (m *mockProductRepo) CatalogSummaries(_ context.Context) ([]domain.ProductSummary, error) {
	var summaries []domain.ProductSummary
	for _, p := range m.products {
		summaries = append(summaries, domain.ProductSummary{
			ProductID: p.ProductID,
			Title:     p.Title,
			Brand:     p.Brand,
			Category:  p.Category,
		})
	}
	return summaries, nil
}

func (m *mockProductRepo) Insert(_ context.Context, product *domain.Product) error {
	m.products[product.ProductID] = product
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, vendorID string, productID int64, fields map[string]interface{}) error {
	p, ok := m.products[productID]
	if !ok || p.VendorID != vendorID {
		return repository.ErrProductNotFound
	}
	if title, ok := fields["title"].(string); ok {
		p.Title = title
	}
	if price, ok := fields["price"].(float64); ok {
		p.Price = price
	}
	if stock, ok := fields["stock"].(int); ok {
		p.Stock = stock
	}
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, vendorID string, productID int64) error {
	p, ok := m.products[productID]
	if !ok || p.VendorID != vendorID {
		return repository.ErrProductNotFound
	}
	delete(m.products, productID)
	return nil
}

func (m *mockProductRepo) NextProductID(_ context.Context) (int64, error) {
	var max int64
	for id := range m.products {
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}

func (m *mockProductRepo) DecrementStock(_ context.Context, productID int64, quantity int) error {
	if m.decrementErr != nil {
		return m.decrementErr
	}
	p, ok := m.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Stock -= quantity
	return nil
}

func (m *mockProductRepo) snapshot() func() {
	saved := map[int64]*domain.Product{}
	for k, v := range m.products {
		cp := *v
		saved[k] = &cp
	}
	return func() { m.products = saved }
}

// mockOrderRepo implements repository.OrderRepository for testing
type mockOrderRepo struct {
	orders    map[string]*domain.Order // keyed by hex id
	insertErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: map[string]*domain.Order{}}
}

func (m *mockOrderRepo) InsertPending(_ context.Context, order *domain.Order) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	order.ID = primitive.NewObjectID()
	order.Status = domain.OrderStatusPending
	cp := *order
	m.orders[order.ID.Hex()] = &cp
	return order.ID.Hex(), nil
}

func (m *mockOrderRepo) ClaimPending(_ context.Context, orderID, sessionID string) (*domain.Order, error) {
	order, ok := m.orders[orderID]
	if !ok || order.Status != domain.OrderStatusPending {
		return nil, repository.ErrOrderNotPending
	}
	order.Status = domain.OrderStatusPaid
	order.StripeSessionID = sessionID
	cp := *order
	return &cp, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) snapshot() func() {
	saved := map[string]*domain.Order{}
	for k, v := range m.orders {
		cp := *v
		saved[k] = &cp
	}
	return func() { m.orders = saved }
}

// mockOutboxRepo implements repository.OutboxRepository for testing
type mockOutboxRepo struct {
	events    []*repository.OutboxEvent
	insertErr error
}

func (m *mockOutboxRepo) Insert(_ context.Context, event *repository.OutboxEvent) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	event.ID = primitive.NewObjectID()
	m.events = append(m.events, event)
	return nil
}

func (m *mockOutboxRepo) GetUnprocessed(_ context.Context, limit int64) ([]*repository.OutboxEvent, error) {
	var unprocessed []*repository.OutboxEvent
	for _, e := range m.events {
		if e.ProcessedAt == nil && int64(len(unprocessed)) < limit {
			unprocessed = append(unprocessed, e)
		}
	}
	return unprocessed, nil
}

func (m *mockOutboxRepo) MarkProcessed(_ context.Context, id primitive.ObjectID) error {
	for _, e := range m.events {
		if e.ID == id {
			now := e.CreatedAt
			e.ProcessedAt = &now
		}
	}
	return nil
}

func (m *mockOutboxRepo) snapshot() func() {
	saved := append([]*repository.OutboxEvent(nil), m.events...)
	return func() { m.events = saved }
}

type snapshotter interface {
	snapshot() func()
}

// mockTxRunner mimics transactional semantics over the in-memory mocks: on a
// callback error every participating mock is restored to its pre-transaction
// state.
type mockTxRunner struct {
	participants []snapshotter
}

func (t *mockTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	restores := make([]func(), 0, len(t.participants))
	for _, p := range t.participants {
		restores = append(restores, p.snapshot())
	}

	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// mockGateway implements payment.Gateway for testing
type mockGateway struct {
	session   *payment.Session
	createErr error
	event     *payment.Event
	verifyErr error

	createdItems   []payment.LineItem
	createdOrderID string
	createdEmail   string
}

func (m *mockGateway) CreateSession(_ context.Context, items []payment.LineItem, orderID, customerEmail string) (*payment.Session, error) {
	m.createdItems = items
	m.createdOrderID = orderID
	m.createdEmail = customerEmail
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.session, nil
}

func (m *mockGateway) VerifyEvent(_ []byte, _ string) (*payment.Event, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.event, nil
}

// mockCartCache implements cache.CartCache for testing
type mockCartCache struct {
	carts   map[string]*domain.Cart
	deletes int
}

func newMockCartCache() *mockCartCache {
	return &mockCartCache{carts: map[string]*domain.Cart{}}
}

func (m *mockCartCache) Get(_ context.Context, userID string) (*domain.Cart, error) {
	if cart, ok := m.carts[userID]; ok {
		return cart, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *mockCartCache) Set(_ context.Context, userID string, cart *domain.Cart) error {
	m.carts[userID] = cart
	return nil
}

func (m *mockCartCache) Delete(_ context.Context, userID string) error {
	m.deletes++
	delete(m.carts, userID)
	return nil
}

// mockRelevanceClient implements search.RelevanceClient for testing
type mockRelevanceClient struct {
	titles []string
	err    error

	query   string
	catalog []domain.ProductSummary
}

func (m *mockRelevanceClient) MatchTitles(_ context.Context, query string, catalog []domain.ProductSummary) ([]string, error) {
	m.query = query
	m.catalog = catalog
	if m.err != nil {
		return nil, m.err
	}
	return m.titles, nil
}

// mockVendorRepo implements repository.VendorRepository for testing
type mockVendorRepo struct {
	vendors map[string]*domain.Vendor // keyed by email
}

func newMockVendorRepo() *mockVendorRepo {
	return &mockVendorRepo{vendors: map[string]*domain.Vendor{}}
}

func (m *mockVendorRepo) Insert(_ context.Context, vendor *domain.Vendor) error {
	m.vendors[vendor.Email] = vendor
	return nil
}

func (m *mockVendorRepo) FindByEmail(_ context.Context, email string) (*domain.Vendor, error) {
	if v, ok := m.vendors[email]; ok {
		return v, nil
	}
	return nil, repository.ErrVendorNotFound
}

// mockWishlistRepo implements repository.WishlistRepository for testing
type mockWishlistRepo struct {
	wishlists map[string]*domain.Wishlist
}

func newMockWishlistRepo() *mockWishlistRepo {
	return &mockWishlistRepo{wishlists: map[string]*domain.Wishlist{}}
}

func (m *mockWishlistRepo) Get(_ context.Context, userID string) (*domain.Wishlist, error) {
	if w, ok := m.wishlists[userID]; ok {
		return w, nil
	}
	return nil, repository.ErrWishlistNotFound
}

func (m *mockWishlistRepo) AddItem(_ context.Context, userID string, productID int64) error {
	w, ok := m.wishlists[userID]
	if !ok {
		w = &domain.Wishlist{UserID: userID}
		m.wishlists[userID] = w
	}
	for _, id := range w.Items {
		if id == productID {
			return nil
		}
	}
	w.Items = append(w.Items, productID)
	return nil
}

func (m *mockWishlistRepo) RemoveItem(_ context.Context, userID string, productID int64) error {
	w, ok := m.wishlists[userID]
	if !ok {
		return nil
	}
	kept := w.Items[:0]
	for _, id := range w.Items {
		if id != productID {
			kept = append(kept, id)
		}
	}
	w.Items = kept
	return nil
}
