package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/premOFbounteous/backFinal/internal/auth"
	"github.com/premOFbounteous/backFinal/internal/metrics"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Users    *UserHandler
	Vendors  *VendorHandler
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Webhook  *WebhookHandler
	Orders   *OrderHandler
	Wishlist *WishlistHandler
	Tokens   *auth.TokenManager
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// The Stripe webhook verifies its own signature and needs the body raw,
	// so it stays outside the auth groups.
	r.Post("/cart/webhook/stripe", h.Webhook.HandleStripeEvent)

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", h.Users.Register)
		r.Post("/login", h.Users.Login)
		r.Post("/refresh", h.Users.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.Tokens))
			r.Get("/profile", h.Users.Profile)
			r.Get("/addresses", h.Users.ListAddresses)
			r.Post("/addresses", h.Users.AddAddress)
			r.Put("/addresses/{addressId}", h.Users.UpdateAddress)
			r.Delete("/addresses/{addressId}", h.Users.RemoveAddress)
		})
	})

	r.Route("/vendors", func(r chi.Router) {
		r.Post("/register", h.Vendors.Register)
		r.Post("/login", h.Vendors.Login)
		r.Post("/refresh", h.Vendors.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(VendorAuthMiddleware(h.Tokens))
			r.Get("/products", h.Vendors.ListProducts)
			r.Post("/products", h.Vendors.AddProduct)
			r.Put("/products/{product_id}", h.Vendors.UpdateProduct)
			r.Delete("/products/{product_id}", h.Vendors.DeleteProduct)
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Products.List)
		r.Get("/normal-search", h.Products.SearchText)
		r.Get("/search", h.Products.SemanticSearch)
		r.Get("/{product_id}", h.Products.Get)
	})

	r.Get("/categories", h.Products.Categories)

	r.Route("/cart", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.Tokens))
			r.Get("/", h.Cart.GetCart)
			r.Post("/add", h.Cart.AddItem)
			r.Post("/checkout", h.Checkout.InitiateCheckout)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(h.Tokens))
		r.Get("/orders", h.Orders.List)
		r.Post("/wishlist/add", h.Wishlist.Add)
		r.Get("/wishlist", h.Wishlist.List)
		r.Post("/wishlist/remove", h.Wishlist.Remove)
	})

	return r
}
