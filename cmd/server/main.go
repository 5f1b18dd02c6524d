package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/premOFbounteous/backFinal/internal/auth"
	"github.com/premOFbounteous/backFinal/internal/cache"
	apphttp "github.com/premOFbounteous/backFinal/internal/http"
	"github.com/premOFbounteous/backFinal/internal/payment"
	"github.com/premOFbounteous/backFinal/internal/publisher"
	"github.com/premOFbounteous/backFinal/internal/repository"
	"github.com/premOFbounteous/backFinal/internal/search"
	"github.com/premOFbounteous/backFinal/internal/service"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("server starting...")
	var wg sync.WaitGroup

	// Configuration
	httpPort := getEnv("HTTP_PORT", "8080")
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDBName := getEnv("MONGO_DB_NAME", "ecommerce")
	kafkaBrokers := getEnv("KAFKA_BROKERS", "localhost:9092")
	jwtSecret := getEnv("JWT_SECRET", "dev-secret-change-me")
	stripeAPIKey := getEnv("STRIPE_API_KEY", "")
	stripeWebhookSecret := getEnv("STRIPE_WEBHOOK_SECRET", "")
	stripeSuccessURL := getEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/checkout/success")
	stripeCancelURL := getEnv("STRIPE_CANCEL_URL", "http://localhost:3000/checkout/cancel")
	searchEndpoint := getEnv("SEARCH_ENDPOINT", "")
	searchAPIKey := getEnv("SEARCH_API_KEY", "")
	searchModel := getEnv("SEARCH_MODEL", "gemini-2.0-flash")

	// Set up MongoDB connection
	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, mongoURI, mongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", mongoURI)

	// Repositories
	userRepo := repository.NewUserRepository(mongoDB)
	vendorRepo := repository.NewVendorRepository(mongoDB)
	productRepo := repository.NewProductRepository(mongoDB)
	cartRepo := repository.NewCartRepository(mongoDB)
	orderRepo := repository.NewOrderRepository(mongoDB)
	wishlistRepo := repository.NewWishlistRepository(mongoDB)
	outboxRepo := repository.NewOutboxRepository(mongoDB)
	txRunner := repository.NewTxRunner(mongoDB)

	if indexed, ok := cartRepo.(interface{ CreateIndexes(context.Context) error }); ok {
		if err := indexed.CreateIndexes(ctx); err != nil {
			log.Fatalf("Failed to create cart indexes: %v", err)
		}
	}

	// Redis cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")
	cartCache := cache.NewRedisCache(redisClient)

	// Collaborators
	tokens := auth.NewTokenManager(jwtSecret)
	gateway := payment.NewStripeGateway(stripeAPIKey, stripeWebhookSecret, stripeSuccessURL, stripeCancelURL)
	relevance := search.NewHTTPClient(searchEndpoint, searchAPIKey, searchModel)

	// Services
	userService := service.NewUserService(userRepo, tokens)
	vendorService := service.NewVendorService(vendorRepo, productRepo, tokens)
	productService := service.NewProductService(productRepo, relevance)
	cartService := service.NewCartService(cartRepo, productRepo, cartCache)
	checkoutService := service.NewCheckoutService(userRepo, cartRepo, productRepo, orderRepo, gateway)
	finalizerService := service.NewFinalizerService(gateway, txRunner, orderRepo, productRepo, cartRepo, outboxRepo)
	orderService := service.NewOrderService(orderRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)

	// Outbox poller publishes committed order events to Kafka
	poller := publisher.NewOutboxPoller(outboxRepo, strings.Split(kafkaBrokers, ",")...)
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(pollerCtx)
	}()

	router := apphttp.NewRouter(apphttp.Handlers{
		Users:    apphttp.NewUserHandler(userService),
		Vendors:  apphttp.NewVendorHandler(vendorService),
		Products: apphttp.NewProductHandler(productService),
		Cart:     apphttp.NewCartHandler(cartService),
		Checkout: apphttp.NewCheckoutHandler(checkoutService),
		Webhook:  apphttp.NewWebhookHandler(finalizerService),
		Orders:   apphttp.NewOrderHandler(orderService),
		Wishlist: apphttp.NewWishlistHandler(wishlistService),
		Tokens:   tokens,
	})

	server := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", httpPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	pollerCancel()
	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		log.Println("Outbox poller stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("Outbox poller didn't stop in time")
	}

	poller.Close()
	mongoDB.Client().Disconnect(ctx)
	log.Println("Server stopped")
}
