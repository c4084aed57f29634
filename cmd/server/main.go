package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/config"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/coupon"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/event"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/handlers"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/history"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/middleware"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/pricing"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/repository"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/service"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/storage"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/view"
	"github.com/vitaminvy/IE104-Restaurant-sub000/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"store_backend", cfg.Store.Backend,
	)

	ctx := context.Background()
	checks := map[string]handlers.Pinger{}

	// Coupon table: built-in codes plus any configured CSV sources
	couponTable := coupon.NewTable(coupon.DefaultCoupons()...)
	if len(cfg.Coupon.Files) > 0 {
		if err := couponTable.LoadFromFiles(ctx, cfg.Coupon.Files); err != nil {
			log.Error("failed to load coupon files", "error", err)
			os.Exit(1)
		}
	}
	if len(cfg.Coupon.URLs) > 0 {
		if err := couponTable.LoadFromURLs(ctx, cfg.Coupon.URLs); err != nil {
			log.Error("failed to load coupon urls", "error", err)
			os.Exit(1)
		}
	}
	stats := couponTable.Stats()
	log.Info("coupon table ready",
		"total_coupons", stats["total_coupons"],
		"sources", stats["sources"],
	)

	// Key-value backend for carts, coupons and order history
	var kv storage.KV
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		defer client.Close()

		store := storage.NewRedis(client, cfg.Store.StoreTTL())
		if err := store.Ping(ctx); err != nil {
			log.Error("failed to connect to redis", "addr", cfg.Store.RedisAddr, "error", err)
			os.Exit(1)
		}
		checks["redis"] = store.Ping
		kv = store
	default:
		kv = storage.NewMemory()
	}

	// Order history: Postgres when configured, otherwise the key-value backend
	histories := service.KVHistoryFactory(log)
	if cfg.Orders.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.Orders.DatabaseURL)
		if err != nil {
			log.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := history.EnsureSchema(ctx, pool); err != nil {
			log.Error("failed to prepare order history schema", "error", err)
			os.Exit(1)
		}
		checks["postgres"] = pool.Ping
		histories = service.PostgresHistoryFactory(pool)
		log.Info("order history stored in postgres")
	}

	// Order events
	var publisher event.Publisher = event.NopPublisher{}
	if len(cfg.Orders.KafkaBrokers) > 0 {
		publisher = event.NewKafkaPublisher(
			event.NewKafkaWriter(cfg.Orders.KafkaBrokers, cfg.Orders.KafkaTopic),
			log,
		)
		log.Info("publishing order events", "brokers", cfg.Orders.KafkaBrokers, "topic", cfg.Orders.KafkaTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("failed to close event publisher", "error", err)
		}
	}()

	// Initialize repositories and services
	productRepo := repository.NewInMemoryProductRepository()
	catalog := view.NewCatalog()
	engine := pricing.NewEngine(cfg.Pricing.ShippingFee)
	sessions := service.NewSessions(kv, couponTable, histories, log)

	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(sessions, productRepo, engine, view.NewBuilder(catalog), log)
	orderService := service.NewOrderService(sessions, engine, publisher, cfg.Orders.PublicBaseURL, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log, checks)
	productHandler := handlers.NewProductHandler(productService, log)
	couponHandler := handlers.NewCouponHandler(couponTable, log)
	cartHandler := handlers.NewCartHandler(cartService, catalog, log)
	orderHandler := handlers.NewOrderHandler(orderService, catalog, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token", middleware.APIKeyHeader, handlers.SessionHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Menu
		r.Get("/product", productHandler.ListProducts)
		r.Get("/product/{productId}", productHandler.GetProduct)

		// Coupon lookups
		r.Get("/coupon/stats", couponHandler.GetStats)
		r.Get("/coupon/{couponCode}", couponHandler.ValidateCoupon)

		// Cart
		r.Get("/cart", cartHandler.GetCart)
		r.Delete("/cart", cartHandler.ClearCart)
		r.Post("/cart/items", cartHandler.AddItem)
		r.Put("/cart/items/{productId}", cartHandler.UpdateItem)
		r.Delete("/cart/items/{productId}", cartHandler.RemoveItem)
		r.Post("/cart/coupon", cartHandler.ApplyCoupon)
		r.Delete("/cart/coupon", cartHandler.RemoveCoupon)
		r.Get("/checkout", cartHandler.Checkout)

		// Orders
		r.With(middleware.APIKeyAuth(cfg.Auth)).Post("/order", orderHandler.PlaceOrder)
		r.Get("/orders", orderHandler.ListOrders)
		r.Get("/orders/{orderId}", orderHandler.GetOrder)
		r.Get("/orders/{orderId}/qr", orderHandler.OrderQR)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("server failed", "error", err)
		return
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}

	log.Info("server stopped gracefully")
}
