package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/santegabon/carto-backend/internal/adapters/cache"
	"github.com/santegabon/carto-backend/internal/adapters/database"
	"github.com/santegabon/carto-backend/internal/adapters/events"
	"github.com/santegabon/carto-backend/internal/adapters/search"
	"github.com/santegabon/carto-backend/internal/api/handlers"
	"github.com/santegabon/carto-backend/internal/api/routes"
	"github.com/santegabon/carto-backend/internal/application/services"
	"github.com/santegabon/carto-backend/internal/domain/providers"
	"github.com/santegabon/carto-backend/internal/domain/repositories"
	"github.com/santegabon/carto-backend/internal/infrastructure/clients/overpass"
	"github.com/santegabon/carto-backend/internal/infrastructure/clients/postgres"
	"github.com/santegabon/carto-backend/internal/infrastructure/clients/redis"
	"github.com/santegabon/carto-backend/internal/infrastructure/clients/typesense"
	"github.com/santegabon/carto-backend/internal/infrastructure/observability"
	"github.com/santegabon/carto-backend/pkg/config"
)

func main() {
	// Load .env if present; real environments configure via the process env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
		typesenseClient = nil
	} else {
		log.Println("Typesense client initialized successfully")
	}

	// Initialize adapters
	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	baseProviderAdapter := database.NewProviderAdapter(pgClient)

	// Wrap with caching if Redis is available
	var providerRepo repositories.ProviderRepository
	if cacheProvider != nil {
		providerRepo = database.NewCachedProviderAdapter(baseProviderAdapter, cacheProvider)
		log.Println("Provider adapter wrapped with caching layer")
	} else {
		providerRepo = baseProviderAdapter
		log.Println("Provider adapter running without cache (Redis unavailable)")
	}

	roleRepo := database.NewRoleAdapter(pgClient)

	var searchRepo repositories.ProviderSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		// Ensure schema exists
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchRepo = adapter
	}

	// Initialize event bus for sync notifications
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Invalidate local caches when another process announces a completed sync
	if eventBus != nil && cacheProvider != nil {
		listener := services.NewSyncListener(eventBus, cacheProvider)
		if err := listener.Start(ctx); err != nil {
			log.Printf("Warning: Failed to start sync listener: %v", err)
		} else {
			log.Println("Sync completion listener started")
		}
	}

	// Initialize services
	fetcher := overpass.NewClient(&cfg.Overpass)
	syncService := services.NewSyncService(fetcher, providerRepo, roleRepo, searchRepo, eventBus, metrics)
	queryService := services.NewQueryService(providerRepo)
	suggestService := services.NewSuggestService(providerRepo, searchRepo)

	// Initialize handlers
	providerHandler := handlers.NewProviderHandler(queryService, suggestService)
	syncHandler := handlers.NewSyncHandler(syncService)

	// Set up router
	router := routes.NewRouter(providerHandler, syncHandler, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
