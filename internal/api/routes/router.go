package routes

import (
	"net/http"

	"github.com/santegabon/carto-backend/internal/api/handlers"
	"github.com/santegabon/carto-backend/internal/api/middleware"
	"github.com/santegabon/carto-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	providerHandler *handlers.ProviderHandler
	syncHandler     *handlers.SyncHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	providerHandler *handlers.ProviderHandler,
	syncHandler *handlers.SyncHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		providerHandler: providerHandler,
		syncHandler:     syncHandler,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Provider endpoints
	r.mux.HandleFunc("GET /api/providers", r.providerHandler.ListProviders)
	r.mux.HandleFunc("GET /api/providers/search", r.providerHandler.SearchProviders)
	r.mux.HandleFunc("GET /api/providers/stats", r.providerHandler.GetStats)
	r.mux.HandleFunc("GET /api/providers/suggest", r.providerHandler.SuggestProviders)
	r.mux.HandleFunc("GET /api/providers/{id}", r.providerHandler.GetProvider)

	// Cartography sync endpoint
	r.mux.HandleFunc("POST /api/cartography/sync", r.syncHandler.TriggerSync)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so every response gets CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
