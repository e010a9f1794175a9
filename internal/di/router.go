package di

import (
	"net/http"
	"time"

	"inventory-api/internal/config"
	"inventory-api/internal/handlers"
	"inventory-api/internal/infrastructure/observability"
	"inventory-api/internal/middleware"
	"inventory-api/pkg/api"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Service       string  `json:"service"`
	Environment   string  `json:"environment"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// setupRouter provides the HTTP router with all handlers.
func setupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	itemHandler *handlers.ItemHandler,
	collector *observability.Collector,
	coldStart *ColdStartTracker,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - applied to all routes
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	if cfg.TracingEnabled {
		r.Use(observability.TracingMiddleware(cfg.ProjectName))
	}
	if cfg.MetricsEnabled {
		r.Use(observability.MetricsMiddleware(collector))
	}
	r.Use(middleware.Logger(logger))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if coldStart.Observe() {
				logger.Info("First request since start", zap.Duration("since_start", coldStart.Uptime()))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Use(middleware.Recovery(logger))
	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.Limit(cfg.RateLimitPerMinute, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				api.Error(w, http.StatusTooManyRequests, "Too many requests")
			}),
		))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Api-Key", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'",
		IsDevelopment:         !cfg.IsProduction(),
	}).Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout, logger))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, HealthResponse{
			Status:        "healthy",
			Service:       cfg.ProjectName,
			Environment:   string(cfg.Environment),
			UptimeSeconds: coldStart.Uptime().Seconds(),
		})
	})
	if cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	// Item routes; the circuit breaker protects against a failing store.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CircuitBreaker(middleware.DefaultCircuitBreakerConfig("item-routes"), logger))
		itemHandler.Routes(r)
	})

	return r
}
