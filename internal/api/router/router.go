package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/directauto/lead-intake/internal/http/middleware"
	"github.com/directauto/lead-intake/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	IntakeHandler      http.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-IP limits on the public intake route; zero disables limiting.
	RateLimitPerSecond int
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.IntakeHandler != nil {
		// The intake handler owns its own method dispatch so that the
		// serverless deployment behaves identically; register the route
		// for every verb and let the handler answer 405 itself.
		r.Group(func(leads chi.Router) {
			if cfg.RateLimitPerSecond > 0 {
				leads.Use(httpmiddleware.RateLimit(float64(cfg.RateLimitPerSecond), cfg.RateLimitBurst))
			}
			leads.Handle("/leads", cfg.IntakeHandler)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
