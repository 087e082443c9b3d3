package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/nsreg/internal/registry"
	"golang.org/x/time/rate"
)

// Config holds the server's tunables.
type Config struct {
	// RateLimit is the sustained number of requests per second. Zero or
	// less disables rate limiting.
	RateLimit float64
	// RateBurst is the maximum burst size.
	RateBurst int
}

// Server serves the registry inspection API.
type Server struct {
	reg      *registry.Registry
	gatherer prometheus.Gatherer
	config   Config
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// New creates a Server for reg. gatherer backs the /metrics route; a nil
// gatherer disables it.
func New(reg *registry.Registry, gatherer prometheus.Gatherer, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		reg:      reg,
		gatherer: gatherer,
		config:   cfg,
		logger:   logger,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.rateLimitMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/health", s.health)
	r.Route("/modules", func(r chi.Router) {
		r.Get("/", s.listModules)
		r.Get("/{name}", s.getModule)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
