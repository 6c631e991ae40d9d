// Package api exposes the HTTP interface of the scraping service:
// health probes, Prometheus metrics, the /scrape crawl endpoint, and
// the /generate-pdf renderer.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Blittyyy/interviewiq-scraper/internal/archive"
	"github.com/Blittyyy/interviewiq-scraper/internal/auditlog"
	"github.com/Blittyyy/interviewiq-scraper/internal/config"
	"github.com/Blittyyy/interviewiq-scraper/internal/crawl"
	"github.com/Blittyyy/interviewiq-scraper/internal/ratelimit"
	"github.com/Blittyyy/interviewiq-scraper/internal/telemetry"
)

// SiteCrawler is the crawl entry point the scrape handler depends on.
type SiteCrawler interface {
	Crawl(ctx context.Context, seedURL string) ([]crawl.PageRecord, error)
}

// PDFRenderer turns HTML into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// Server wires HTTP handlers to the crawler, renderer, and sinks.
type Server struct {
	router   chi.Router
	crawler  SiteCrawler
	renderer PDFRenderer
	archive  archive.Provider
	audit    auditlog.Recorder
	cfg      config.Config
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes. The counter
// store backs both rate limiter tiers.
func NewServer(
	crawler SiteCrawler,
	renderer PDFRenderer,
	store ratelimit.CounterStore,
	arch archive.Provider,
	audit auditlog.Recorder,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if arch == nil {
		arch = archive.NoOp{}
	}
	if audit == nil {
		audit = auditlog.NoOp{}
	}
	s := &Server{
		crawler:  crawler,
		renderer: renderer,
		archive:  arch,
		audit:    audit,
		cfg:      cfg,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(telemetry.Middleware)
	r.Use(ratelimit.Middleware(store, ratelimit.Limit{
		Name:   "general",
		Max:    int64(cfg.RateLimit.MaxRequests),
		Window: cfg.GeneralWindow(),
	}, logger))

	r.Get("/", s.health)
	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Group(func(r chi.Router) {
		r.Use(ratelimit.Middleware(store, ratelimit.Limit{
			Name:    "scrape",
			Max:     int64(cfg.RateLimit.ScrapeMaxRequests),
			Window:  cfg.ScrapeWindow(),
			Message: "Too many scraping requests, please try again later.",
		}, logger))
		r.Get("/scrape", s.handleScrape)
	})

	r.Post("/generate-pdf", s.handleGeneratePDF)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type requestIDKey struct{}

// RequestID returns the request id injected by the middleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.String("request_id", RequestID(r.Context())),
			)
		})
	}
}

func recoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", zap.Any("panic", rec))
					writeFailure(w, http.StatusInternalServerError, "internal server error", "")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

// writeFailure emits the {"success": false, ...} error envelope shared
// by /scrape and the limiter responses. details is omitted when empty.
func writeFailure(w http.ResponseWriter, status int, msg, details string) {
	payload := map[string]any{
		"success": false,
		"error":   msg,
	}
	if details != "" {
		payload["details"] = details
	}
	writeJSON(w, status, payload)
}
