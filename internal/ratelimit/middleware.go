package ratelimit

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Blittyyy/interviewiq-scraper/internal/telemetry"
)

// Limit configures one limiter tier.
type Limit struct {
	// Name keys counters and metric labels ("general", "scrape").
	Name    string
	Max     int64
	Window  time.Duration
	Message string
}

// Middleware enforces a fixed-window limit per client IP. A store error
// fails open: throttling is protective, not load-bearing, and dropping
// real traffic over a counter outage would be worse.
func Middleware(store CounterStore, cfg Limit, logger *zap.Logger) func(http.Handler) http.Handler {
	if cfg.Message == "" {
		cfg.Message = "Too many requests, please try again later."
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	retryAfter := int(math.Ceil(cfg.Window.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			count, err := store.Incr(r.Context(), cfg.Name+":"+ip, cfg.Window)
			if err != nil {
				logger.Warn("rate limit store unavailable",
					zap.String("limiter", cfg.Name),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			remaining := cfg.Max - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(cfg.Max, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > cfg.Max {
				logger.Info("rate limit exceeded",
					zap.String("limiter", cfg.Name),
					zap.String("ip", ip),
				)
				telemetry.ObserveRateLimitRejection(cfg.Name)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
					"success":    false,
					"error":      cfg.Message,
					"retryAfter": retryAfter,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop; the service runs
// behind the platform's proxy in production.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
