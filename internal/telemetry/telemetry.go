// Package telemetry exposes Prometheus collectors for the scraping service.
package telemetry

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scraperPagesTotal          *prometheus.CounterVec
	scrapeRequestsTotal        *prometheus.CounterVec
	scrapeDurationSeconds      prometheus.Histogram
	pdfRendersTotal            *prometheus.CounterVec
	pdfRenderDurationSeconds   prometheus.Histogram
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	rateLimitRejectionsTotal   *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scraperPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_pages_total",
				Help: "Total number of pages fetched during crawls, labeled by site and status.",
			},
			[]string{"site", "status"},
		)

		scrapeRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_scrape_requests_total",
				Help: "Total number of /scrape requests, labeled by outcome.",
			},
			[]string{"status"},
		)

		scrapeDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scraper_scrape_duration_seconds",
				Help:    "Histogram of end-to-end crawl durations.",
				Buckets: []float64{1, 2, 5, 10, 20, 40, 60, 120},
			},
		)

		pdfRendersTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_pdf_renders_total",
				Help: "Total number of /generate-pdf requests, labeled by outcome.",
			},
			[]string{"status"},
		)

		pdfRenderDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scraper_pdf_render_duration_seconds",
				Help:    "Histogram of PDF render durations.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60},
			},
			[]string{"method", "route"},
		)

		rateLimitRejectionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_rate_limit_rejections_total",
				Help: "Total number of requests rejected by a rate limiter tier.",
			},
			[]string{"limiter"},
		)
	})
}

// SanitizeSite extracts a lowercase hostname from a URL for metric labels.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage records the outcome of a single page fetch within a crawl.
func ObservePage(site, status string) {
	if scraperPagesTotal == nil {
		return
	}
	scraperPagesTotal.WithLabelValues(SanitizeSite(site), status).Inc()
}

// ObserveScrape records one completed /scrape request.
func ObserveScrape(status string, duration time.Duration) {
	if scrapeRequestsTotal == nil {
		return
	}
	scrapeRequestsTotal.WithLabelValues(status).Inc()
	scrapeDurationSeconds.Observe(duration.Seconds())
}

// ObservePDFRender records one completed /generate-pdf request.
func ObservePDFRender(status string, duration time.Duration) {
	if pdfRendersTotal == nil {
		return
	}
	pdfRendersTotal.WithLabelValues(status).Inc()
	pdfRenderDurationSeconds.Observe(duration.Seconds())
}

// ObserveHTTPRequest records request totals and latency for a route.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveRateLimitRejection counts a 429 from the named limiter tier.
func ObserveRateLimitRejection(limiter string) {
	if rateLimitRejectionsTotal == nil {
		return
	}
	rateLimitRejectionsTotal.WithLabelValues(limiter).Inc()
}
