package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestSanitizeSite(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://Example.com/about":  "example.com",
		"example.com/news":           "example.com",
		"http://sub.example.co.uk/x": "sub.example.co.uk",
		"://bad url":                 "unknown",
	}
	for input, want := range cases {
		if got := SanitizeSite(input); got != want {
			t.Fatalf("SanitizeSite(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestObserversSafeBeforeInit(t *testing.T) {
	t.Parallel()

	// None of these should panic when Init has not run in this process yet.
	ObservePage("https://example.com", "ok")
	ObserveScrape("ok", time.Second)
	ObservePDFRender("error", time.Second)
	ObserveHTTPRequest(http.MethodGet, "/scrape", 200, time.Millisecond)
	ObserveRateLimitRejection("general")
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	Init()

	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status to pass through, got %d", rec.Code)
	}
}
