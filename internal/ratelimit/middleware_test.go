package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	t.Parallel()

	limited := Middleware(NewMemoryStore(), Limit{
		Name:    "scrape",
		Max:     10,
		Window:  time.Minute,
		Message: "Too many scraping requests, please try again later.",
	}, nil)(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/scrape?url=https://example.com", nil)
		req.RemoteAddr = "10.0.0.1:55555"
		limited.ServeHTTP(last, req)
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "60", last.Header().Get("Retry-After"))

	var body struct {
		Success    bool   `json:"success"`
		Error      string `json:"error"`
		RetryAfter int    `json:"retryAfter"`
	}
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Too many scraping requests, please try again later.", body.Error)
	assert.Equal(t, 60, body.RetryAfter)
}

func TestMiddlewareAllowsUpToLimit(t *testing.T) {
	t.Parallel()

	limited := Middleware(NewMemoryStore(), Limit{
		Name:   "general",
		Max:    3,
		Window: time.Minute,
	}, nil)(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		limited.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}
}

func TestMiddlewareSeparatesClients(t *testing.T) {
	t.Parallel()

	limited := Middleware(NewMemoryStore(), Limit{
		Name:   "general",
		Max:    1,
		Window: time.Minute,
	}, nil)(okHandler())

	first := httptest.NewRecorder()
	reqA := httptest.NewRequest(http.MethodGet, "/", nil)
	reqA.RemoteAddr = "10.0.0.3:1"
	limited.ServeHTTP(first, reqA)
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	reqB := httptest.NewRequest(http.MethodGet, "/", nil)
	reqB.RemoteAddr = "10.0.0.4:1"
	limited.ServeHTTP(second, reqB)
	assert.Equal(t, http.StatusOK, second.Code, "other clients keep their own window")
}

func TestMiddlewareHonorsForwardedFor(t *testing.T) {
	t.Parallel()

	limited := Middleware(NewMemoryStore(), Limit{
		Name:   "general",
		Max:    1,
		Window: time.Minute,
	}, nil)(okHandler())

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:1"
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		limited.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "request %d", i+1)
	}
}

type failingStore struct{}

func (failingStore) Incr(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 0, errors.New("store down")
}

func TestMiddlewareFailsOpenOnStoreError(t *testing.T) {
	t.Parallel()

	limited := Middleware(failingStore{}, Limit{
		Name:   "general",
		Max:    1,
		Window: time.Minute,
	}, nil)(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:1"
	limited.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
