// Package auditlog records one row per scrape request. The web app keeps
// its request logs in the shared relational database; this is the
// service-side counterpart, optional and best-effort.
package auditlog

import (
	"context"
	"time"
)

// Entry describes one completed (or failed) scrape request.
type Entry struct {
	RequestID string
	TargetURL string
	PagesOK   int
	Status    string
	Duration  time.Duration
	CreatedAt time.Time
}

// Recorder persists audit entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
	Close()
}

// NoOp discards entries; the default when no DSN is configured.
type NoOp struct{}

// Record does nothing and always returns nil.
func (NoOp) Record(_ context.Context, _ Entry) error { return nil }

// Close does nothing.
func (NoOp) Close() {}
