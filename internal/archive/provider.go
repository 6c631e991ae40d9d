// Package archive persists raw page HTML captured during crawls. The
// archive is best-effort debugging material; failures never affect the
// scrape response.
package archive

import "context"

// Provider abstracts the blob destination for archived pages.
type Provider interface {
	// Save uploads data to the given object path/key.
	Save(ctx context.Context, objectName string, data []byte) error
}

// NoOp discards everything; the default when no bucket is configured.
type NoOp struct{}

// Save does nothing and always returns nil.
func (NoOp) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}
