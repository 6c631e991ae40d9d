package browser

import (
	"context"
	"errors"
)

// ErrBrowserDisabled indicates the browser has been disabled via
// configuration; requests that need it fail fast.
var ErrBrowserDisabled = errors.New("headless browser not configured")

// Noop implements Driver but always returns an error, keeping the service
// bootable in environments without Chrome.
type Noop struct{}

// NewNoop creates a new Noop driver.
func NewNoop() *Noop {
	return &Noop{}
}

// NewSession returns ErrBrowserDisabled.
func (Noop) NewSession(_ context.Context) (Session, error) {
	return nil, ErrBrowserDisabled
}

// Close does nothing.
func (Noop) Close() {}
