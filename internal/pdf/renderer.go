// Package pdf converts caller-supplied HTML into a paginated PDF via the
// browser driver.
package pdf

import (
	"context"
	"errors"
	"fmt"

	"github.com/Blittyyy/interviewiq-scraper/internal/browser"
)

// ErrEmptyHTML indicates the caller supplied nothing to render.
var ErrEmptyHTML = errors.New("html content is required")

// Renderer turns HTML documents into PDF bytes. Each render owns a fresh
// browser session that is closed on every exit path.
type Renderer struct {
	driver browser.Driver
	opts   browser.PDFOptions
}

// New constructs a Renderer with Letter-size defaults.
func New(driver browser.Driver) *Renderer {
	return &Renderer{driver: driver, opts: browser.LetterPDF()}
}

// Render produces a PDF for the given HTML. Any failure is terminal;
// there is no partial or fallback output.
func (r *Renderer) Render(ctx context.Context, html string) ([]byte, error) {
	if html == "" {
		return nil, ErrEmptyHTML
	}
	session, err := r.driver.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("open browser session: %w", err)
	}
	defer session.Close()

	data, err := session.RenderPDF(ctx, html, r.opts)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return data, nil
}
