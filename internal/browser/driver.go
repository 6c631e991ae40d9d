// Package browser models headless-browser automation as an injected
// capability so the crawler and PDF renderer can be tested without a
// real browser.
package browser

import (
	"context"
	"time"
)

// FetchOptions controls a single page fetch within a session.
type FetchOptions struct {
	// NavigationTimeout bounds the whole fetch, navigation included.
	NavigationTimeout time.Duration
	// WaitSelector, when set, is waited on before reading the DOM. A wait
	// timeout is not an error; sparse pages simply have no such content.
	WaitSelector    string
	SelectorTimeout time.Duration
	// SettleWait gives client-side rendering a fixed interval to finish.
	SettleWait time.Duration
	// DismissOverlays enables best-effort cookie/consent overlay removal.
	DismissOverlays bool
}

// PDFOptions controls HTML-to-PDF rendering.
type PDFOptions struct {
	PaperWidthIn    float64
	PaperHeightIn   float64
	MarginIn        float64
	PrintBackground bool
	Timeout         time.Duration
}

// LetterPDF returns the rendering defaults: Letter paper, half-inch
// margins, backgrounds included.
func LetterPDF() PDFOptions {
	return PDFOptions{
		PaperWidthIn:    8.5,
		PaperHeightIn:   11,
		MarginIn:        0.5,
		PrintBackground: true,
		Timeout:         60 * time.Second,
	}
}

// Session is one browser instance, exclusively owned by the request that
// created it. Each fetch or render runs in a fresh tab that is closed
// before the call returns. Close must be called on every exit path.
type Session interface {
	FetchHTML(ctx context.Context, pageURL string, opts FetchOptions) (string, error)
	RenderPDF(ctx context.Context, html string, opts PDFOptions) ([]byte, error)
	Close()
}

// Driver creates browser sessions.
type Driver interface {
	NewSession(ctx context.Context) (Session, error)
	Close()
}
