package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Config controls the behavior of the chromedp driver.
type Config struct {
	// MaxParallel bounds concurrent browser sessions; 0 means unbounded.
	MaxParallel int
	UserAgent   string
}

// ChromedpDriver implements Driver using chromedp and headless Chrome.
// One exec allocator is shared; every session gets its own browser
// process created from it.
type ChromedpDriver struct {
	cfg         Config
	limiter     chan struct{}
	allocator   context.Context
	allocCancel context.CancelFunc
}

// NewChromedp creates a headless driver backed by chromedp.
func NewChromedp(cfg Config) (*ChromedpDriver, error) {
	if cfg.MaxParallel < 0 {
		return nil, fmt.Errorf("max parallel must be >= 0")
	}
	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpDriver{
		cfg:         cfg,
		limiter:     limiter,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// Close cancels the allocator context, tearing down any remaining browsers.
func (d *ChromedpDriver) Close() {
	d.allocCancel()
}

// NewSession launches a browser. The session holds a parallelism slot
// until it is closed.
func (d *ChromedpDriver) NewSession(ctx context.Context) (Session, error) {
	if err := d.acquire(ctx); err != nil {
		return nil, err
	}
	browserCtx, browserCancel := chromedp.NewContext(d.allocator)
	// Launch now so a broken Chrome install fails the request up front.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		d.release()
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	return &chromedpSession{
		driver:     d,
		browserCtx: browserCtx,
		cancel:     browserCancel,
	}, nil
}

func (d *ChromedpDriver) acquire(ctx context.Context) error {
	if d.limiter == nil {
		return nil
	}
	select {
	case d.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("browser slot wait canceled: %w", ctx.Err())
	}
}

func (d *ChromedpDriver) release() {
	if d.limiter == nil {
		return
	}
	select {
	case <-d.limiter:
	default:
	}
}

type chromedpSession struct {
	driver     *ChromedpDriver
	browserCtx context.Context
	cancel     context.CancelFunc
	closeOnce  sync.Once
}

// Close shuts the browser down and frees the parallelism slot.
func (s *chromedpSession) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.driver.release()
	})
}

// FetchHTML navigates a fresh tab to pageURL and returns the rendered DOM.
func (s *chromedpSession) FetchHTML(ctx context.Context, pageURL string, opts FetchOptions) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()

	timeout := opts.NavigationTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	taskCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	stop := forwardCancel(ctx, cancel)
	defer stop()

	var html string
	actions := []chromedp.Action{
		s.setupAction(),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if opts.WaitSelector != "" {
		actions = append(actions, waitBestEffort(opts.WaitSelector, opts.SelectorTimeout))
	}
	if opts.DismissOverlays {
		actions = append(actions, dismissOverlays())
	}
	if opts.SettleWait > 0 {
		actions = append(actions, chromedp.Sleep(opts.SettleWait))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	return html, nil
}

// RenderPDF loads the supplied HTML in a fresh tab, waits for the network
// to go quiet, and prints a paginated PDF.
func (s *chromedpSession) RenderPDF(ctx context.Context, html string, opts PDFOptions) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	taskCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	stop := forwardCancel(ctx, cancel)
	defer stop()

	idle := newNetworkIdleWatcher(taskCtx)

	var pdf []byte
	err := chromedp.Run(taskCtx,
		// The watcher sees Network.* events only after the domain is
		// enabled on this tab.
		s.setupAction(),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("get frame tree: %w", err)
			}
			if err := page.SetDocumentContent(tree.Frame.ID, html).Do(ctx); err != nil {
				return fmt.Errorf("set document content: %w", err)
			}
			return nil
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		idle.wait(500*time.Millisecond, 10*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(opts.PaperWidthIn).
				WithPaperHeight(opts.PaperHeightIn).
				WithMarginTop(opts.MarginIn).
				WithMarginBottom(opts.MarginIn).
				WithMarginLeft(opts.MarginIn).
				WithMarginRight(opts.MarginIn).
				WithPrintBackground(opts.PrintBackground).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("print to pdf: %w", err)
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

func (s *chromedpSession) setupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if ua := s.driver.cfg.UserAgent; ua != "" {
			if err := emulation.SetUserAgentOverride(ua).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		return nil
	})
}

// waitBestEffort waits for a selector but treats a timeout as success;
// pages with sparse content never match and must still be extracted.
func waitBestEffort(selector string, timeout time.Duration) chromedp.Action {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return chromedp.ActionFunc(func(ctx context.Context) error {
		wctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		_ = chromedp.WaitReady(selector, chromedp.ByQuery).Do(wctx) //nolint:errcheck // timeout tolerated
		return nil
	})
}

// dismissOverlays hides cookie/consent furniture and clicks obvious
// accept/close buttons. Failures are swallowed; extraction proceeds with
// whatever DOM is present.
func dismissOverlays() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_ = chromedp.Evaluate(dismissOverlaysJS, nil).Do(ctx) //nolint:errcheck // best-effort
		return nil
	})
}

const dismissOverlaysJS = `(() => {
	const fragments = ['cookie', 'consent', 'gdpr', 'modal', 'popup', 'overlay'];
	for (const el of document.querySelectorAll('div, section, aside')) {
		const key = ((el.className || '') + ' ' + (el.id || '')).toLowerCase();
		if (fragments.some(f => key.includes(f))) {
			el.style.display = 'none';
		}
	}
	const labels = ['accept', 'agree', 'close', 'got it'];
	for (const btn of document.querySelectorAll('button, [role="button"]')) {
		const text = (btn.innerText || '').trim().toLowerCase();
		if (text.length < 30 && labels.some(l => text.includes(l))) {
			try { btn.click(); } catch (e) {}
		}
	}
})()`

// forwardCancel propagates cancellation from the caller context into the
// chromedp task context, which is derived from the session instead.
func forwardCancel(ctx context.Context, cancel context.CancelFunc) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
