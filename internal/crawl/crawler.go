// Package crawl implements the bounded same-origin site crawl: load the
// seed page, discover relevant internal links, and extract each page's
// content. The crawl is breadth-1 by design, not recursive.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Blittyyy/interviewiq-scraper/internal/browser"
	"github.com/Blittyyy/interviewiq-scraper/internal/extract"
	"github.com/Blittyyy/interviewiq-scraper/internal/telemetry"
)

// ErrInvalidSeed indicates the supplied seed URL cannot anchor a crawl.
var ErrInvalidSeed = errors.New("seed URL must be absolute http(s)")

// Config controls one crawler instance.
type Config struct {
	// MaxDiscoveredPages caps the candidate set beyond the seed page.
	MaxDiscoveredPages int
	Keywords           []string
	// DomainQPS throttles page fetches against the target site; 0
	// disables the politeness wait.
	DomainQPS float64
	// Fetch applies to discovered pages. The seed uses SeedNavTimeout
	// instead of Fetch.NavigationTimeout.
	Fetch          browser.FetchOptions
	SeedNavTimeout time.Duration
}

// Crawler fetches a seed page plus discovered same-origin pages through
// a browser session owned by the request.
type Crawler struct {
	driver browser.Driver
	cfg    Config
	logger *zap.Logger
}

// New constructs a Crawler. Zero-value config fields get defaults.
func New(driver browser.Driver, cfg Config, logger *zap.Logger) *Crawler {
	if cfg.MaxDiscoveredPages == 0 {
		cfg.MaxDiscoveredPages = 5
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = RelevantKeywords
	}
	if cfg.SeedNavTimeout <= 0 {
		cfg.SeedNavTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{driver: driver, cfg: cfg, logger: logger}
}

// Crawl returns the cleaned pages for seedURL, seed first and discovered
// pages in discovery order. A page that fails to load or parse is
// skipped; only a seed failure aborts the crawl.
func (c *Crawler) Crawl(ctx context.Context, seedURL string) ([]PageRecord, error) {
	base, err := url.Parse(seedURL)
	if err != nil || !base.IsAbs() || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seedURL)
	}

	session, err := c.driver.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("open browser session: %w", err)
	}
	defer session.Close()

	seedOpts := c.cfg.Fetch
	seedOpts.NavigationTimeout = c.cfg.SeedNavTimeout
	seedHTML, err := session.FetchHTML(ctx, seedURL, seedOpts)
	if err != nil {
		telemetry.ObservePage(seedURL, "error")
		return nil, fmt.Errorf("load seed page: %w", err)
	}
	seedText, err := extract.Text(seedHTML)
	if err != nil {
		telemetry.ObservePage(seedURL, "error")
		return nil, fmt.Errorf("extract seed page: %w", err)
	}
	telemetry.ObservePage(seedURL, "ok")
	records := []PageRecord{{URL: seedURL, Content: seedText, RawHTML: seedHTML}}

	links := DiscoverLinks(seedHTML, base, c.cfg.Keywords, c.cfg.MaxDiscoveredPages)
	c.logger.Info("discovered pages",
		zap.String("seed", seedURL),
		zap.Int("count", len(links)),
	)

	var limiter *rate.Limiter
	if c.cfg.DomainQPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(c.cfg.DomainQPS), 1)
	}

	for _, link := range links {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return records, fmt.Errorf("politeness wait: %w", err)
			}
		}
		record, err := c.fetchPage(ctx, session, link)
		if err != nil {
			// Per-page failures never abort the crawl.
			telemetry.ObservePage(link, "error")
			c.logger.Warn("page skipped", zap.String("url", link), zap.Error(err))
			continue
		}
		telemetry.ObservePage(link, "ok")
		records = append(records, record)
	}
	return records, nil
}

func (c *Crawler) fetchPage(ctx context.Context, session browser.Session, pageURL string) (PageRecord, error) {
	html, err := session.FetchHTML(ctx, pageURL, c.cfg.Fetch)
	if err != nil {
		return PageRecord{}, fmt.Errorf("fetch: %w", err)
	}
	text, err := extract.Text(html)
	if err != nil {
		return PageRecord{}, fmt.Errorf("extract: %w", err)
	}
	return PageRecord{URL: pageURL, Content: text, RawHTML: html}, nil
}
