// Package main hosts the scraping service entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes health probes, Prometheus
//     metrics, GET /scrape for company-site crawls, and POST /generate-pdf
//     for HTML-to-PDF rendering. Two fixed-window rate limiter tiers sit in
//     front of the routes; the stricter tier guards /scrape because every
//     scrape launches a headless browser.
//   - Crawl pipeline: internal/crawl loads the seed page through a Chromedp
//     session, discovers relevant same-origin links from the seed HTML,
//     and fetches each discovered page in the same session. Extraction
//     (internal/extract) strips chrome elements and normalizes whitespace;
//     aggregation (internal/report) builds the combined corpus plus
//     heuristic company sections and recent-news candidates.
//   - PDF rendering: internal/pdf injects caller HTML into a fresh browser
//     tab, waits for the network to go quiet, and prints to Letter-size PDF.
//   - Sinks: raw page HTML is optionally archived to GCS and one audit row
//     per request is optionally written to Postgres, both best-effort and
//     off the request path.
//   - Configuration & plumbing: Viper populates config from env/files with
//     the SCRAPER_ prefix; zap provides structured logging; Prometheus
//     collectors are exported at /metrics. Rate limit counters live in
//     memory by default or in Redis when SCRAPER_RATELIMIT_REDIS_ADDR is
//     set, so multiple replicas share a budget.
//
// Run locally: go run ./cmd/scraper -config config.yaml (or rely solely on
// env overrides). The process reacts to SIGTERM for graceful drain.
package main
