package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Blittyyy/interviewiq-scraper/internal/archive"
	"github.com/Blittyyy/interviewiq-scraper/internal/auditlog"
	"github.com/Blittyyy/interviewiq-scraper/internal/crawl"
	"github.com/Blittyyy/interviewiq-scraper/internal/pdf"
	"github.com/Blittyyy/interviewiq-scraper/internal/report"
	"github.com/Blittyyy/interviewiq-scraper/internal/telemetry"
)

const sinkTimeout = 30 * time.Second

// handleScrape serves GET /scrape?url=. It crawls the target site and
// returns the aggregated report. The crawl runs synchronously; the
// caller holds the connection for its duration.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeFailure(w, http.StatusBadRequest, "URL is required", "")
		return
	}

	start := time.Now()
	records, err := s.crawler.Crawl(r.Context(), target)
	if err != nil {
		if errors.Is(err, crawl.ErrInvalidSeed) {
			writeFailure(w, http.StatusBadRequest, "Invalid URL", err.Error())
			return
		}
		s.logger.Error("scrape failed",
			zap.String("url", target),
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		telemetry.ObserveScrape("error", time.Since(start))
		s.recordAudit(RequestID(r.Context()), target, 0, "error", time.Since(start))
		writeFailure(w, http.StatusInternalServerError, "Failed to scrape the website", err.Error())
		return
	}

	result := report.Build(records)
	telemetry.ObserveScrape("ok", time.Since(start))
	s.archivePages(RequestID(r.Context()), records)
	s.recordAudit(RequestID(r.Context()), target, len(records), "ok", time.Since(start))

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    result,
	})
}

type generatePDFRequest struct {
	HTML     string `json:"html"`
	Filename string `json:"filename"`
}

// handleGeneratePDF serves POST /generate-pdf with a JSON body of
// {html, filename?}. It streams the rendered PDF back as an
// attachment; there is no fallback output on failure.
func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req generatePDFRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}
	if req.HTML == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "HTML content is required"})
		return
	}

	start := time.Now()
	data, err := s.renderer.Render(r.Context(), req.HTML)
	if err != nil {
		if errors.Is(err, pdf.ErrEmptyHTML) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "HTML content is required"})
			return
		}
		s.logger.Error("pdf render failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		telemetry.ObservePDFRender("error", time.Since(start))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate PDF"})
		return
	}
	telemetry.ObservePDFRender("ok", time.Since(start))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", sanitizeFileName(req.Filename)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("pdf response write failed", zap.Error(err))
	}
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func sanitizeFileName(name string) string {
	name = unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "report.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

// archivePages stores raw HTML snapshots out of band. Archival never
// affects the response.
func (s *Server) archivePages(requestID string, records []crawl.PageRecord) {
	pages := make([]crawl.PageRecord, 0, len(records))
	for _, rec := range records {
		if rec.RawHTML != "" {
			pages = append(pages, rec)
		}
	}
	if len(pages) == 0 {
		return
	}
	go func() {
		ctx, cancel := contextWithSinkTimeout()
		defer cancel()
		for i, rec := range pages {
			name := s.objectName(rec.URL, fmt.Sprintf("%s-%d", requestID, i))
			if err := s.archive.Save(ctx, name, []byte(rec.RawHTML)); err != nil {
				s.logger.Warn("archive save failed",
					zap.String("object", name),
					zap.Error(err),
				)
			}
		}
	}()
}

func (s *Server) objectName(pageURL, id string) string {
	return archive.ObjectName(s.cfg.Archive.Prefix, pageURL, id)
}

func contextWithSinkTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), sinkTimeout)
}

// recordAudit writes one audit row out of band, best-effort.
func (s *Server) recordAudit(requestID, target string, pagesOK int, status string, dur time.Duration) {
	go func() {
		ctx, cancel := contextWithSinkTimeout()
		defer cancel()
		err := s.audit.Record(ctx, auditlog.Entry{
			RequestID: requestID,
			TargetURL: target,
			PagesOK:   pagesOK,
			Status:    status,
			Duration:  dur,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("audit record failed", zap.Error(err))
		}
	}()
}
