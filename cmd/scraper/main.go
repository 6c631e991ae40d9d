// Package main wires together the scraping service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Blittyyy/interviewiq-scraper/internal/api"
	"github.com/Blittyyy/interviewiq-scraper/internal/archive"
	"github.com/Blittyyy/interviewiq-scraper/internal/auditlog"
	"github.com/Blittyyy/interviewiq-scraper/internal/browser"
	"github.com/Blittyyy/interviewiq-scraper/internal/config"
	"github.com/Blittyyy/interviewiq-scraper/internal/crawl"
	"github.com/Blittyyy/interviewiq-scraper/internal/extract"
	"github.com/Blittyyy/interviewiq-scraper/internal/logging"
	"github.com/Blittyyy/interviewiq-scraper/internal/pdf"
	"github.com/Blittyyy/interviewiq-scraper/internal/ratelimit"
	"github.com/Blittyyy/interviewiq-scraper/internal/telemetry"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	telemetry.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var driver browser.Driver = browser.NewNoop()
	if cfg.Browser.Enabled {
		chromeDriver, err := browser.NewChromedp(browser.Config{
			MaxParallel: cfg.Browser.MaxParallel,
			UserAgent:   cfg.Browser.UserAgent,
		})
		if err != nil {
			logger.Fatal("browser driver init failed", zap.Error(err))
		}
		defer chromeDriver.Close()
		driver = chromeDriver
	}

	var store ratelimit.CounterStore = ratelimit.NewMemoryStore()
	if cfg.RateLimit.RedisAddr != "" {
		redisStore, err := ratelimit.NewRedisStore(ctx, cfg.RateLimit.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, falling back to in-memory limits", zap.Error(err))
		} else {
			store = redisStore
		}
	}

	var arch archive.Provider = archive.NoOp{}
	if cfg.Archive.GCSBucket != "" {
		gcs, err := archive.NewGCS(ctx, cfg.Archive.GCSBucket)
		if err != nil {
			logger.Warn("archive disabled", zap.Error(err))
		} else {
			defer gcs.Close()
			arch = gcs
		}
	}

	var audit auditlog.Recorder = auditlog.NoOp{}
	if cfg.DB.DSN != "" {
		recorder, err := auditlog.NewPostgres(ctx, auditlog.Config{
			DSN:   cfg.DB.DSN,
			Table: cfg.DB.Table,
		})
		if err != nil {
			logger.Warn("audit log disabled", zap.Error(err))
		} else {
			defer recorder.Close()
			audit = recorder
		}
	}

	crawler := crawl.New(driver, crawl.Config{
		MaxDiscoveredPages: cfg.Crawler.MaxDiscoveredPages,
		DomainQPS:          cfg.Crawler.DomainQPS,
		Fetch: browser.FetchOptions{
			NavigationTimeout: time.Duration(cfg.Browser.NavTimeoutSec) * time.Second,
			WaitSelector:      extract.ContentSelector,
			SelectorTimeout:   time.Duration(cfg.Browser.SelectorTimeoutSec) * time.Second,
			SettleWait:        time.Duration(cfg.Browser.SettleMillis) * time.Millisecond,
			DismissOverlays:   true,
		},
		SeedNavTimeout: time.Duration(cfg.Browser.SeedNavTimeoutSec) * time.Second,
	}, logger.Named("crawl"))
	renderer := pdf.New(driver)

	apiServer := api.NewServer(crawler, renderer, store, arch, audit, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
