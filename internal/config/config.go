// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	DB        DBConfig        `mapstructure:"db"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// RateLimitConfig defines the two fixed-window limiter tiers. The scrape
// tier is stricter because each scrape launches a browser.
type RateLimitConfig struct {
	WindowSeconds       int    `mapstructure:"window_seconds"`
	MaxRequests         int    `mapstructure:"max_requests"`
	ScrapeWindowSeconds int    `mapstructure:"scrape_window_seconds"`
	ScrapeMaxRequests   int    `mapstructure:"scrape_max_requests"`
	RedisAddr           string `mapstructure:"redis_addr"`
}

// CORSConfig holds the origin allow-list, comma-separated in env form.
type CORSConfig struct {
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// BrowserConfig configures the headless browser driver.
type BrowserConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	MaxParallel        int    `mapstructure:"max_parallel"`
	UserAgent          string `mapstructure:"user_agent"`
	NavTimeoutSec      int    `mapstructure:"nav_timeout_seconds"`
	SeedNavTimeoutSec  int    `mapstructure:"seed_nav_timeout_seconds"`
	SelectorTimeoutSec int    `mapstructure:"selector_timeout_seconds"`
	SettleMillis       int    `mapstructure:"settle_millis"`
}

// CrawlerConfig governs link discovery and page fetching within one crawl.
type CrawlerConfig struct {
	MaxDiscoveredPages int     `mapstructure:"max_discovered_pages"`
	DomainQPS          float64 `mapstructure:"domain_qps"`
}

// ArchiveConfig sets the optional raw-HTML archive destination.
type ArchiveConfig struct {
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// DBConfig controls the optional scrape audit log database.
type DBConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3005)
	v.SetDefault("ratelimit.window_seconds", 60)
	v.SetDefault("ratelimit.max_requests", 60)
	v.SetDefault("ratelimit.scrape_window_seconds", 60)
	v.SetDefault("ratelimit.scrape_max_requests", 10)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,https://interviewiq.vercel.app")
	v.SetDefault("browser.enabled", true)
	v.SetDefault("browser.max_parallel", 2)
	v.SetDefault("browser.user_agent", "interviewiq-scraper/0.1")
	v.SetDefault("browser.nav_timeout_seconds", 30)
	v.SetDefault("browser.seed_nav_timeout_seconds", 60)
	v.SetDefault("browser.selector_timeout_seconds", 10)
	v.SetDefault("browser.settle_millis", 2000)
	v.SetDefault("crawler.max_discovered_pages", 5)
	v.SetDefault("crawler.domain_qps", 2)
	v.SetDefault("archive.prefix", "pages")
	v.SetDefault("db.table", "scrape_requests")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.RateLimit.WindowSeconds <= 0 || c.RateLimit.ScrapeWindowSeconds <= 0 {
		return fmt.Errorf("rate limit windows must be > 0")
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.ScrapeMaxRequests <= 0 {
		return fmt.Errorf("rate limit max requests must be > 0")
	}
	if c.Browser.Enabled && c.Browser.MaxParallel <= 0 {
		return fmt.Errorf("browser.max_parallel must be > 0 when the browser is enabled")
	}
	if c.Crawler.MaxDiscoveredPages < 0 {
		return fmt.Errorf("crawler.max_discovered_pages must be >= 0")
	}
	return nil
}

// AllowedOrigins splits the configured origin list.
func (c Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORS.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// GeneralWindow returns the general limiter window as a duration.
func (c Config) GeneralWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

// ScrapeWindow returns the scrape limiter window as a duration.
func (c Config) ScrapeWindow() time.Duration {
	return time.Duration(c.RateLimit.ScrapeWindowSeconds) * time.Second
}
