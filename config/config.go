package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Scraper Scraper
	Browser Browser
	Enrich  Enrich
	Log     Log
}

// Scraper controls page retrieval and pacing.
type Scraper struct {
	// BaseURL is the companies listing URL.
	BaseURL string // default: "https://getlatka.com/saas-companies"

	// DefaultPages is the number of listing pages scraped by a no-argument run.
	DefaultPages int // default: 5

	// RequestDelay is the fixed pause between consecutive page fetches.
	RequestDelay time.Duration // default: 2s

	// PageTimeout bounds a single page fetch (HTTP request or browser
	// readiness wait).
	PageTimeout time.Duration // default: 10s

	// OutputDir is where JSON result files are written.
	OutputDir string // default: "output"
}

// Browser controls the rod browser instance.
type Browser struct {
	// Enabled toggles the browser retrieval path. When false, or when the
	// launch fails at startup, all fetching goes through plain HTTP.
	Enabled bool // default: true

	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// Bin overrides the Chromium binary path.
	Bin string
}

// Enrich controls the detailed-profile stage.
type Enrich struct {
	// Workers is the worker-pool size for HTTP profile fetching.
	Workers int // default: 4

	// ChunkSize is how many records each worker takes per chunk.
	ChunkSize int // default: 5

	// PreserveOrder reassembles enriched chunks in input order instead of
	// completion order.
	PreserveOrder bool // default: false
}

// Log controls structured logging.
type Log struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Scraper: Scraper{
			BaseURL:      envOr("SAASDEX_BASE_URL", "https://getlatka.com/saas-companies"),
			DefaultPages: envIntOr("SAASDEX_PAGES", 5),
			RequestDelay: envDurationOr("SAASDEX_REQUEST_DELAY", 2*time.Second),
			PageTimeout:  envDurationOr("SAASDEX_PAGE_TIMEOUT", 10*time.Second),
			OutputDir:    envOr("SAASDEX_OUTPUT_DIR", "output"),
		},
		Browser: Browser{
			Enabled:   envBoolOr("SAASDEX_USE_BROWSER", true),
			Headless:  envBoolOr("SAASDEX_HEADLESS", true),
			NoSandbox: envBoolOr("SAASDEX_NO_SANDBOX", false),
			Bin:       os.Getenv("SAASDEX_BROWSER_BIN"),
		},
		Enrich: Enrich{
			Workers:       envIntOr("SAASDEX_WORKERS", 4),
			ChunkSize:     envIntOr("SAASDEX_CHUNK_SIZE", 5),
			PreserveOrder: envBoolOr("SAASDEX_PRESERVE_ORDER", false),
		},
		Log: Log{
			Level:  envOr("SAASDEX_LOG_LEVEL", "info"),
			Format: envOr("SAASDEX_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
