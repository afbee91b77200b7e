package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Scraper.BaseURL != "https://getlatka.com/saas-companies" {
		t.Errorf("unexpected default base URL: %s", cfg.Scraper.BaseURL)
	}
	if cfg.Scraper.DefaultPages != 5 {
		t.Errorf("default pages = %d, want 5", cfg.Scraper.DefaultPages)
	}
	if cfg.Scraper.RequestDelay != 2*time.Second {
		t.Errorf("default delay = %v, want 2s", cfg.Scraper.RequestDelay)
	}
	if !cfg.Browser.Enabled || !cfg.Browser.Headless {
		t.Error("browser should default to enabled and headless")
	}
	if cfg.Enrich.Workers != 4 || cfg.Enrich.ChunkSize != 5 {
		t.Errorf("enrich defaults = %d workers / chunk %d, want 4 / 5",
			cfg.Enrich.Workers, cfg.Enrich.ChunkSize)
	}
	if cfg.Enrich.PreserveOrder {
		t.Error("PreserveOrder should default to false")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SAASDEX_PAGES", "9")
	t.Setenv("SAASDEX_REQUEST_DELAY", "500ms")
	t.Setenv("SAASDEX_USE_BROWSER", "false")
	t.Setenv("SAASDEX_OUTPUT_DIR", "/tmp/out")

	cfg := Load()

	if cfg.Scraper.DefaultPages != 9 {
		t.Errorf("pages = %d, want 9", cfg.Scraper.DefaultPages)
	}
	if cfg.Scraper.RequestDelay != 500*time.Millisecond {
		t.Errorf("delay = %v, want 500ms", cfg.Scraper.RequestDelay)
	}
	if cfg.Browser.Enabled {
		t.Error("browser should be disabled via env")
	}
	if cfg.Scraper.OutputDir != "/tmp/out" {
		t.Errorf("output dir = %s", cfg.Scraper.OutputDir)
	}
}

func TestLoad_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("SAASDEX_PAGES", "many")
	t.Setenv("SAASDEX_REQUEST_DELAY", "soon")
	t.Setenv("SAASDEX_HEADLESS", "kinda")

	cfg := Load()

	if cfg.Scraper.DefaultPages != 5 {
		t.Errorf("malformed int should fall back: got %d", cfg.Scraper.DefaultPages)
	}
	if cfg.Scraper.RequestDelay != 2*time.Second {
		t.Errorf("malformed duration should fall back: got %v", cfg.Scraper.RequestDelay)
	}
	if !cfg.Browser.Headless {
		t.Error("malformed bool should fall back to true")
	}
}
