// Package scraper drives company listing and profile retrieval: a rod
// browser session with an HTTP fallback, pagination over the live listing,
// and chunked profile enrichment.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/use-agent/saasdex/cache"
	"github.com/use-agent/saasdex/config"
	"github.com/use-agent/saasdex/engine"
	"github.com/use-agent/saasdex/extract"
	"github.com/use-agent/saasdex/models"
)

const (
	// initialSettle is the pause after opening the listing for the first
	// time; the site renders rows client-side well after document load.
	initialSettle = 5 * time.Second

	// rowWaitTimeout bounds the wait for company rows on a freshly loaded
	// listing page.
	rowWaitTimeout = 15 * time.Second

	pageCacheEntries = 512
	pageCacheTTL     = 30 * time.Minute
)

// Scraper is the top-level orchestrator. It prefers the browser session
// when one is available and falls back to the TLS-camouflaged HTTP engine
// whenever the browser path fails or looks blocked.
type Scraper struct {
	cfg     *config.Config
	session *Session // nil in HTTP-only mode
	httpEng *engine.HTTPEngine
	fetcher engine.Engine
	limiter *rate.Limiter
	pages   *cache.Cache
}

// New builds a Scraper from config. A browser launch failure is not fatal:
// it is logged and the scraper degrades to HTTP-only mode.
func New(cfg *config.Config) *Scraper {
	s := &Scraper{
		cfg:     cfg,
		httpEng: engine.NewHTTPEngine(),
		limiter: rate.NewLimiter(rate.Every(cfg.Scraper.RequestDelay), 1),
		pages:   cache.New(pageCacheEntries, pageCacheTTL),
	}

	var engines []engine.Engine
	if cfg.Browser.Enabled {
		sess, err := NewSession(cfg.Browser, cfg.Scraper.RequestDelay, cfg.Scraper.PageTimeout)
		if err != nil {
			slog.Warn("browser launch failed, degrading to HTTP-only mode", "error", err)
		} else {
			s.session = sess
			engines = append(engines, engine.NewBrowserEngine(sess.EngineFetch))
		}
	}
	engines = append(engines, s.httpEng)

	s.fetcher = engine.NewFallback(engines, engine.NewMemory(time.Hour))
	return s
}

// Close releases the browser session, if any.
func (s *Scraper) Close() {
	if s.session != nil {
		s.session.Close()
	}
}

// pageURL addresses a listing page directly. Page 1 is the bare base URL;
// the site only accepts the page parameter from 2 on.
func (s *Scraper) pageURL(page int) string {
	if page <= 1 {
		return s.cfg.Scraper.BaseURL
	}
	return fmt.Sprintf("%s?page=%d", s.cfg.Scraper.BaseURL, page)
}

// wait paces consecutive fetches using the configured request delay.
func (s *Scraper) wait(ctx context.Context) {
	if err := s.limiter.Wait(ctx); err != nil {
		slog.Debug("pacing interrupted", "error", err)
	}
}

// ScrapePage scrapes a single URL-addressed listing page through the
// engine fallback: the browser engine is tried first when a session
// exists, plain HTTP after it, and the per-host memory routes straight to
// whichever engine last worked. A page number below 1 is rejected before
// any fetch.
func (s *Scraper) ScrapePage(ctx context.Context, page int) ([]models.Record, error) {
	if page < 1 {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("page number must be 1 or greater, got %d", page), nil)
	}

	pageURL := s.pageURL(page)
	slog.Info("scraping page", "page", page, "url", pageURL)

	res, err := s.fetcher.Fetch(ctx, &engine.FetchRequest{
		URL:          pageURL,
		Timeout:      s.cfg.Scraper.PageTimeout,
		WaitSelector: extract.RowSelector,
	})
	if err != nil {
		slog.Error("all retrieval methods failed", "page", page, "error", err)
		return nil, nil
	}

	if BlockedContent(res.HTML) {
		slog.Warn("fetched content looks blocked",
			"page", page, "engine", res.EngineName, "bytes", len(res.HTML))
	}

	records := recordsFromHTML(res.HTML, s.cfg.Scraper.BaseURL)
	slog.Info("page scraped", "page", page, "companies", len(records), "engine", res.EngineName)
	return records, nil
}

// ScrapeRange scrapes an inclusive URL-addressed page range. Individual
// page failures are logged and skipped; the range result is whatever was
// collected. Invalid bounds are rejected before any fetch.
func (s *Scraper) ScrapeRange(ctx context.Context, start, end int) ([]models.Record, error) {
	if start < 1 {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("start page must be 1 or greater, got %d", start), nil)
	}
	if end < start {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("end page %d is before start page %d", end, start), nil)
	}

	var all []models.Record
	for page := start; page <= end; page++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		records, err := s.ScrapePage(ctx, page)
		if err != nil {
			slog.Warn("page failed, continuing with range", "page", page, "error", err)
			continue
		}
		all = append(all, records...)

		if page < end {
			s.wait(ctx)
		}
	}

	slog.Info("range scraped", "start", start, "end", end, "companies", len(all))
	return all, nil
}

// extractLiveRows pulls the outer HTML of each visible company row and
// runs the extractor over it. Rows that fail to read or yield no company
// name are skipped.
func (s *Scraper) extractLiveRows(ctx context.Context, page int) []models.Record {
	p := s.session.Page().Context(ctx)

	rows, err := p.Elements(extract.RowSelector)
	if err != nil {
		slog.Warn("failed to query company rows", "page", page, "error", err)
		return nil
	}

	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		rowHTML, err := row.HTML()
		if err != nil {
			slog.Debug("failed to read row HTML", "page", page, "error", err)
			continue
		}
		rec := extract.ListRecord(rowHTML, s.cfg.Scraper.BaseURL)
		if rec.Name() != "" {
			records = append(records, rec)
		}
	}
	return records
}

// recordsFromHTML extracts listing records from static page HTML, dropping
// rows that yielded no company name.
func recordsFromHTML(pageHTML, baseURL string) []models.Record {
	records := extract.ListRecords(pageHTML, baseURL)
	kept := records[:0]
	for _, rec := range records {
		if rec.Name() != "" {
			kept = append(kept, rec)
		}
	}
	return kept
}
