package scraper

import (
	"context"
	"log/slog"

	"github.com/use-agent/saasdex/extract"
	"github.com/use-agent/saasdex/models"
)

// ScrapeList runs the default scrape: open the listing once and walk the
// configured number of pages by clicking through the live pagination. If
// the browser path fails at any point (blocked content, pagination that
// never settles, no session at all), the whole range is re-fetched through
// the HTTP engine instead.
func (s *Scraper) ScrapeList(ctx context.Context) []models.Record {
	pages := s.cfg.Scraper.DefaultPages

	if s.session != nil {
		records, err := s.scrapeListBrowser(ctx, pages)
		if err == nil && len(records) > 0 {
			return records
		}
		if err != nil {
			slog.Warn("browser listing walk failed, switching to HTTP", "error", err)
		} else {
			slog.Warn("browser listing walk found no companies, switching to HTTP")
		}
	}

	records, err := s.ScrapeRange(ctx, 1, pages)
	if err != nil {
		slog.Error("HTTP fallback failed", "error", err)
		return nil
	}
	return records
}

// scrapeListBrowser opens the listing and clicks through pages one by one.
// It returns an error, discarding partial results, when the content looks
// blocked or pagination breaks; the caller then retries the full range
// over HTTP rather than stitching a partial browser run together.
func (s *Scraper) scrapeListBrowser(ctx context.Context, pages int) ([]models.Record, error) {
	p := s.session.Page().Context(ctx)

	if err := p.Navigate(s.cfg.Scraper.BaseURL); err != nil {
		return nil, categorizeError(err, "failed to open company listing")
	}
	sleepCtx(ctx, initialSettle)

	var all []models.Record
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		if err := p.Timeout(rowWaitTimeout).WaitElementsMoreThan(extract.RowSelector, 0); err != nil {
			html, herr := s.session.Page().HTML()
			if herr != nil {
				return all, categorizeError(herr, "failed to read page source")
			}
			if len(html) < blockedContentThreshold || containsIndicator(html) {
				slog.Warn("listing page looks blocked", "page", page, "bytes", len(html))
				return all, models.NewScrapeError(models.ErrCodeBlocked,
					"listing page appears blocked", nil)
			}
			// Page loaded but holds no rows; skip it and try to move on.
			slog.Warn("no company rows on loaded page, skipping", "page", page)
		} else {
			records := s.extractLiveRows(ctx, page)
			slog.Info("listing page scraped", "page", page, "companies", len(records))
			all = append(all, records...)
		}

		if page < pages {
			if !s.session.Advance(ctx, page) {
				return all, models.NewScrapeError(models.ErrCodeNavigation,
					"pagination failed", nil)
			}
			s.wait(ctx)
		}
	}

	slog.Info("listing walk complete", "pages", pages, "companies", len(all))
	return all, nil
}
