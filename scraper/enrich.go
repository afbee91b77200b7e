package scraper

import (
	"context"
	"log/slog"
	"sync"

	"github.com/use-agent/saasdex/cache"
	"github.com/use-agent/saasdex/engine"
	"github.com/use-agent/saasdex/extract"
	"github.com/use-agent/saasdex/models"
)

const profileReadySelector = "section#details"

// EnrichProfiles visits each record's profile page and merges the detailed
// fields in. With a live browser session the profiles run as one strictly
// sequential pass, each fetch going through the engine fallback (browser
// first, waiting for the details section; HTTP when the browser fails); in
// HTTP-only mode the records are split into chunks worked by a bounded
// pool. A record whose profile fetch fails is kept with its listing fields
// only, so enrichment never loses records.
func (s *Scraper) EnrichProfiles(ctx context.Context, records []models.Record) []models.Record {
	if len(records) == 0 {
		return records
	}

	slog.Info("starting profile enrichment", "companies", len(records))
	if s.session != nil {
		// The single browser page must never be shared, so the whole set
		// runs as one sequential chunk.
		return s.enrichChunk(ctx, records)
	}
	return s.enrichParallel(ctx, records)
}

// enrichParallel splits records into chunks and works them with a bounded
// pool over the HTTP engine. By default enriched chunks are concatenated
// in completion order; PreserveOrder reassembles them in input order.
func (s *Scraper) enrichParallel(ctx context.Context, records []models.Record) []models.Record {
	chunks := chunkRecords(records, s.cfg.Enrich.ChunkSize)

	workers := s.cfg.Enrich.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	var (
		mu        sync.Mutex
		ordered   = make([][]models.Record, len(chunks))
		completed = make([][]models.Record, 0, len(chunks))
	)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				enriched := s.enrichChunk(ctx, chunks[idx])

				mu.Lock()
				if s.cfg.Enrich.PreserveOrder {
					ordered[idx] = enriched
				} else {
					completed = append(completed, enriched)
				}
				mu.Unlock()

				slog.Info("chunk enriched", "chunk", idx+1, "of", len(chunks))
			}
		}()
	}

	for i := range chunks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make([]models.Record, 0, len(records))
	if s.cfg.Enrich.PreserveOrder {
		for _, chunk := range ordered {
			out = append(out, chunk...)
		}
	} else {
		for _, chunk := range completed {
			out = append(out, chunk...)
		}
	}
	return out
}

// enrichChunk enriches one chunk of records through the engine fallback,
// consulting the page cache so a profile URL shared by several records is
// fetched once.
func (s *Scraper) enrichChunk(ctx context.Context, chunk []models.Record) []models.Record {
	out := make([]models.Record, 0, len(chunk))
	for _, rec := range chunk {
		profileURL := rec.ProfileURL()
		if profileURL == "" {
			out = append(out, rec)
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			out = append(out, rec)
			continue
		}

		key := cache.Key(profileURL)
		pageHTML, hit := s.pages.Get(key)
		if !hit {
			res, err := s.fetcher.Fetch(ctx, &engine.FetchRequest{
				URL:          profileURL,
				Timeout:      s.cfg.Scraper.PageTimeout,
				WaitSelector: profileReadySelector,
			})
			if err != nil {
				slog.Warn("profile fetch failed, keeping listing fields",
					"company", rec.Name(), "error", err)
				out = append(out, rec)
				continue
			}
			pageHTML = res.HTML
			s.pages.Set(key, pageHTML)
		}

		out = append(out, rec.Merge(extract.ProfileRecord(pageHTML)))
	}
	return out
}

// chunkRecords splits records into consecutive chunks of at most size
// records. Every record lands in exactly one chunk.
func chunkRecords(records []models.Record, size int) [][]models.Record {
	if size < 1 {
		size = 1
	}
	chunks := make([][]models.Record, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}
