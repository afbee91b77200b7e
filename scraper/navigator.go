package scraper

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/use-agent/saasdex/extract"
)

// Pagination tuning. The listing swaps rows in place via AJAX, so advancing
// is detected by watching row counts and the leading company names rather
// than URL changes.
const (
	nextButtonSelector = "a.pagination_button__gUpxa.pagination_special_button__XQ4Z3.pagination-next-link"

	signatureSize     = 5
	expectedRowCount  = 20
	settleTimeout     = 30 * time.Second
	settlePoll        = 2 * time.Second
	nextButtonTimeout = 10 * time.Second
	postScrollPause   = 2 * time.Second
)

// Advance moves the live listing from currentPage to the next page:
// dismiss overlays, record the page signature, click the next button, wait
// for the swapped-in rows to settle, and confirm the content actually
// changed. Returns false on any failure; the page may then hold stale or
// partial content and the caller should fall back.
func (s *Session) Advance(ctx context.Context, currentPage int) bool {
	p := s.page.Context(ctx)

	dismissOverlays(p)
	simulateHumanBehavior(p)

	before := pageSignature(p)

	next, err := p.Timeout(nextButtonTimeout).Element(nextButtonSelector)
	if err != nil {
		slog.Warn("next button not found", "page", currentPage, "error", err)
		return false
	}

	if err := next.ScrollIntoView(); err != nil {
		slog.Debug("scroll to next button failed", "error", err)
	}
	sleepCtx(ctx, postScrollPause)

	if !clickNext(next) {
		slog.Warn("next button could not be clicked", "page", currentPage)
		return false
	}

	settled := s.waitForContentSettle(ctx, expectedRowCount, settleTimeout)
	if !settled {
		slog.Warn("paginated content did not settle", "page", currentPage)
	}

	after := pageSignature(p)
	if !advanceOutcome(settled, before, after) {
		slog.Warn("pagination did not produce new content",
			"page", currentPage, "settled", settled)
		return false
	}

	slog.Info("advanced to next page", "from", currentPage, "to", currentPage+1)
	return true
}

// advanceOutcome decides whether a pagination attempt succeeded: the
// settle wait must have completed AND the leading signature entry must
// have changed. A settled page showing the same companies is a failure.
func advanceOutcome(settled bool, before, after []string) bool {
	return settled && signatureChanged(before, after)
}

// clickNext tries a script-dispatched click first (immune to elements
// overlapping the button), then falls back to a native input click.
func clickNext(el *rod.Element) bool {
	if _, err := el.Eval(`() => this.click()`); err == nil {
		return true
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
		return true
	}
	return false
}

// waitForContentSettle polls the row count until it reaches expected or
// the deadline passes, nudging the page with human-like activity between
// polls. Returns true only when a full page of rows arrived.
func (s *Session) waitForContentSettle(ctx context.Context, expected int, deadline time.Duration) bool {
	attempts := int(deadline / settlePoll)
	lastCount := 0

	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return false
		}
		if els, err := s.page.Elements(extract.RowSelector); err == nil {
			count := len(els)
			if count != lastCount {
				slog.Debug("row count changed while settling", "from", lastCount, "to", count)
				lastCount = count
			}
			if count >= expected {
				return true
			}
		}
		simulateHumanBehavior(s.page)
		sleepCtx(ctx, settlePoll)
	}
	return false
}

// pageSignature returns the first few company names on the live page, used
// to tell whether an in-place AJAX swap actually happened.
func pageSignature(p *rod.Page) []string {
	rows, err := p.Elements(extract.RowSelector)
	if err != nil {
		return nil
	}

	sig := make([]string, 0, signatureSize)
	for _, row := range rows {
		if len(sig) >= signatureSize {
			break
		}
		links, err := row.Elements(extract.NameLinkSelector)
		if err != nil || links.Empty() {
			continue
		}
		text, err := links.First().Text()
		if err != nil {
			continue
		}
		if name := strings.TrimSpace(text); name != "" {
			sig = append(sig, name)
		}
	}
	return sig
}

// signatureChanged reports whether pagination produced new content. An
// empty signature on either side means the comparison is inconclusive and
// counts as no change.
func signatureChanged(before, after []string) bool {
	if len(before) == 0 || len(after) == 0 {
		return false
	}
	return before[0] != after[0]
}
