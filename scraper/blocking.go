package scraper

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-rod/rod"
	"golang.org/x/net/html"

	"github.com/use-agent/saasdex/extract"
)

// blockedContentThreshold is the minimum plausible byte length of a real
// listing page. Anti-bot interstitials are consistently tiny.
const blockedContentThreshold = 5000

// Substrings that mark anti-bot or access-denied pages. Matched
// case-insensitively against the whole document.
var blockingIndicators = []string{
	"blocked",
	"captcha",
	"cloudflare",
	"access denied",
	"please wait",
	"checking your browser",
	"ddos protection",
}

// BlockedContent reports whether raw page HTML looks like an anti-bot or
// challenge page rather than a real listing: implausibly short, carrying a
// known indicator substring, or containing zero company rows.
func BlockedContent(pageHTML string) bool {
	if len(pageHTML) < blockedContentThreshold {
		return true
	}
	if containsIndicator(pageHTML) {
		return true
	}
	return countRecordRows(pageHTML) == 0
}

func containsIndicator(pageHTML string) bool {
	lower := strings.ToLower(pageHTML)
	for _, indicator := range blockingIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// countRecordRows counts company rows in static HTML. A page that fails to
// parse counts as zero rows, which callers treat as blocked.
func countRecordRows(pageHTML string) int {
	sel, err := cascadia.Parse(extract.RowSelector)
	if err != nil {
		return 0
	}
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return 0
	}
	return len(cascadia.QueryAll(doc, sel))
}

// BlockedPage is the live-page variant of BlockedContent: it reads the
// current DOM and row elements from the browser. Any failure to read the
// page is treated as blocked.
func BlockedPage(page *rod.Page) bool {
	pageHTML, err := page.HTML()
	if err != nil {
		return true
	}
	if len(pageHTML) < blockedContentThreshold {
		return true
	}
	if containsIndicator(pageHTML) {
		return true
	}
	rows, err := page.Elements(extract.RowSelector)
	if err != nil {
		return true
	}
	return len(rows) == 0
}
