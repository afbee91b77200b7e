package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/saasdex/config"
	"github.com/use-agent/saasdex/engine"
	"github.com/use-agent/saasdex/models"
)

// DOM-stability wait parameters for browser fetches.
const (
	domStableWindow = 300 * time.Millisecond
	domStableDiff   = 0.1
)

// Session owns the single live browser connection: one rod browser, one
// page. It is never shared across goroutines; all browser work funnels
// through the one logical flow that holds the Session.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	router  *rod.HijackRouter
	settle  time.Duration
	timeout time.Duration
}

// NewSession launches a hardened headless browser and opens its single
// working page. settle is the fixed pause after each navigation; timeout
// bounds readiness waits.
func NewSession(cfg config.Browser, settle, timeout time.Duration) (*Session, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("window-size"), "1920,1080")
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("no-default-browser-check"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-default-apps"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		)
	}

	// Stealth JS must be installed before the first navigation.
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
	}

	router := setupHijack(page)

	slog.Info("browser session ready", "headless", cfg.Headless)
	return &Session{
		browser: browser,
		page:    page,
		router:  router,
		settle:  settle,
		timeout: timeout,
	}, nil
}

// Page returns the session's working page.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Close stops the hijack router and kills the browser process. Call on
// shutdown to prevent zombie Chrome processes.
func (s *Session) Close() {
	if s.router != nil {
		_ = s.router.Stop()
	}
	if err := s.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
	slog.Info("browser session closed")
}

// Fetch navigates the session page to pageURL, sleeps the settle delay to
// let client-side rendering start, waits (bounded) for the DOM to stop
// mutating, and returns the rendered HTML.
func (s *Session) Fetch(ctx context.Context, pageURL string) (string, error) {
	p := s.page.Context(ctx)

	if err := p.Navigate(pageURL); err != nil {
		return "", categorizeError(err, "navigation failed")
	}
	sleepCtx(ctx, s.settle)

	if err := p.Timeout(s.timeout).WaitDOMStable(domStableWindow, domStableDiff); err != nil {
		slog.Debug("DOM did not stabilize, proceeding with current state",
			"url", pageURL, "error", err)
	}

	html, err := p.HTML()
	if err != nil {
		return "", categorizeError(err, "failed to extract page HTML")
	}
	return html, nil
}

// fetchReady is Fetch with a required readiness selector: the element must
// appear within the session timeout or the fetch fails. An empty selector
// degrades to the plain DOM-stability wait.
func (s *Session) fetchReady(ctx context.Context, pageURL, waitSelector string) (string, error) {
	if waitSelector == "" {
		return s.Fetch(ctx, pageURL)
	}

	p := s.page.Context(ctx)
	if err := p.Navigate(pageURL); err != nil {
		return "", categorizeError(err, "navigation failed")
	}
	sleepCtx(ctx, s.settle)

	if err := p.Timeout(s.timeout).WaitElementsMoreThan(waitSelector, 0); err != nil {
		if BlockedPage(s.page) {
			return "", models.NewScrapeError(models.ErrCodeBlocked,
				"page looks blocked while waiting for "+waitSelector, err)
		}
		return "", categorizeError(err, "required element never appeared: "+waitSelector)
	}

	html, err := p.HTML()
	if err != nil {
		return "", categorizeError(err, "failed to extract page HTML")
	}
	return html, nil
}

// EngineFetch adapts the session to the engine.BrowserFetchFunc callback.
// A plausible Google referer is set when the caller did not supply one.
// When the request names a wait selector, the fetch fails unless that
// element appears; a render that looks blocked is also a failure, so the
// fallback chain can move on to the HTTP engine and the host memory can
// record that the browser does not work for this host.
func (s *Session) EngineFetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	headers := make(map[string]string, len(req.Headers)+1)
	if _, hasReferer := req.Headers["Referer"]; !hasReferer {
		if u, err := url.Parse(req.URL); err == nil {
			headers["Referer"] = "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
		}
	}
	for k, v := range req.Headers {
		headers[k] = v
	}
	if len(headers) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(headers),
		}.Call(s.page)
	}

	fetchCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, req.Timeout+s.settle)
		defer cancel()
	}

	html, err := s.fetchReady(fetchCtx, req.URL, req.WaitSelector)
	if err != nil {
		return nil, err
	}

	if len(html) < blockedContentThreshold || containsIndicator(html) {
		return nil, models.NewScrapeError(models.ErrCodeBlocked,
			"rendered page looks blocked", nil)
	}

	finalURL := evalStringOrEmpty(s.page, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &engine.FetchResult{
		HTML:     html,
		Title:    evalStringOrEmpty(s.page, `() => document.title`),
		FinalURL: finalURL,
	}, nil
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// sleepCtx pauses for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// categorizeError wraps raw errors into typed ScrapeErrors so callers can
// log a meaningful failure class.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "fetch canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
