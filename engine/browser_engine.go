package engine

import (
	"context"
	"fmt"
)

// BrowserFetchFunc is the callback type that wraps the live browser session's
// fetch logic. It is injected from main.go to avoid a circular import
// (engine/ -> scraper/).
type BrowserFetchFunc func(ctx context.Context, req *FetchRequest) (*FetchResult, error)

// BrowserEngine retrieves pages through the rod browser session via an
// injected callback. The session itself stays owned by the scraper; this
// type only adapts it to the Engine interface.
type BrowserEngine struct {
	fetchFunc BrowserFetchFunc
}

// NewBrowserEngine creates a BrowserEngine around the given callback.
func NewBrowserEngine(fetchFunc BrowserFetchFunc) *BrowserEngine {
	return &BrowserEngine{fetchFunc: fetchFunc}
}

func (e *BrowserEngine) Name() string { return "browser" }

func (e *BrowserEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if e.fetchFunc == nil {
		return nil, fmt.Errorf("browser: fetchFunc not configured")
	}

	result, err := e.fetchFunc(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("browser: %w", err)
	}

	result.EngineName = e.Name()
	return result, nil
}
