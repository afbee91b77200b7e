package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// Fallback tries its engines strictly in order and returns the first
// success. The order encodes retrieval preference: the browser engine goes
// first when configured, plain HTTP last. A per-host Memory short-circuits
// straight to the engine that last worked for a host, so a site that keeps
// blocking the browser is not re-probed through it on every page.
type Fallback struct {
	engines []Engine
	memory  *Memory
}

// NewFallback creates a Fallback over the given engines, tried in slice
// order. memory may be nil to disable the per-host shortcut.
func NewFallback(engines []Engine, memory *Memory) *Fallback {
	return &Fallback{engines: engines, memory: memory}
}

func (f *Fallback) Name() string { return "fallback" }

// Fetch runs the ordered fallback for the given request.
func (f *Fallback) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	host := extractHost(req.URL)

	// A remembered winner is tried first; on failure the entry is dropped
	// and the normal order runs.
	if f.memory != nil {
		if remembered := f.memory.Get(host); remembered != "" {
			for _, eng := range f.engines {
				if eng.Name() != remembered {
					continue
				}
				slog.Debug("host memory hit", "host", host, "engine", remembered)
				result, err := eng.Fetch(ctx, req)
				if err == nil {
					return result, nil
				}
				slog.Info("remembered engine failed, trying full order",
					"host", host, "engine", remembered, "error", err)
				f.memory.Delete(host)
				break
			}
		}
	}

	var lastErr error
	for _, eng := range f.engines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := eng.Fetch(ctx, req)
		if err != nil {
			slog.Warn("engine failed, falling back",
				"engine", eng.Name(), "url", req.URL, "error", err)
			lastErr = err
			continue
		}

		if f.memory != nil {
			f.memory.Set(host, eng.Name())
		}
		return result, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("fallback: no engines configured")
	}
	return nil, fmt.Errorf("fallback: all engines failed for %s: %w", req.URL, lastErr)
}

// extractHost parses the hostname from a URL string.
func extractHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
