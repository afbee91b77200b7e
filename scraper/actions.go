package scraper

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// Selectors for common cookie banners, modals and newsletter popups that
// sit over the listing and swallow clicks.
var overlayCloseSelectors = []string{
	"button[aria-label='Close']",
	".modal-close",
	".popup-close",
	".overlay-close",
	"[data-dismiss='modal']",
	".btn-close",
}

// dismissOverlays clicks any visible close buttons and then presses Escape.
// Strictly best effort: every failure is swallowed, the page may simply
// have no overlays.
func dismissOverlays(page *rod.Page) {
	for _, sel := range overlayCloseSelectors {
		has, el, err := page.Has(sel)
		if err != nil || !has {
			continue
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
			time.Sleep(500 * time.Millisecond)
		}
	}
	_ = page.Keyboard.Press(input.Escape)
}

// simulateHumanBehavior emits a small randomized burst of activity between
// page interactions: mouseover events at random coordinates, a wheel
// scroll, and a hover over an arbitrary element. All failures are ignored.
func simulateHumanBehavior(page *rod.Page) {
	moves := 2 + rand.Intn(4)
	for i := 0; i < moves; i++ {
		x := 100 + rand.Intn(700)
		y := 100 + rand.Intn(500)
		js := fmt.Sprintf(
			`() => document.elementFromPoint(%d, %d)?.dispatchEvent(new MouseEvent("mouseover", {bubbles: true}))`,
			x, y)
		_, _ = page.Eval(js)
		randSleep(100, 300)
	}

	_ = page.Mouse.Scroll(0, float64(100+rand.Intn(200)), 1)
	randSleep(500, 1000)

	if els, err := page.Elements("div"); err == nil && len(els) > 0 {
		limit := len(els)
		if limit > 20 {
			limit = 20
		}
		_ = els[rand.Intn(limit)].Hover()
		randSleep(200, 500)
	}
}

// randSleep pauses for a random duration in [minMs, maxMs) milliseconds.
func randSleep(minMs, maxMs int) {
	time.Sleep(time.Duration(minMs+rand.Intn(maxMs-minMs)) * time.Millisecond)
}
