package scraper

import (
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Resource types that never contribute to extraction. Blocking them cuts
// page weight and load time on image-heavy listing pages.
var blockedResourceTypes = map[proto.NetworkResourceType]struct{}{
	proto.NetworkResourceTypeImage: {},
	proto.NetworkResourceTypeFont:  {},
	proto.NetworkResourceTypeMedia: {},
}

// setupHijack mounts a request router on the page that fails requests for
// blocked resource types and passes everything else through untouched.
func setupHijack(page *rod.Page) *rod.HijackRouter {
	router := page.HijackRequests()

	err := router.Add("*", "", func(ctx *rod.Hijack) {
		if _, blocked := blockedResourceTypes[ctx.Request.Type()]; blocked {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})
	if err != nil {
		// Pages still load without the hijack, just heavier.
		slog.Warn("request hijack unavailable", "error", err)
	}

	go router.Run()
	return router
}
