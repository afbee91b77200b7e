package main

import (
	"fmt"
	"strconv"
)

// pageRange is the parsed page selection for a run. defaulted marks the
// no-argument form, which walks the default pages through live pagination
// instead of addressing pages by URL.
type pageRange struct {
	start, end int
	defaulted  bool
}

// parseArgs maps command-line arguments to a page selection:
//
//	(no args)      default run over the configured number of pages
//	N              single page N
//	START END      inclusive page range
//
// All validation happens here, before any network activity.
func parseArgs(args []string, defaultPages int) (pageRange, error) {
	switch len(args) {
	case 0:
		return pageRange{start: 1, end: defaultPages, defaulted: true}, nil

	case 1:
		page, err := strconv.Atoi(args[0])
		if err != nil {
			return pageRange{}, fmt.Errorf("invalid page number %q", args[0])
		}
		if page < 1 {
			return pageRange{}, fmt.Errorf("page number must be 1 or greater, got %d", page)
		}
		return pageRange{start: page, end: page}, nil

	case 2:
		start, err := strconv.Atoi(args[0])
		if err != nil {
			return pageRange{}, fmt.Errorf("invalid start page %q", args[0])
		}
		end, err := strconv.Atoi(args[1])
		if err != nil {
			return pageRange{}, fmt.Errorf("invalid end page %q", args[1])
		}
		if start < 1 {
			return pageRange{}, fmt.Errorf("start page must be 1 or greater, got %d", start)
		}
		if end < start {
			return pageRange{}, fmt.Errorf("end page %d is before start page %d", end, start)
		}
		return pageRange{start: start, end: end}, nil

	default:
		return pageRange{}, fmt.Errorf("expected at most 2 arguments, got %d", len(args))
	}
}
