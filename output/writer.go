// Package output writes scrape results as pretty-printed JSON files.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/use-agent/saasdex/models"
)

// Result file names. Page-addressed runs use the page/range forms; the
// default navigator-driven run uses the list forms.
const (
	ListFile         = "companies_list.json"
	DetailedListFile = "detailed_companies.json"
)

// PageFile names the result file for a single listing page.
func PageFile(page int) string {
	return fmt.Sprintf("companies_page_%d.json", page)
}

// RangeFile names the result file for an inclusive page range.
func RangeFile(start, end int) string {
	return fmt.Sprintf("companies_pages_%d_to_%d.json", start, end)
}

// DetailedPageFile names the enriched result file for a single page.
func DetailedPageFile(page int) string {
	return fmt.Sprintf("detailed_companies_page_%d.json", page)
}

// DetailedRangeFile names the enriched result file for a page range.
func DetailedRangeFile(start, end int) string {
	return fmt.Sprintf("detailed_companies_pages_%d_to_%d.json", start, end)
}

// Writer persists record sets into a fixed output directory.
type Writer struct {
	dir string
}

// NewWriter creates the output directory if needed. Failure here happens
// before any results exist, so it propagates to the caller.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeOutput,
			"failed to create output directory", err)
	}
	return &Writer{dir: dir}, nil
}

// Save writes records to filename inside the output directory as a
// pretty-printed UTF-8 JSON array with non-ASCII characters preserved.
func (w *Writer) Save(filename string, records []models.Record) error {
	path := filepath.Join(w.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return models.NewScrapeError(models.ErrCodeOutput,
			fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return models.NewScrapeError(models.ErrCodeOutput,
			fmt.Sprintf("failed to encode %s", path), err)
	}
	return nil
}
