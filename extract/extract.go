// Package extract maps raw listing and profile markup to company records.
// All functions are total: missing or malformed markup yields a partially
// populated record, never an error.
package extract

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/saasdex/models"
)

// Listing table selectors. The class names are build artifacts of the site's
// CSS modules and change when the site redeploys; they are the single point
// of maintenance here.
const (
	RowSelector      = "tr.data-table_row__aX_dq"
	cellSelector     = "td.data-table_cell__a_9gs"
	NameLinkSelector = "a.cells_link__PfQot"
	founderSelector  = "a.cells_name__pBrsJ"
	industrySelector = "a.saas-companies_ellipses__Y9AeV"
	lockSelector     = "button.btn_lock"
)

// Column positions in the listing table.
const (
	cellName     = 1
	cellRevenue  = 2
	cellFunding  = 6
	cellGrowth   = 8
	cellFounder  = 9
	cellLocation = 13
	cellIndustry = 14
	minCells     = 14
)

// ListRecords extracts one record per listing row found in a full page.
func ListRecords(pageHTML, baseURL string) []models.Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil
	}

	var records []models.Record
	doc.Find(RowSelector).Each(func(_ int, row *goquery.Selection) {
		records = append(records, recordFromRow(row, baseURL))
	})
	return records
}

// ListRecord extracts a record from a single row's markup.
func ListRecord(rowHTML, baseURL string) models.Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rowHTML))
	if err != nil {
		return models.Record{}
	}
	return recordFromRow(doc.Selection, baseURL)
}

func recordFromRow(row *goquery.Selection, baseURL string) models.Record {
	rec := models.Record{}

	cells := row.Find(cellSelector)
	if cells.Length() < minCells {
		return rec
	}

	// Name cell carries the company name plus its detail, LinkedIn and
	// website links.
	nameCell := cells.Eq(cellName)
	nameLink := nameCell.Find(NameLinkSelector).First()
	if name := strings.TrimSpace(nameLink.Text()); name != "" {
		rec[models.FieldName] = name
	}
	if href, ok := nameLink.Attr("href"); ok && href != "" {
		rec[models.FieldHyperlink] = resolveURL(baseURL, href)
	}
	nameCell.Find("a[href*='linkedin.com']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if href, ok := s.Attr("href"); ok {
			rec[models.FieldLinkedin] = href
			return false
		}
		return true
	})
	nameCell.Find("a[href^='//']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if href, ok := s.Attr("href"); ok {
			rec[models.FieldWebsite] = "https:" + href
			return false
		}
		return true
	})

	// Metric cells show a lock button instead of a value on gated rows.
	setUnlocked(rec, models.FieldRevenue, cells.Eq(cellRevenue))
	setUnlocked(rec, models.FieldFunding, cells.Eq(cellFunding))
	setUnlocked(rec, models.FieldGrowth, cells.Eq(cellGrowth))

	if founder := strings.TrimSpace(cells.Eq(cellFounder).Find(founderSelector).First().Text()); founder != "" {
		rec[models.FieldFounder] = founder
	}
	if location := strings.TrimSpace(cells.Eq(cellLocation).Find("a").First().Text()); location != "" {
		rec[models.FieldLocation] = location
	}
	if cells.Length() > cellIndustry {
		if industry := strings.TrimSpace(cells.Eq(cellIndustry).Find(industrySelector).First().Text()); industry != "" {
			rec[models.FieldIndustry] = industry
		}
	}

	return rec
}

// setUnlocked stores the cell text unless the cell is gated behind a lock
// button.
func setUnlocked(rec models.Record, field string, cell *goquery.Selection) {
	if cell.Find(lockSelector).Length() > 0 {
		return
	}
	if text := strings.TrimSpace(cell.Text()); text != "" {
		rec[field] = text
	}
}

// ProfileRecord extracts the detail-page fields: description, the headline
// indicators (founded year plus revenue/growth/funding overrides) and the
// team table (employee count, CEO).
func ProfileRecord(pageHTML string) models.Record {
	rec := models.Record{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return rec
	}

	if desc := strings.TrimSpace(doc.Find("p.p-text.p-text_details").First().Text()); desc != "" {
		rec[models.FieldDescription] = desc
	}

	doc.Find("section#details div.indicators div.indicators__i").Each(func(_ int, ind *goquery.Selection) {
		text := ind.Find("div.indicators-text")
		value := strings.TrimSpace(text.Find("h4.h4").First().Text())
		label := strings.ToLower(strings.TrimSpace(text.Find("p.p-indicators").First().Text()))
		if value == "" || label == "" {
			return
		}
		switch {
		case strings.Contains(label, "founded"):
			rec[models.FieldFoundedYear] = value
		case strings.Contains(label, "revenue"):
			rec[models.FieldRevenue] = value
		case strings.Contains(label, "yoy"):
			rec[models.FieldGrowth] = value
		case strings.Contains(label, "funding"):
			rec[models.FieldFunding] = value
		}
	})

	if raw := teamTableValue(doc, "total team size"); raw != "" {
		if count, ok := ParseEmployeeCount(raw); ok {
			rec[models.FieldEmployeeCount] = count
		}
	}
	if ceo := teamTableValue(doc, "ceo"); ceo != "" {
		rec[models.FieldCEO] = ceo
	}

	return rec
}

// teamTableValue finds the team-table row whose bullet cell contains label
// (case-insensitive) and returns the text of the adjacent value cell.
func teamTableValue(doc *goquery.Document, label string) string {
	var value string
	doc.Find("section#team table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		bullet := strings.ToLower(strings.TrimSpace(row.Find("td.table__td_bullet").First().Text()))
		if !strings.Contains(bullet, label) {
			return true
		}
		value = strings.TrimSpace(row.Find("td").Eq(1).Text())
		return false
	})
	return value
}

// ParseEmployeeCount converts an employee count like "1.4K", "2M" or "500"
// to an integer. The second return value reports whether the input parsed.
func ParseEmployeeCount(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	multiplier := 1.0
	switch {
	case strings.Contains(s, "K"):
		multiplier = 1_000
		s = strings.ReplaceAll(s, "K", "")
	case strings.Contains(s, "M"):
		multiplier = 1_000_000
		s = strings.ReplaceAll(s, "M", "")
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return int(n * multiplier), true
}

// resolveURL makes href absolute against base; on any parse failure the raw
// href is returned as-is.
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	resolved, err := b.Parse(href)
	if err != nil {
		return href
	}
	return resolved.String()
}
