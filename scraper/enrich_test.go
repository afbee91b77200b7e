package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/use-agent/saasdex/models"
)

const profilePage = `<html><body>
<p class="p-text p-text_details">Makes widgets for widget factories.</p>
<section id="details"><div class="indicators">
  <div class="indicators__i"><div class="indicators-text">
    <h4 class="h4">2015</h4><p class="p-indicators">Founded</p>
  </div></div>
  <div class="indicators__i"><div class="indicators-text">
    <h4 class="h4">$12M</h4><p class="p-indicators">Revenue</p>
  </div></div>
</div></section>
<section id="team"><table>
  <tr><td class="table__td_bullet">Total team size</td><td>1.4K</td></tr>
  <tr><td class="table__td_bullet">CEO</td><td>Jane Smith</td></tr>
</table></section>
</body></html>`

// profileServer serves the same profile document for every /company/ path
// and a 500 for /broken.
func profileServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, profilePage)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testRecords(baseURL string, n int) []models.Record {
	records := make([]models.Record, n)
	for i := range records {
		records[i] = models.Record{
			models.FieldName:      fmt.Sprintf("company-%d", i),
			models.FieldHyperlink: fmt.Sprintf("%s/company/%d", baseURL, i),
		}
	}
	return records
}

func TestChunkRecords(t *testing.T) {
	tests := []struct {
		records, size, wantChunks int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{23, 5, 5},
		{7, 1, 7},
		{4, 0, 4}, // degenerate size clamps to 1
	}

	for _, tt := range tests {
		records := testRecords("http://x", tt.records)
		chunks := chunkRecords(records, tt.size)

		if len(chunks) != tt.wantChunks {
			t.Errorf("chunkRecords(%d records, size %d) = %d chunks, want %d",
				tt.records, tt.size, len(chunks), tt.wantChunks)
		}

		// Every record must land in exactly one chunk, in order.
		var flat []models.Record
		for _, c := range chunks {
			flat = append(flat, c...)
		}
		if len(flat) != tt.records {
			t.Errorf("chunks cover %d records, want %d", len(flat), tt.records)
			continue
		}
		for i, rec := range flat {
			if rec.Name() != fmt.Sprintf("company-%d", i) {
				t.Errorf("record %d out of place: %q", i, rec.Name())
				break
			}
		}
	}
}

func TestEnrichProfiles_HTTPPool(t *testing.T) {
	srv := profileServer(t)
	s := New(testConfig(srv.URL))
	defer s.Close()

	records := testRecords(srv.URL, 7)
	enriched := s.EnrichProfiles(context.Background(), records)

	if len(enriched) != len(records) {
		t.Fatalf("got %d records, want %d", len(enriched), len(records))
	}

	// Completion order may differ from input order, but no record may be
	// lost or duplicated, and each must carry the profile fields.
	seen := map[string]int{}
	for _, rec := range enriched {
		seen[rec.Name()]++

		if rec[models.FieldFoundedYear] != "2015" {
			t.Errorf("%s: founded_year = %v", rec.Name(), rec[models.FieldFoundedYear])
		}
		if rec[models.FieldEmployeeCount] != 1400 {
			t.Errorf("%s: employee_count = %v", rec.Name(), rec[models.FieldEmployeeCount])
		}
		if rec[models.FieldCEO] != "Jane Smith" {
			t.Errorf("%s: ceo_name = %v", rec.Name(), rec[models.FieldCEO])
		}
	}
	for name, count := range seen {
		if count != 1 {
			t.Errorf("record %s appears %d times", name, count)
		}
	}
}

func TestEnrichProfiles_PreserveOrder(t *testing.T) {
	srv := profileServer(t)
	cfg := testConfig(srv.URL)
	cfg.Enrich.PreserveOrder = true
	cfg.Enrich.Workers = 3
	s := New(cfg)
	defer s.Close()

	records := testRecords(srv.URL, 9)
	enriched := s.EnrichProfiles(context.Background(), records)

	if len(enriched) != len(records) {
		t.Fatalf("got %d records, want %d", len(enriched), len(records))
	}
	for i, rec := range enriched {
		if want := fmt.Sprintf("company-%d", i); rec.Name() != want {
			t.Errorf("record %d = %q, want %q", i, rec.Name(), want)
		}
	}
}

func TestEnrichProfiles_KeepsFailedAndLinkless(t *testing.T) {
	srv := profileServer(t)
	s := New(testConfig(srv.URL))
	defer s.Close()

	records := []models.Record{
		{models.FieldName: "no-link"},
		{models.FieldName: "broken", models.FieldHyperlink: srv.URL + "/broken"},
		{models.FieldName: "good", models.FieldHyperlink: srv.URL + "/company/good"},
	}
	enriched := s.EnrichProfiles(context.Background(), records)

	if len(enriched) != 3 {
		t.Fatalf("got %d records, want 3", len(enriched))
	}

	byName := map[string]models.Record{}
	for _, rec := range enriched {
		byName[rec.Name()] = rec
	}

	if _, ok := byName["no-link"][models.FieldFoundedYear]; ok {
		t.Error("record without profile link should stay unenriched")
	}
	if _, ok := byName["broken"][models.FieldFoundedYear]; ok {
		t.Error("record with failing profile fetch should keep listing fields only")
	}
	if byName["good"][models.FieldFoundedYear] != "2015" {
		t.Error("reachable profile should be merged in")
	}
}

func TestEnrichProfiles_EmptyInput(t *testing.T) {
	s := New(testConfig("http://unused"))
	defer s.Close()

	if got := s.EnrichProfiles(context.Background(), nil); len(got) != 0 {
		t.Errorf("enriching nothing should yield nothing, got %d", len(got))
	}
}
