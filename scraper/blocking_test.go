package scraper

import (
	"strings"
	"testing"
)

// pad returns filler that pushes a document past the short-content
// threshold without containing any blocking indicator.
func pad() string {
	return "<div>" + strings.Repeat("z", blockedContentThreshold+1000) + "</div>"
}

func row() string {
	return `<table><tr class="data-table_row__aX_dq"><td>Acme</td></tr></table>`
}

func TestBlockedContent(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		blocked bool
	}{
		{
			name:    "short content is blocked",
			html:    "<html><body>tiny</body></html>",
			blocked: true,
		},
		{
			name:    "indicator match is blocked regardless of length",
			html:    "<html><body>" + pad() + row() + "Checking your browser before accessing</body></html>",
			blocked: true,
		},
		{
			name:    "indicator matches case-insensitively",
			html:    "<html><body>" + pad() + row() + "<div>CLOUDFLARE</div></body></html>",
			blocked: true,
		},
		{
			name:    "adequate page with rows and no indicators is clean",
			html:    "<html><body>" + pad() + row() + "</body></html>",
			blocked: false,
		},
		{
			name:    "adequate page with zero rows is blocked",
			html:    "<html><body>" + pad() + "</body></html>",
			blocked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BlockedContent(tt.html); got != tt.blocked {
				t.Errorf("BlockedContent = %v, want %v", got, tt.blocked)
			}
		})
	}
}

func TestCountRecordRows(t *testing.T) {
	html := "<html><body><table>" +
		strings.Repeat(`<tr class="data-table_row__aX_dq"><td>x</td></tr>`, 7) +
		`<tr class="other"><td>y</td></tr>` +
		"</table></body></html>"

	if got := countRecordRows(html); got != 7 {
		t.Errorf("countRecordRows = %d, want 7", got)
	}
	if got := countRecordRows("<html><body></body></html>"); got != 0 {
		t.Errorf("countRecordRows on empty page = %d, want 0", got)
	}
}
