package scraper

import "testing"

func TestSignatureChanged(t *testing.T) {
	tests := []struct {
		name    string
		before  []string
		after   []string
		changed bool
	}{
		{"both empty", nil, nil, false},
		{"before empty", nil, []string{"Acme"}, false},
		{"after empty", []string{"Acme"}, nil, false},
		{"identical leaders", []string{"Acme", "Beta"}, []string{"Acme", "Gamma"}, false},
		{"leader changed", []string{"Acme", "Beta"}, []string{"Zeta", "Beta"}, true},
		{"single entries differ", []string{"Acme"}, []string{"Beta"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := signatureChanged(tt.before, tt.after); got != tt.changed {
				t.Errorf("signatureChanged(%v, %v) = %v, want %v",
					tt.before, tt.after, got, tt.changed)
			}
		})
	}
}

func TestAdvanceOutcome(t *testing.T) {
	same := []string{"Acme", "Beta"}
	next := []string{"Zeta", "Beta"}

	if advanceOutcome(true, same, same) {
		t.Error("settled page showing the same companies must not count as advanced")
	}
	if advanceOutcome(false, same, next) {
		t.Error("unsettled page must not count as advanced even with new companies")
	}
	if advanceOutcome(false, same, same) {
		t.Error("neither settled nor changed must not count as advanced")
	}
	if !advanceOutcome(true, same, next) {
		t.Error("settled page with a new leading company should count as advanced")
	}
}
