package themes

import (
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name      string
		theme     string
		wantKnown bool
	}{
		{"exact match", "tokens", true},
		{"case insensitive", "Tokens", true},
		{"trimmed", "  lifegain  ", true},
		{"punctuated name", "+1/+1 counters", true},
		{"unknown", "dinosaur tribal", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := Lookup(tt.theme)
			if ok != tt.wantKnown {
				t.Fatalf("Lookup(%q) known = %v, want %v", tt.theme, ok, tt.wantKnown)
			}
			if ok && (q.Primary == "" || len(q.Keywords) == 0) {
				t.Errorf("Lookup(%q) returned incomplete query: %+v", tt.theme, q)
			}
			if Known(tt.theme) != tt.wantKnown {
				t.Errorf("Known(%q) = %v, want %v", tt.theme, !tt.wantKnown, tt.wantKnown)
			}
		})
	}
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	if len(names) != len(registry) {
		t.Fatalf("len(Names()) = %d, want %d", len(names), len(registry))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names() not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
	for _, name := range names {
		if !Known(name) {
			t.Errorf("Names() entry %q not resolvable via Known", name)
		}
	}
}

func TestMergeThemes(t *testing.T) {
	merged := MergeThemes([]string{"tokens", "aristocrats"})

	if !strings.Contains(merged.CombinedQuery, " or ") {
		t.Errorf("CombinedQuery = %q, want OR-joined primaries", merged.CombinedQuery)
	}
	tokensQ, _ := Lookup("tokens")
	aristoQ, _ := Lookup("aristocrats")
	if !strings.Contains(merged.CombinedQuery, tokensQ.Primary) ||
		!strings.Contains(merged.CombinedQuery, aristoQ.Primary) {
		t.Errorf("CombinedQuery = %q, missing a primary expression", merged.CombinedQuery)
	}

	// Both themes carry "sacrifice"-adjacent keywords; the union must not
	// repeat any.
	seen := make(map[string]int)
	for _, kw := range merged.Keywords {
		seen[kw]++
	}
	for kw, n := range seen {
		if n > 1 {
			t.Errorf("keyword %q appears %d times, want deduplicated", kw, n)
		}
	}
	if len(merged.Keywords) >= len(tokensQ.Keywords)+len(aristoQ.Keywords)+1 {
		t.Errorf("keyword union too large: %d", len(merged.Keywords))
	}
}

func TestMergeThemesUnknownContributesNothing(t *testing.T) {
	merged := MergeThemes([]string{"dinosaur tribal"})
	if merged.CombinedQuery != "" || len(merged.Keywords) != 0 {
		t.Errorf("MergeThemes(unknown) = %+v, want empty", merged)
	}

	withKnown := MergeThemes([]string{"mill", "dinosaur tribal"})
	millQ, _ := Lookup("mill")
	if len(withKnown.Keywords) != len(millQ.Keywords) {
		t.Errorf("keywords = %v, want only the known theme's", withKnown.Keywords)
	}
}
