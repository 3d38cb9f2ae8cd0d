package edhrec

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testPage = `{
	"container": {"json_dict": {
		"card": {"name": "Ezuri, Claw of Progress"},
		"cardlists": [
			{"header": "High Synergy Cards", "tag": "highsynergy", "cardviews": [
				{"name": "Sage of Hours", "num_decks": 500, "potential_decks": 1000, "synergy": 0.62}
			]},
			{"header": "Creatures", "tag": "creature", "cardviews": [
				{"name": "Llanowar Elves", "num_decks": 700, "potential_decks": 1000},
				{"name": "", "num_decks": 5, "potential_decks": 10}
			]},
			{"header": "Lands", "tag": "land", "cardviews": [
				{"name": "Command Tower", "num_decks": 950, "potential_decks": 1000, "prices": {"usd": 0.5}}
			]}
		]
	}},
	"panels": {
		"taglinks": [{"value": "+1/+1 Counters", "slug": "1-1-counters", "count": 1200}],
		"deckstats": {"creature": 28, "land": 37, "nonbasic": 15, "mana_curve": {"2": 13, "9": 2}}
	},
	"similar": [{"name": "Animar, Soul of Elements"}]
}`

func testClient(serverURL string) *Client {
	config := DefaultConfig()
	config.BaseURL = serverURL
	config.RateLimitMs = 0
	return NewClient(config, nil)
}

func TestFetchCommanderData(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(testPage))
	}))
	defer server.Close()

	client := testClient(server.URL)
	data, err := client.FetchCommanderData(context.Background(), "Ezuri, Claw of Progress", "")
	if err != nil {
		t.Fatalf("FetchCommanderData() error = %v", err)
	}

	if gotPath != "/commanders/ezuri-claw-of-progress.json" {
		t.Errorf("request path = %s, want /commanders/ezuri-claw-of-progress.json", gotPath)
	}
	if data.Name != "Ezuri, Claw of Progress" {
		t.Errorf("Name = %s", data.Name)
	}
	if len(data.HighSynergy) != 1 || data.HighSynergy[0].Name != "Sage of Hours" {
		t.Errorf("HighSynergy = %v, want [Sage of Hours]", data.HighSynergy)
	}
	// The empty-name view is dropped, not fatal.
	if len(data.CardLists) != 2 {
		t.Fatalf("CardLists = %d, want 2", len(data.CardLists))
	}
	if data.CardLists[0].Tag != "creature" || len(data.CardLists[0].Cards) != 1 {
		t.Errorf("first list = %+v, want one creature", data.CardLists[0])
	}
	if data.Stats == nil || data.Stats.Land != 37 {
		t.Errorf("Stats = %+v, want land 37", data.Stats)
	}
	// Curve values above 7 group under 7.
	if data.Stats.ManaCurve[7] != 2 {
		t.Errorf("curve[7] = %v, want 2", data.Stats.ManaCurve[7])
	}
	if len(data.Themes) != 1 || data.Themes[0].Slug != "1-1-counters" {
		t.Errorf("Themes = %v", data.Themes)
	}
}

func TestFetchCommanderDataThemePath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(testPage))
	}))
	defer server.Close()

	client := testClient(server.URL)
	if _, err := client.FetchCommanderData(context.Background(), "Ezuri, Claw of Progress", "1-1-counters"); err != nil {
		t.Fatalf("FetchCommanderData() error = %v", err)
	}
	if gotPath != "/commanders/ezuri-claw-of-progress/1-1-counters.json" {
		t.Errorf("request path = %s", gotPath)
	}
}

func TestFetchCommanderDataNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.FetchCommanderData(context.Background(), "No Such Commander", "")
	if err == nil {
		t.Fatal("error = nil, want ErrNotFound")
	}
}

func TestFetchCommanderDataCaches(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(testPage))
	}))
	defer server.Close()

	client := testClient(server.URL)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := client.FetchCommanderData(ctx, "Ezuri, Claw of Progress", ""); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1 (cached)", requests)
	}

	client.ResetCache()
	if _, err := client.FetchCommanderData(ctx, "Ezuri, Claw of Progress", ""); err != nil {
		t.Fatal(err)
	}
	if requests != 2 {
		t.Errorf("requests = %d after reset, want 2", requests)
	}
}

func TestFetchRawRetriesOn429(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(testPage))
	}))
	defer server.Close()

	client := testClient(server.URL)
	start := time.Now()
	_, err := client.FetchCommanderData(context.Background(), "Ezuri, Claw of Progress", "")
	if err != nil {
		t.Fatalf("FetchCommanderData() error = %v, want retry success", err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
	if time.Since(start) < retryBackoff {
		t.Error("retry happened before the backoff elapsed")
	}
}

func TestFetchRawGivesUpAfterSecond429(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testClient(server.URL)
	if _, err := client.FetchCommanderData(context.Background(), "Ezuri, Claw of Progress", ""); err == nil {
		t.Fatal("error = nil, want rate-limit failure after one retry")
	}
}

func TestFetchPartnerDataAlternateOrdering(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/commanders/thrasios-triton-hero-tymna-the-weaver.json" {
			w.Write([]byte(testPage))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := testClient(server.URL)
	data, err := client.FetchPartnerData(context.Background(), "Tymna the Weaver", "Thrasios, Triton Hero")
	if err != nil {
		t.Fatalf("FetchPartnerData() error = %v", err)
	}
	if data == nil || data.Name == "" {
		t.Error("partner page empty")
	}
	if len(paths) != 2 {
		t.Errorf("paths = %v, want the failed ordering then the alternate", paths)
	}
}

func TestFetchPartnerDataRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/commanders/tymna-the-weaver-thrasios-triton-hero.json" {
			w.Write([]byte(`{"redirect": "/commanders/thrasios-triton-hero-tymna-the-weaver"}`))
			return
		}
		w.Write([]byte(testPage))
	}))
	defer server.Close()

	client := testClient(server.URL)
	data, err := client.FetchPartnerData(context.Background(), "Tymna the Weaver", "Thrasios, Triton Hero")
	if err != nil {
		t.Fatalf("FetchPartnerData() error = %v", err)
	}
	if data.Name != "Ezuri, Claw of Progress" {
		t.Errorf("Name = %s, want the redirected page's commander", data.Name)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ezuri, Claw of Progress", "ezuri-claw-of-progress"},
		{"+1/+1 Counters", "1-1-counters"},
		{"Atraxa, Praetors' Voice", "atraxa-praetors-voice"},
		{"  Spaced  Out  ", "spaced-out"},
		{"Jhoira of the Ghitu", "jhoira-of-the-ghitu"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
