package config

import (
	"testing"
	"time"

	"github.com/ramonehamilton/edh-architect/internal/builder"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}

	ttl, err := cfg.GetCacheTTL()
	if err != nil {
		t.Fatalf("GetCacheTTL() error = %v", err)
	}
	if ttl != 5*time.Minute {
		t.Errorf("cache TTL = %v, want 5m", ttl)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad ttl", func(c *Config) { c.Providers.CacheTTL = "five minutes" }, true},
		{"negative cache size", func(c *Config) { c.Providers.CacheSize = -1 }, true},
		{"negative rate limit", func(c *Config) { c.Providers.RateLimitMs = -5 }, true},
		{"unknown format", func(c *Config) { c.Builder.Format = "modern" }, true},
		{"brawl format", func(c *Config) { c.Builder.Format = "brawl" }, false},
		{"duel format", func(c *Config) { c.Builder.Format = "duel" }, false},
		{"negative target", func(c *Config) { c.Builder.RampTarget = -1 }, true},
		{"negative gap count", func(c *Config) { c.Builder.GapDisplayCount = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Providers.EdhrecBaseURL != DefaultConfig().Providers.EdhrecBaseURL {
		t.Errorf("Load() without file = %+v, want defaults", cfg.Providers)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Builder.RampTarget = 12
	cfg.Collection.WatchCombos = true
	cfg.App.DebugMode = true

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Builder.RampTarget != 12 {
		t.Errorf("RampTarget = %d, want 12", loaded.Builder.RampTarget)
	}
	if !loaded.Collection.WatchCombos || !loaded.App.DebugMode {
		t.Errorf("loaded = %+v, want persisted flags", loaded)
	}
}

func TestTunables(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Builder.DrawTarget = 11
	cfg.Builder.ComboMinOverlap = 3

	tunables := cfg.Tunables()
	if tunables.SubRoleBaseline[builder.CategoryDraw] != 11 {
		t.Errorf("draw baseline = %d, want 11", tunables.SubRoleBaseline[builder.CategoryDraw])
	}
	if tunables.ComboMinOverlap != 3 {
		t.Errorf("ComboMinOverlap = %d, want 3", tunables.ComboMinOverlap)
	}
	if tunables.GapDisplayCount != builder.DefaultTunables().GapDisplayCount {
		t.Errorf("GapDisplayCount = %d, want default passthrough", tunables.GapDisplayCount)
	}
}
