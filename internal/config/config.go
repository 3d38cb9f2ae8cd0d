package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/edh-architect/internal/builder"
)

// Config represents the application configuration.
type Config struct {
	// Recommendation and card database provider settings
	Providers ProvidersConfig `toml:"providers"`

	// Local collection database settings
	Collection CollectionConfig `toml:"collection"`

	// Deck composition tunables
	Builder BuilderConfig `toml:"builder"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ProvidersConfig contains upstream client settings.
type ProvidersConfig struct {
	EdhrecBaseURL   string `toml:"edhrec_base_url"`   // Recommendation page endpoint
	ScryfallBaseURL string `toml:"scryfall_base_url"` // Card database endpoint
	CacheTTL        string `toml:"cache_ttl"`         // Page cache TTL (e.g., "5m")
	CacheSize       int    `toml:"cache_size"`        // Max cached pages
	RateLimitMs     int    `toml:"rate_limit_ms"`     // Min spacing between requests
}

// CollectionConfig contains local storage settings.
type CollectionConfig struct {
	DBPath      string `toml:"db_path"`       // SQLite database path ("" = default)
	ComboDBPath string `toml:"combo_db_path"` // Combo database JSON file
	WatchCombos bool   `toml:"watch_combos"`  // Reload combo file on change
	RoleFile    string `toml:"role_file"`     // Optional card role tag file
}

// BuilderConfig contains deck composition tunables.
type BuilderConfig struct {
	Format          string `toml:"format"`            // commander, brawl, or duel
	RampTarget      int    `toml:"ramp_target"`       // Baseline ramp slots
	DrawTarget      int    `toml:"draw_target"`       // Baseline card draw slots
	RemovalTarget   int    `toml:"removal_target"`    // Baseline spot removal slots
	WipeTarget      int    `toml:"wipe_target"`       // Baseline board wipe slots
	SynergyTarget   int    `toml:"synergy_target"`    // Baseline synergy slots
	UtilityTarget   int    `toml:"utility_target"`    // Baseline utility slots
	GapDisplayCount int    `toml:"gap_display_count"` // "Cards to consider" cap
	ComboMinOverlap int    `toml:"combo_min_overlap"` // Near-miss overlap threshold
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	tunables := builder.DefaultTunables()
	return &Config{
		Providers: ProvidersConfig{
			EdhrecBaseURL:   "https://json.edhrec.com/pages",
			ScryfallBaseURL: "https://api.scryfall.com",
			CacheTTL:        "5m",
			CacheSize:       256,
			RateLimitMs:     500,
		},
		Collection: CollectionConfig{
			DBPath:      "",
			ComboDBPath: "",
			WatchCombos: false,
			RoleFile:    "",
		},
		Builder: BuilderConfig{
			Format:          string(builder.FormatCommander),
			RampTarget:      tunables.SubRoleBaseline[builder.CategoryRamp],
			DrawTarget:      tunables.SubRoleBaseline[builder.CategoryDraw],
			RemovalTarget:   tunables.SubRoleBaseline[builder.CategoryRemoval],
			WipeTarget:      tunables.SubRoleBaseline[builder.CategoryWipes],
			SynergyTarget:   tunables.SubRoleBaseline[builder.CategorySynergy],
			UtilityTarget:   tunables.SubRoleBaseline[builder.CategoryUtility],
			GapDisplayCount: tunables.GapDisplayCount,
			ComboMinOverlap: tunables.ComboMinOverlap,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".edh-architect")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// DefaultDBPath returns the default collection database location.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".edh-architect", "collection.db"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Providers.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache TTL %q: %w", c.Providers.CacheTTL, err)
	}

	if c.Providers.CacheSize < 0 {
		return fmt.Errorf("cache size cannot be negative: %d", c.Providers.CacheSize)
	}

	if c.Providers.RateLimitMs < 0 {
		return fmt.Errorf("rate limit cannot be negative: %d", c.Providers.RateLimitMs)
	}

	switch builder.Format(c.Builder.Format) {
	case builder.FormatCommander, builder.FormatBrawl, builder.FormatDuel:
	default:
		return fmt.Errorf("unknown format: %q", c.Builder.Format)
	}

	for name, value := range map[string]int{
		"ramp_target":       c.Builder.RampTarget,
		"draw_target":       c.Builder.DrawTarget,
		"removal_target":    c.Builder.RemovalTarget,
		"wipe_target":       c.Builder.WipeTarget,
		"synergy_target":    c.Builder.SynergyTarget,
		"utility_target":    c.Builder.UtilityTarget,
		"gap_display_count": c.Builder.GapDisplayCount,
		"combo_min_overlap": c.Builder.ComboMinOverlap,
	} {
		if value < 0 {
			return fmt.Errorf("%s cannot be negative: %d", name, value)
		}
	}

	return nil
}

// GetCacheTTL returns the provider cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Providers.CacheTTL)
}

// Tunables converts the builder section into composition tunables.
func (c *Config) Tunables() builder.Tunables {
	return builder.Tunables{
		SubRoleBaseline: map[string]int{
			builder.CategoryRamp:    c.Builder.RampTarget,
			builder.CategoryDraw:    c.Builder.DrawTarget,
			builder.CategoryRemoval: c.Builder.RemovalTarget,
			builder.CategoryWipes:   c.Builder.WipeTarget,
			builder.CategorySynergy: c.Builder.SynergyTarget,
			builder.CategoryUtility: c.Builder.UtilityTarget,
		},
		GapDisplayCount: c.Builder.GapDisplayCount,
		ComboMinOverlap: c.Builder.ComboMinOverlap,
	}
}
