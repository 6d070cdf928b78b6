// Package config defines the top-level configuration for the comparison
// service and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by PERPCOST_* environment variables.
type Config struct {
	Venues     VenuesConfig     `toml:"venues"`
	Comparison ComparisonConfig `toml:"comparison"`
	Feed       FeedConfig       `toml:"feed"`
	Redis      RedisConfig      `toml:"redis"`
	Server     ServerConfig     `toml:"server"`
	Watch      WatchConfig      `toml:"watch"`
	Notify     NotifyConfig     `toml:"notify"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// VenueConfig holds the per-venue connection parameters. An empty BaseURL
// selects the adapter's production default.
type VenueConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
}

// VenuesConfig holds one entry per supported venue.
type VenuesConfig struct {
	Hyperliquid VenueConfig `toml:"hyperliquid"`
	Lighter     VenueConfig `toml:"lighter"`
	Paradex     VenueConfig `toml:"paradex"`
	Vertex      VenueConfig `toml:"vertex"`
	Ostium      VenueConfig `toml:"ostium"`
	Avantis     VenueConfig `toml:"avantis"`
	GTrade      VenueConfig `toml:"gtrade"`
}

// ComparisonConfig holds the cost-engine parameters.
type ComparisonConfig struct {
	// FreshnessWindow is the maximum accepted snapshot age.
	FreshnessWindow duration `toml:"freshness_window"`
	// FetchTimeout bounds each per-venue fetch.
	FetchTimeout duration `toml:"fetch_timeout"`
	// TrailingVolumeUsd feeds venue fee-tier resolution.
	TrailingVolumeUsd float64 `toml:"trailing_volume_usd"`
}

// FeedConfig holds the live Hyperliquid WebSocket feed parameters.
type FeedConfig struct {
	Enabled bool   `toml:"enabled"`
	WsURL   string `toml:"ws_url"`
}

// RedisConfig holds Redis connection parameters. Redis is optional: when
// disabled, snapshots are fetched directly on every comparison.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled         bool     `toml:"enabled"`
	Port            int      `toml:"port"`
	CORSOrigins     []string `toml:"cors_origins"`
	APIKey          string   `toml:"api_key"`
	RateLimitPerSec int      `toml:"rate_limit_per_sec"`
}

// WatchConfig holds the periodic comparison loop parameters.
type WatchConfig struct {
	Interval duration `toml:"interval"`
	Assets   []string `toml:"assets"`
	// OrderSizesUsd is the list of notional sizes compared per asset.
	OrderSizesUsd []float64 `toml:"order_sizes_usd"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	enabled := VenueConfig{Enabled: true}
	return Config{
		Venues: VenuesConfig{
			Hyperliquid: enabled,
			Lighter:     enabled,
			Paradex:     enabled,
			Vertex:      enabled,
			Ostium:      enabled,
			Avantis:     enabled,
			GTrade:      enabled,
		},
		Comparison: ComparisonConfig{
			FreshnessWindow:   duration{30 * time.Second},
			FetchTimeout:      duration{10 * time.Second},
			TrailingVolumeUsd: 0,
		},
		Feed: FeedConfig{
			Enabled: false,
			WsURL:   "wss://api.hyperliquid.xyz/ws",
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Server: ServerConfig{
			Enabled:         true,
			Port:            8000,
			CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimitPerSec: 10,
		},
		Watch: WatchConfig{
			Interval:      duration{1 * time.Minute},
			Assets:        []string{"GOLD", "EURUSD"},
			OrderSizesUsd: []float64{1_000, 10_000, 100_000},
		},
		Notify: NotifyConfig{
			Events: []string{"best_venue_change", "all_venues_failed"},
		},
		Mode:     "server",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"server":  true,
	"compare": true,
	"watch":   true,
	"full":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: server, compare, watch, full)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Comparison
	if c.Comparison.FreshnessWindow.Duration <= 0 {
		errs = append(errs, "comparison: freshness_window must be > 0")
	}
	if c.Comparison.FetchTimeout.Duration <= 0 {
		errs = append(errs, "comparison: fetch_timeout must be > 0")
	}
	if c.Comparison.TrailingVolumeUsd < 0 {
		errs = append(errs, "comparison: trailing_volume_usd must be >= 0")
	}

	// At least one venue must be enabled.
	if len(c.EnabledVenues()) == 0 {
		errs = append(errs, "venues: at least one venue must be enabled")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
		if c.Server.RateLimitPerSec < 0 {
			errs = append(errs, "server: rate_limit_per_sec must be >= 0")
		}
	}

	// Watch — only meaningful in watch/full modes.
	mode := strings.ToLower(c.Mode)
	if mode == "watch" || mode == "full" {
		if c.Watch.Interval.Duration <= 0 {
			errs = append(errs, "watch: interval must be > 0")
		}
		if len(c.Watch.Assets) == 0 {
			errs = append(errs, "watch: at least one asset is required for mode "+mode)
		}
		for _, size := range c.Watch.OrderSizesUsd {
			if size <= 0 {
				errs = append(errs, fmt.Sprintf("watch: order sizes must be positive, got %v", size))
				break
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// EnabledVenues returns the names of venues with Enabled set, in a fixed
// order matching the venue table.
func (c *Config) EnabledVenues() []string {
	var out []string
	for _, v := range []struct {
		name string
		cfg  VenueConfig
	}{
		{"avantis", c.Venues.Avantis},
		{"gtrade", c.Venues.GTrade},
		{"hyperliquid", c.Venues.Hyperliquid},
		{"lighter", c.Venues.Lighter},
		{"ostium", c.Venues.Ostium},
		{"paradex", c.Venues.Paradex},
		{"vertex", c.Venues.Vertex},
	} {
		if v.cfg.Enabled {
			out = append(out, v.name)
		}
	}
	return out
}
