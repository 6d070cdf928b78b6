package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PERPCOST_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PERPCOST_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Venues ──
	setBool(&cfg.Venues.Hyperliquid.Enabled, "PERPCOST_VENUES_HYPERLIQUID_ENABLED")
	setStr(&cfg.Venues.Hyperliquid.BaseURL, "PERPCOST_VENUES_HYPERLIQUID_BASE_URL")
	setBool(&cfg.Venues.Lighter.Enabled, "PERPCOST_VENUES_LIGHTER_ENABLED")
	setStr(&cfg.Venues.Lighter.BaseURL, "PERPCOST_VENUES_LIGHTER_BASE_URL")
	setBool(&cfg.Venues.Paradex.Enabled, "PERPCOST_VENUES_PARADEX_ENABLED")
	setStr(&cfg.Venues.Paradex.BaseURL, "PERPCOST_VENUES_PARADEX_BASE_URL")
	setBool(&cfg.Venues.Vertex.Enabled, "PERPCOST_VENUES_VERTEX_ENABLED")
	setStr(&cfg.Venues.Vertex.BaseURL, "PERPCOST_VENUES_VERTEX_BASE_URL")
	setBool(&cfg.Venues.Ostium.Enabled, "PERPCOST_VENUES_OSTIUM_ENABLED")
	setStr(&cfg.Venues.Ostium.BaseURL, "PERPCOST_VENUES_OSTIUM_BASE_URL")
	setBool(&cfg.Venues.Avantis.Enabled, "PERPCOST_VENUES_AVANTIS_ENABLED")
	setStr(&cfg.Venues.Avantis.BaseURL, "PERPCOST_VENUES_AVANTIS_BASE_URL")
	setBool(&cfg.Venues.GTrade.Enabled, "PERPCOST_VENUES_GTRADE_ENABLED")
	setStr(&cfg.Venues.GTrade.BaseURL, "PERPCOST_VENUES_GTRADE_BASE_URL")

	// ── Comparison ──
	setDuration(&cfg.Comparison.FreshnessWindow, "PERPCOST_COMPARISON_FRESHNESS_WINDOW")
	setDuration(&cfg.Comparison.FetchTimeout, "PERPCOST_COMPARISON_FETCH_TIMEOUT")
	setFloat64(&cfg.Comparison.TrailingVolumeUsd, "PERPCOST_COMPARISON_TRAILING_VOLUME_USD")

	// ── Feed ──
	setBool(&cfg.Feed.Enabled, "PERPCOST_FEED_ENABLED")
	setStr(&cfg.Feed.WsURL, "PERPCOST_FEED_WS_URL")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "PERPCOST_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "PERPCOST_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "PERPCOST_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "PERPCOST_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "PERPCOST_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "PERPCOST_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "PERPCOST_REDIS_TLS_ENABLED")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "PERPCOST_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "PERPCOST_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "PERPCOST_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "PERPCOST_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimitPerSec, "PERPCOST_SERVER_RATE_LIMIT_PER_SEC")

	// ── Watch ──
	setDuration(&cfg.Watch.Interval, "PERPCOST_WATCH_INTERVAL")
	setStringSlice(&cfg.Watch.Assets, "PERPCOST_WATCH_ASSETS")
	setFloat64Slice(&cfg.Watch.OrderSizesUsd, "PERPCOST_WATCH_ORDER_SIZES_USD")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "PERPCOST_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "PERPCOST_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "PERPCOST_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "PERPCOST_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "PERPCOST_MODE")
	setStr(&cfg.LogLevel, "PERPCOST_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}

func setFloat64Slice(dst *[]float64, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]float64, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if f, err := strconv.ParseFloat(p, 64); err == nil {
				cleaned = append(cleaned, f)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
