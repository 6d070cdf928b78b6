package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/perpcost/internal/cache/redis"
	"github.com/alanyoungcy/perpcost/internal/config"
	"github.com/alanyoungcy/perpcost/internal/domain"
	"github.com/alanyoungcy/perpcost/internal/engine"
	"github.com/alanyoungcy/perpcost/internal/feed"
	"github.com/alanyoungcy/perpcost/internal/notify"
	"github.com/alanyoungcy/perpcost/internal/refdata"
	"github.com/alanyoungcy/perpcost/internal/venue"
	"github.com/alanyoungcy/perpcost/internal/venue/avantis"
	"github.com/alanyoungcy/perpcost/internal/venue/gtrade"
	"github.com/alanyoungcy/perpcost/internal/venue/hyperliquid"
	"github.com/alanyoungcy/perpcost/internal/venue/lighter"
	"github.com/alanyoungcy/perpcost/internal/venue/ostium"
	"github.com/alanyoungcy/perpcost/internal/venue/paradex"
	"github.com/alanyoungcy/perpcost/internal/venue/vertex"
)

// Dependencies bundles every domain-level dependency that the application modes
// need to operate. It is constructed by Wire and torn down by the returned
// cleanup function.
type Dependencies struct {
	// Registry holds the final adapter per venue (REST, cached, or live feed).
	Registry *venue.Registry

	// Aggregator is the comparison engine over the registry's adapters.
	Aggregator *engine.Aggregator

	// Caches (nil unless Redis is enabled).
	SnapshotCache domain.SnapshotCache
	RateLimiter   domain.RateLimiter

	// Feed is the live Hyperliquid book feed (nil unless feed is enabled).
	// Modes that use it must run Feed.Run in their errgroup.
	Feed *feed.HyperliquidFeed

	// Notifications
	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Venue adapters ---
	adapters := buildAdapters(cfg)
	if len(adapters) == 0 {
		cleanup()
		return nil, nil, fmt.Errorf("wire: no venues enabled")
	}

	// --- Redis (optional) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.SnapshotCache = redis.NewSnapshotCache(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)

		// Snapshots stay valid for the freshness window, so that is the TTL.
		ttl := cfg.Comparison.FreshnessWindow.Duration
		for i, a := range adapters {
			adapters[i] = venue.NewCachedAdapter(a, deps.SnapshotCache, ttl, logger)
		}
	}

	// --- Live Hyperliquid feed (optional) ---
	// The feed implements domain.Adapter, so registering it after the REST
	// client makes it win venue resolution while leaving REST as the wiring
	// for every other venue.
	if cfg.Feed.Enabled && cfg.Venues.Hyperliquid.Enabled {
		coins := hyperliquidCoins(cfg.Watch.Assets)
		f := feed.NewHyperliquidFeed(cfg.Feed.WsURL, coins, logger)
		closers = append(closers, f.Close)
		deps.Feed = f
		adapters = append(adapters, f)
	}

	deps.Registry = venue.NewRegistry(adapters...)
	deps.Aggregator = engine.New(deps.Registry.All(), engine.Options{
		FreshnessWindow:   cfg.Comparison.FreshnessWindow.Duration,
		FetchTimeout:      cfg.Comparison.FetchTimeout.Duration,
		TrailingVolumeUsd: cfg.Comparison.TrailingVolumeUsd,
	}, logger)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}

// buildAdapters constructs one REST adapter per enabled venue. An empty
// BaseURL selects each adapter's production default.
func buildAdapters(cfg *config.Config) []domain.Adapter {
	var adapters []domain.Adapter
	if cfg.Venues.Hyperliquid.Enabled {
		adapters = append(adapters, hyperliquid.NewClient(cfg.Venues.Hyperliquid.BaseURL))
	}
	if cfg.Venues.Lighter.Enabled {
		adapters = append(adapters, lighter.NewClient(cfg.Venues.Lighter.BaseURL))
	}
	if cfg.Venues.Paradex.Enabled {
		adapters = append(adapters, paradex.NewClient(cfg.Venues.Paradex.BaseURL))
	}
	if cfg.Venues.Vertex.Enabled {
		adapters = append(adapters, vertex.NewClient(cfg.Venues.Vertex.BaseURL))
	}
	if cfg.Venues.Ostium.Enabled {
		adapters = append(adapters, ostium.NewClient(cfg.Venues.Ostium.BaseURL))
	}
	if cfg.Venues.Avantis.Enabled {
		adapters = append(adapters, avantis.NewClient(cfg.Venues.Avantis.BaseURL))
	}
	if cfg.Venues.GTrade.Enabled {
		adapters = append(adapters, gtrade.NewClient(cfg.Venues.GTrade.BaseURL))
	}
	return adapters
}

// hyperliquidCoins resolves the Hyperliquid tickers for the given asset names.
// Assets Hyperliquid does not list are skipped; an empty asset list subscribes
// to the whole catalog.
func hyperliquidCoins(assets []string) []string {
	var cfgs []domain.AssetConfig
	if len(assets) == 0 {
		cfgs = refdata.Assets()
	} else {
		for _, name := range assets {
			ac, err := refdata.AssetByName(name)
			if err != nil {
				continue
			}
			cfgs = append(cfgs, ac)
		}
	}

	var coins []string
	for _, ac := range cfgs {
		if ticker, ok := ac.Ticker(domain.VenueHyperliquid); ok {
			coins = append(coins, ticker)
		}
	}
	return coins
}
