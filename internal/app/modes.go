package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/perpcost/internal/server"
	"github.com/alanyoungcy/perpcost/internal/server/handler"
	"github.com/alanyoungcy/perpcost/internal/server/ws"
	"github.com/alanyoungcy/perpcost/internal/service"
)

// ServerMode runs the HTTP + WebSocket API. Comparisons happen on demand per
// request; no background sweep runs.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)

	hub := ws.NewHub(a.logger)
	g.Go(func() error {
		return hub.Run(ctx)
	})

	a.startFeed(ctx, g, deps)
	a.startHTTPServer(ctx, g, deps, hub)

	return g.Wait()
}

// CompareMode runs one comparison sweep over the configured watch assets and
// order sizes, writes the results as JSON to stdout, and exits.
func (a *App) CompareMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting compare mode")

	assets := a.cfg.Watch.Assets
	sizes := a.cfg.Watch.OrderSizesUsd
	if len(assets) == 0 || len(sizes) == 0 {
		return fmt.Errorf("compare mode: watch.assets and watch.order_sizes_usd must be set")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for _, asset := range assets {
		for _, size := range sizes {
			result, err := deps.Aggregator.Compare(ctx, asset, size, nil)
			if err != nil {
				return fmt.Errorf("compare mode: %s $%.0f: %w", asset, size, err)
			}
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("compare mode: encode result: %w", err)
			}
		}
	}
	return nil
}

// WatchMode runs the periodic comparison sweep with alerting but no HTTP
// server.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting watch mode")

	g, ctx := errgroup.WithContext(ctx)

	a.startFeed(ctx, g, deps)

	watcher := service.NewWatchService(deps.Aggregator, deps.Notifier, nil, service.WatchConfig{
		Interval:      a.cfg.Watch.Interval.Duration,
		Assets:        a.cfg.Watch.Assets,
		OrderSizesUsd: a.cfg.Watch.OrderSizesUsd,
	}, a.logger)
	g.Go(func() error {
		return watcher.Run(ctx)
	})

	return g.Wait()
}

// FullMode runs everything: the HTTP + WebSocket API, the periodic watch
// sweep publishing into the hub, and the live feed when enabled.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)

	hub := ws.NewHub(a.logger)
	g.Go(func() error {
		return hub.Run(ctx)
	})

	a.startFeed(ctx, g, deps)

	watcher := service.NewWatchService(deps.Aggregator, deps.Notifier, hub, service.WatchConfig{
		Interval:      a.cfg.Watch.Interval.Duration,
		Assets:        a.cfg.Watch.Assets,
		OrderSizesUsd: a.cfg.Watch.OrderSizesUsd,
	}, a.logger)
	g.Go(func() error {
		return watcher.Run(ctx)
	})

	a.startHTTPServer(ctx, g, deps, hub)

	return g.Wait()
}

// startFeed adds the live Hyperliquid feed goroutine when the feed is wired.
func (a *App) startFeed(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	if deps.Feed == nil {
		return
	}
	g.Go(func() error {
		defer deps.Feed.Close()
		return deps.Feed.Run(ctx)
	})
}

// startHTTPServer adds the HTTP server goroutines to the given errgroup when
// the server is enabled. The server is shut down gracefully when the context
// is cancelled.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, hub *ws.Hub) {
	if !a.cfg.Server.Enabled {
		a.logger.InfoContext(ctx, "HTTP server disabled by config")
		return
	}

	handlers := server.Handlers{
		Health:  handler.NewHealthHandler(deps.Aggregator, a.logger),
		Compare: handler.NewCompareHandler(deps.Aggregator, a.logger),
		Catalog: handler.NewCatalogHandler(deps.Aggregator, a.logger),
	}
	srv := server.NewServer(server.Config{
		Port:            a.cfg.Server.Port,
		CORSOrigins:     a.cfg.Server.CORSOrigins,
		APIKey:          a.cfg.Server.APIKey,
		RateLimiter:     deps.RateLimiter,
		RateLimitPerSec: a.cfg.Server.RateLimitPerSec,
	}, handlers, hub, a.logger)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
}
