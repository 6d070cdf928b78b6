// Package feed keeps live market snapshots flowing without per-request REST
// round-trips. The Hyperliquid feed subscribes to l2Book over WebSocket and
// holds the latest book per coin in memory, serving fetches from that store.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alanyoungcy/perpcost/internal/domain"
	"github.com/alanyoungcy/perpcost/internal/venue"
	"github.com/alanyoungcy/perpcost/internal/venue/hyperliquid"
)

const (
	defaultWSURL = "wss://api.hyperliquid.xyz/ws"

	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// pingPeriod sends pings to the peer at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// reconnectDelay is the base delay before attempting to reconnect.
	reconnectDelay = 2 * time.Second

	// maxReconnectDelay caps the exponential backoff for reconnection.
	maxReconnectDelay = 60 * time.Second
)

// HyperliquidFeed maintains live l2Book snapshots for a set of coins. It
// implements domain.Adapter, so the wiring layer can register it in place of
// the REST client once Run is started.
type HyperliquidFeed struct {
	wsURL  string
	coins  []string
	logger *slog.Logger

	mu     sync.RWMutex
	latest map[string]domain.MarketSnapshot // coin -> snapshot

	closeOnce sync.Once
	done      chan struct{}
}

// NewHyperliquidFeed creates a feed for the given coins. An empty wsURL
// selects the mainnet endpoint.
func NewHyperliquidFeed(wsURL string, coins []string, logger *slog.Logger) *HyperliquidFeed {
	if wsURL == "" {
		wsURL = defaultWSURL
	}
	return &HyperliquidFeed{
		wsURL:  wsURL,
		coins:  coins,
		logger: logger.With(slog.String("component", "hyperliquid_ws_feed")),
		latest: make(map[string]domain.MarketSnapshot),
		done:   make(chan struct{}),
	}
}

// Venue implements domain.Adapter.
func (f *HyperliquidFeed) Venue() domain.VenueID { return domain.VenueHyperliquid }

// Fetch implements domain.Adapter from the in-memory store. Staleness is the
// aggregator's call: the snapshot carries the exchange timestamp of the last
// book message.
func (f *HyperliquidFeed) Fetch(_ context.Context, ticker string) (domain.MarketSnapshot, error) {
	f.mu.RLock()
	snap, ok := f.latest[ticker]
	f.mu.RUnlock()
	if !ok {
		return domain.MarketSnapshot{}, fmt.Errorf("feed: no live book for %s", ticker)
	}
	return snap, nil
}

// Run connects, subscribes to l2Book for the configured coins, and runs until
// ctx is cancelled. Reconnects with backoff on disconnect.
func (f *HyperliquidFeed) Run(ctx context.Context) error {
	if len(f.coins) == 0 {
		f.logger.Info("no coins to subscribe, exiting")
		return nil
	}

	delay := reconnectDelay
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.done:
			return nil
		default:
		}

		err := f.runConnection(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case <-f.done:
			return nil
		default:
		}

		f.logger.Warn("hyperliquid ws disconnected, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("delay", delay),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.done:
			return nil
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

// Close stops the feed.
func (f *HyperliquidFeed) Close() {
	f.closeOnce.Do(func() { close(f.done) })
}

type wsSubscription struct {
	Type string `json:"type"`
	Coin string `json:"coin"`
}

type wsCommand struct {
	Method       string         `json:"method"`
	Subscription wsSubscription `json:"subscription"`
}

type wsEnvelope struct {
	Channel string           `json:"channel"`
	Data    hyperliquid.Book `json:"data"`
}

// runConnection dials, subscribes, and reads messages until the connection
// drops or the context ends.
func (f *HyperliquidFeed) runConnection(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.wsURL, nil)
	if err != nil {
		return fmt.Errorf("feed: connect: %w", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for _, coin := range f.coins {
		cmd := wsCommand{
			Method:       "subscribe",
			Subscription: wsSubscription{Type: "l2Book", Coin: coin},
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(cmd); err != nil {
			return fmt.Errorf("feed: subscribe %s: %w", coin, err)
		}
	}
	f.logger.Info("hyperliquid ws subscribed", slog.Int("coins", len(f.coins)))

	// Close the connection when the context ends so ReadMessage unblocks.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-f.done:
			conn.Close()
		case <-stop:
		}
	}()
	go f.pingLoop(conn, stop)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("feed: read: %w", err)
		}
		f.handleMessage(message)
	}
}

func (f *HyperliquidFeed) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage parses an l2Book message and stores the snapshot. Other
// channels (subscription acks, heartbeats) are dropped.
func (f *HyperliquidFeed) handleMessage(raw []byte) {
	var env wsEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}
	if env.Channel != "l2Book" || env.Data.Coin == "" {
		return
	}

	bids, err := hyperliquid.ParseLevels(env.Data.Levels[0])
	if err != nil {
		f.logger.Debug("bad bid levels", slog.String("coin", env.Data.Coin), slog.String("error", err.Error()))
		return
	}
	asks, err := hyperliquid.ParseLevels(env.Data.Levels[1])
	if err != nil {
		f.logger.Debug("bad ask levels", slog.String("coin", env.Data.Coin), slog.String("error", err.Error()))
		return
	}

	ts := time.Now().UTC()
	if env.Data.TimeMs > 0 {
		ts = time.UnixMilli(env.Data.TimeMs).UTC()
	}
	snap := domain.NewOrderbookSnapshot(
		domain.VenueHyperliquid,
		"",
		venue.CleanBids(bids),
		venue.CleanAsks(asks),
		ts,
	)

	f.mu.Lock()
	f.latest[env.Data.Coin] = snap
	f.mu.Unlock()
}

// Compile-time interface check.
var _ domain.Adapter = (*HyperliquidFeed)(nil)
