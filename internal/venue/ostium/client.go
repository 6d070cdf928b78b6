// Package ostium adapts the Ostium price feed. Ostium is an oracle-priced
// venue: there is no book to walk, only a published bid/mid/ask per pair,
// so the snapshot carries an oracle quote with the half-spread in bps.
package ostium

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

const defaultBaseURL = "https://metadata-backend.ostium.io"

// Client is the feed adapter for Ostium.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an Ostium adapter. An empty baseURL selects production.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Venue implements domain.Adapter.
func (c *Client) Venue() domain.VenueID { return domain.VenueOstium }

type feedPrice struct {
	Pair         string  `json:"pair"`
	Bid          float64 `json:"bid"`
	Mid          float64 `json:"mid"`
	Ask          float64 `json:"ask"`
	IsMarketOpen bool    `json:"isMarketOpen"`
	TimestampMs  int64   `json:"timestamp"`
}

// Fetch retrieves the latest published prices and extracts the quote for
// the given pair, e.g. "XAUUSD".
func (c *Client) Fetch(ctx context.Context, ticker string) (domain.MarketSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/PricePublish/latest-prices", nil)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("ostium: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("ostium: latest prices: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("ostium: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.MarketSnapshot{}, fmt.Errorf("ostium: latest prices: status %d: %s", resp.StatusCode, body)
	}

	var prices []feedPrice
	if err := json.Unmarshal(body, &prices); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("ostium: decode latest prices: %w", err)
	}

	for _, p := range prices {
		if !strings.EqualFold(normalizePair(p.Pair), ticker) {
			continue
		}
		if !p.IsMarketOpen {
			return domain.MarketSnapshot{}, fmt.Errorf("ostium: market %s is closed", ticker)
		}
		mid := p.Mid
		if mid <= 0 {
			mid = (p.Bid + p.Ask) / 2
		}
		if mid <= 0 {
			return domain.MarketSnapshot{}, fmt.Errorf("ostium: no price for %s", ticker)
		}

		ts := time.Now().UTC()
		if p.TimestampMs > 0 {
			ts = time.UnixMilli(p.TimestampMs).UTC()
		}
		return domain.NewOracleSnapshot(
			domain.VenueOstium,
			"",
			domain.OracleQuote{
				Price:     mid,
				SpreadBps: halfSpreadBps(p.Bid, p.Ask, mid),
			},
			ts,
		), nil
	}
	return domain.MarketSnapshot{}, fmt.Errorf("ostium: no feed entry for %s", ticker)
}

// normalizePair flattens feed pair names like "XAU/USD" to "XAUUSD".
func normalizePair(pair string) string {
	return strings.ReplaceAll(pair, "/", "")
}

// halfSpreadBps is the one-way spread around mid. Feeds occasionally omit
// one side of the quote; a missing side means no measurable spread.
func halfSpreadBps(bid, ask, mid float64) float64 {
	if bid <= 0 || ask <= 0 || ask < bid {
		return 0
	}
	return (ask - bid) / 2 / mid * 10000
}
