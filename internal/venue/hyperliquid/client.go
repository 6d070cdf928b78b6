// Package hyperliquid adapts the Hyperliquid info API. Market depth comes
// from the l2Book query: a POST with the coin name returning bid and ask
// ladders as decimal strings.
package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/alanyoungcy/perpcost/internal/domain"
	"github.com/alanyoungcy/perpcost/internal/venue"
)

const defaultBaseURL = "https://api.hyperliquid.xyz/info"

// Client is the REST adapter for Hyperliquid.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Hyperliquid adapter. An empty baseURL selects the
// mainnet info endpoint.
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
func (c *Client) Venue() domain.VenueID { return domain.VenueHyperliquid }

// Level is one ladder entry in the l2Book response. Prices and sizes are
// decimal strings.
type Level struct {
	Px string `json:"px"`
	Sz string `json:"sz"`
	N  int    `json:"n"`
}

// Book is the response to an l2Book info query. Levels[0] is the bid side,
// Levels[1] the ask side.
type Book struct {
	Coin   string     `json:"coin"`
	TimeMs int64      `json:"time"`
	Levels [2][]Level `json:"levels"`
}

// Fetch retrieves the L2 book for the given coin and translates it into an
// orderbook snapshot.
func (c *Client) Fetch(ctx context.Context, ticker string) (domain.MarketSnapshot, error) {
	reqBody, err := json.Marshal(map[string]string{
		"type": "l2Book",
		"coin": ticker,
	})
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("hyperliquid: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(reqBody))
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("hyperliquid: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("hyperliquid: l2Book %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("hyperliquid: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.MarketSnapshot{}, fmt.Errorf("hyperliquid: l2Book %s: status %d: %s", ticker, resp.StatusCode, truncate(body))
	}

	var book Book
	if err := json.Unmarshal(body, &book); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("hyperliquid: decode l2Book: %w", err)
	}

	bids, err := ParseLevels(book.Levels[0])
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("hyperliquid: parse bids: %w", err)
	}
	asks, err := ParseLevels(book.Levels[1])
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("hyperliquid: parse asks: %w", err)
	}

	ts := time.Now().UTC()
	if book.TimeMs > 0 {
		ts = time.UnixMilli(book.TimeMs).UTC()
	}

	return domain.NewOrderbookSnapshot(
		domain.VenueHyperliquid,
		"",
		venue.CleanBids(bids),
		venue.CleanAsks(asks),
		ts,
	), nil
}

// ParseLevels converts the decimal-string ladder into price levels.
func ParseLevels(raw []Level) ([]domain.PriceLevel, error) {
	out := make([]domain.PriceLevel, 0, len(raw))
	for _, lvl := range raw {
		price, err := strconv.ParseFloat(lvl.Px, 64)
		if err != nil {
			return nil, fmt.Errorf("bad price %q: %w", lvl.Px, err)
		}
		size, err := strconv.ParseFloat(lvl.Sz, 64)
		if err != nil {
			return nil, fmt.Errorf("bad size %q: %w", lvl.Sz, err)
		}
		out = append(out, domain.PriceLevel{Price: price, Size: size})
	}
	return out, nil
}

func truncate(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
