// Package paradex adapts the Paradex public API. The orderbook endpoint
// returns bid and ask ladders as ["price","size"] string pairs.
package paradex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alanyoungcy/perpcost/internal/domain"
	"github.com/alanyoungcy/perpcost/internal/venue"
)

const (
	defaultBaseURL = "https://api.prod.paradex.trade/v1"
	bookDepth      = 50
)

// Client is the REST adapter for Paradex.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Paradex adapter. An empty baseURL selects production.
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
func (c *Client) Venue() domain.VenueID { return domain.VenueParadex }

type bookResponse struct {
	Market          string      `json:"market"`
	SeqNo           int64       `json:"seq_no"`
	LastUpdatedAtMs int64       `json:"last_updated_at"`
	Bids            [][2]string `json:"bids"`
	Asks            [][2]string `json:"asks"`
}

// Fetch retrieves the orderbook for a market like "XAU-USD-PERP".
func (c *Client) Fetch(ctx context.Context, ticker string) (domain.MarketSnapshot, error) {
	endpoint := fmt.Sprintf("%s/orderbook/%s?depth=%d", c.baseURL, url.PathEscape(ticker), bookDepth)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("paradex: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("paradex: orderbook %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("paradex: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.MarketSnapshot{}, fmt.Errorf("paradex: orderbook %s: status %d: %s", ticker, resp.StatusCode, body)
	}

	var book bookResponse
	if err := json.Unmarshal(body, &book); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("paradex: decode orderbook: %w", err)
	}

	bids, err := parsePairs(book.Bids)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("paradex: parse bids: %w", err)
	}
	asks, err := parsePairs(book.Asks)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("paradex: parse asks: %w", err)
	}

	ts := time.Now().UTC()
	if book.LastUpdatedAtMs > 0 {
		ts = time.UnixMilli(book.LastUpdatedAtMs).UTC()
	}

	return domain.NewOrderbookSnapshot(
		domain.VenueParadex,
		"",
		venue.CleanBids(bids),
		venue.CleanAsks(asks),
		ts,
	), nil
}

func parsePairs(raw [][2]string) ([]domain.PriceLevel, error) {
	out := make([]domain.PriceLevel, 0, len(raw))
	for _, pair := range raw {
		price, err := strconv.ParseFloat(pair[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad price %q: %w", pair[0], err)
		}
		size, err := strconv.ParseFloat(pair[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad size %q: %w", pair[1], err)
		}
		out = append(out, domain.PriceLevel{Price: price, Size: size})
	}
	return out, nil
}
