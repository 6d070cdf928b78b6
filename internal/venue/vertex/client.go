// Package vertex adapts the Vertex gateway API. Unlike the other orderbook
// venues it returns numeric price/size pairs and a seconds-resolution
// timestamp.
package vertex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/alanyoungcy/perpcost/internal/domain"
	"github.com/alanyoungcy/perpcost/internal/venue"
)

const (
	defaultBaseURL = "https://gateway.prod.vertexprotocol.com/v2"
	bookDepth      = 50
)

// Client is the REST adapter for Vertex.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Vertex adapter. An empty baseURL selects production.
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
func (c *Client) Venue() domain.VenueID { return domain.VenueVertex }

type bookResponse struct {
	TickerID  string       `json:"ticker_id"`
	Timestamp int64        `json:"timestamp"`
	Bids      [][2]float64 `json:"bids"`
	Asks      [][2]float64 `json:"asks"`
}

// Fetch retrieves the orderbook for a ticker like "EUR-PERP_USDC".
func (c *Client) Fetch(ctx context.Context, ticker string) (domain.MarketSnapshot, error) {
	q := url.Values{}
	q.Set("ticker_id", ticker)
	q.Set("depth", fmt.Sprint(bookDepth))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orderbook?"+q.Encode(), nil)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("vertex: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("vertex: orderbook %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("vertex: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.MarketSnapshot{}, fmt.Errorf("vertex: orderbook %s: status %d: %s", ticker, resp.StatusCode, body)
	}

	var book bookResponse
	if err := json.Unmarshal(body, &book); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("vertex: decode orderbook: %w", err)
	}

	ts := time.Now().UTC()
	if book.Timestamp > 0 {
		ts = time.Unix(book.Timestamp, 0).UTC()
	}

	return domain.NewOrderbookSnapshot(
		domain.VenueVertex,
		"",
		venue.CleanBids(toLevels(book.Bids)),
		venue.CleanAsks(toLevels(book.Asks)),
		ts,
	), nil
}

func toLevels(raw [][2]float64) []domain.PriceLevel {
	out := make([]domain.PriceLevel, 0, len(raw))
	for _, pair := range raw {
		out = append(out, domain.PriceLevel{Price: pair[0], Size: pair[1]})
	}
	return out
}
