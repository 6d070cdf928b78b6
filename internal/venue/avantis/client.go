// Package avantis adapts the Avantis pairs feed. Avantis quotes a single
// oracle price per pair plus a spread percentage; a handful of majors are
// published with zero spread.
package avantis

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

const defaultBaseURL = "https://api.avantisfi.com/v1"

// Client is the feed adapter for Avantis.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an Avantis adapter. An empty baseURL selects production.
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
func (c *Client) Venue() domain.VenueID { return domain.VenueAvantis }

type pairInfo struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Price   float64 `json:"price"`
	SpreadP float64 `json:"spreadP"` // percent, not bps
}

type pairsResponse struct {
	Pairs []pairInfo `json:"pairs"`
}

// Fetch retrieves the pairs feed and extracts the quote for a pair like
// "XAUUSD" (matched against from+to).
func (c *Client) Fetch(ctx context.Context, ticker string) (domain.MarketSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pairs", nil)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("avantis: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("avantis: pairs: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("avantis: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.MarketSnapshot{}, fmt.Errorf("avantis: pairs: status %d: %s", resp.StatusCode, body)
	}

	var feed pairsResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("avantis: decode pairs: %w", err)
	}

	for _, p := range feed.Pairs {
		if !matchesPair(p, ticker) {
			continue
		}
		if p.Price <= 0 {
			return domain.MarketSnapshot{}, fmt.Errorf("avantis: no price for %s", ticker)
		}
		return domain.NewOracleSnapshot(
			domain.VenueAvantis,
			"",
			domain.OracleQuote{
				Price:     p.Price,
				SpreadBps: p.SpreadP * 100, // percent -> bps
			},
			time.Now().UTC(),
		), nil
	}
	return domain.MarketSnapshot{}, fmt.Errorf("avantis: no pair for %s", ticker)
}

// matchesPair matches "XAUUSD" against from=XAU to=USD, and also accepts a
// bare from-symbol for USD-quoted pairs ("AAPL" vs from=AAPL to=USD).
func matchesPair(p pairInfo, ticker string) bool {
	joined := p.From + p.To
	if strings.EqualFold(joined, ticker) {
		return true
	}
	return strings.EqualFold(p.To, "USD") && strings.EqualFold(p.From, ticker)
}
