// Package gtrade adapts the gTrade (Gains Network) trading-variables feed.
// gTrade prices against an oracle with a per-pair spread percentage, and its
// price-impact model leans on open-interest imbalance, which we surface as a
// skew component on top of the base spread.
package gtrade

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

const defaultBaseURL = "https://backend-arbitrum.gains.trade"

// maxSkewBps caps the skew attributed to open-interest imbalance. A fully
// one-sided book costs this much extra per side.
const maxSkewBps = 5.0

// Client is the feed adapter for gTrade.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gTrade adapter. An empty baseURL selects the Arbitrum
// backend.
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
func (c *Client) Venue() domain.VenueID { return domain.VenueGTrade }

type tradingPair struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Price   float64 `json:"price"`
	SpreadP float64 `json:"spreadP"` // percent, not bps
	OILong  float64 `json:"oiLong"`
	OIShort float64 `json:"oiShort"`
}

type tradingVariables struct {
	Pairs []tradingPair `json:"pairs"`
}

// Fetch retrieves the trading variables and extracts the quote for a pair
// like "XAU/USD" (matched as from/to).
func (c *Client) Fetch(ctx context.Context, ticker string) (domain.MarketSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/trading-variables", nil)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("gtrade: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("gtrade: trading variables: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("gtrade: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.MarketSnapshot{}, fmt.Errorf("gtrade: trading variables: status %d", resp.StatusCode)
	}

	var vars tradingVariables
	if err := json.Unmarshal(body, &vars); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("gtrade: decode trading variables: %w", err)
	}

	from, to := splitPair(ticker)
	for _, p := range vars.Pairs {
		if !strings.EqualFold(p.From, from) || !strings.EqualFold(p.To, to) {
			continue
		}
		if p.Price <= 0 {
			return domain.MarketSnapshot{}, fmt.Errorf("gtrade: no price for %s", ticker)
		}
		return domain.NewOracleSnapshot(
			domain.VenueGTrade,
			"",
			domain.OracleQuote{
				Price:     p.Price,
				SpreadBps: p.SpreadP * 100, // percent -> bps
				SkewBps:   skewBps(p.OILong, p.OIShort),
			},
			time.Now().UTC(),
		), nil
	}
	return domain.MarketSnapshot{}, fmt.Errorf("gtrade: no pair for %s", ticker)
}

// splitPair breaks "XAU/USD" into its legs; a bare symbol quotes against USD.
func splitPair(ticker string) (from, to string) {
	if i := strings.IndexByte(ticker, '/'); i >= 0 {
		return ticker[:i], ticker[i+1:]
	}
	return ticker, "USD"
}

// skewBps maps open-interest imbalance onto a skew cost. A balanced book
// contributes nothing; a fully one-sided book contributes maxSkewBps.
func skewBps(oiLong, oiShort float64) float64 {
	total := oiLong + oiShort
	if total <= 0 {
		return 0
	}
	imbalance := math.Abs(oiLong-oiShort) / total
	return imbalance * maxSkewBps
}
