// Package lighter adapts the Lighter (zkLighter) API. Depth retrieval is a
// two-step dance: orderBookDetails maps a symbol to its numeric market ID and
// status, orderBookOrders then returns the resting orders for that ID with
// decimal-string prices and remaining base amounts.
package lighter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alanyoungcy/perpcost/internal/domain"
	"github.com/alanyoungcy/perpcost/internal/venue"
)

const (
	defaultBaseURL = "https://mainnet.zklighter.elliot.ai/api/v1"
	bookDepthLimit = 50
)

// Client is the REST adapter for Lighter.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.Mutex
	marketIDs map[string]int64 // symbol (upper) -> market_id
}

// NewClient creates a Lighter adapter. An empty baseURL selects mainnet.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		marketIDs: make(map[string]int64),
	}
}

// Venue implements domain.Adapter.
func (c *Client) Venue() domain.VenueID { return domain.VenueLighter }

type marketDetail struct {
	Symbol   string `json:"symbol"`
	MarketID int64  `json:"market_id"`
	Status   string `json:"status"`
}

type detailsResponse struct {
	OrderBookDetails []marketDetail `json:"order_book_details"`
}

type restingOrder struct {
	Price               string `json:"price"`
	RemainingBaseAmount string `json:"remaining_base_amount"`
}

type ordersResponse struct {
	Bids []restingOrder `json:"bids"`
	Asks []restingOrder `json:"asks"`
}

// Fetch resolves the market ID for the symbol and retrieves its orderbook.
func (c *Client) Fetch(ctx context.Context, ticker string) (domain.MarketSnapshot, error) {
	marketID, err := c.resolveMarketID(ctx, ticker)
	if err != nil {
		return domain.MarketSnapshot{}, err
	}

	q := url.Values{}
	q.Set("market_id", strconv.FormatInt(marketID, 10))
	q.Set("limit", strconv.Itoa(bookDepthLimit))

	body, err := c.get(ctx, "/orderBookOrders?"+q.Encode())
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("lighter: orderbook %s: %w", ticker, err)
	}

	var orders ordersResponse
	if err := json.Unmarshal(body, &orders); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("lighter: decode orderbook: %w", err)
	}

	bids, err := parseOrders(orders.Bids)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("lighter: parse bids: %w", err)
	}
	asks, err := parseOrders(orders.Asks)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("lighter: parse asks: %w", err)
	}

	// The API does not sort the resting orders.
	return domain.NewOrderbookSnapshot(
		domain.VenueLighter,
		"",
		venue.CleanBids(bids),
		venue.CleanAsks(asks),
		time.Now().UTC(),
	), nil
}

// resolveMarketID maps a symbol to its numeric market ID, caching successful
// resolutions. Only active markets qualify.
func (c *Client) resolveMarketID(ctx context.Context, symbol string) (int64, error) {
	key := strings.ToUpper(symbol)

	c.mu.Lock()
	id, ok := c.marketIDs[key]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	body, err := c.get(ctx, "/orderBookDetails")
	if err != nil {
		return 0, fmt.Errorf("lighter: market details: %w", err)
	}

	var details detailsResponse
	if err := json.Unmarshal(body, &details); err != nil {
		return 0, fmt.Errorf("lighter: decode market details: %w", err)
	}

	for _, m := range details.OrderBookDetails {
		if strings.EqualFold(m.Symbol, symbol) {
			if m.Status != "active" {
				return 0, fmt.Errorf("lighter: market %s is %s", symbol, m.Status)
			}
			c.mu.Lock()
			c.marketIDs[key] = m.MarketID
			c.mu.Unlock()
			return m.MarketID, nil
		}
	}
	return 0, fmt.Errorf("lighter: no market for symbol %s", symbol)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

func parseOrders(raw []restingOrder) ([]domain.PriceLevel, error) {
	out := make([]domain.PriceLevel, 0, len(raw))
	for _, o := range raw {
		price, err := strconv.ParseFloat(o.Price, 64)
		if err != nil {
			return nil, fmt.Errorf("bad price %q: %w", o.Price, err)
		}
		size, err := strconv.ParseFloat(o.RemainingBaseAmount, 64)
		if err != nil {
			return nil, fmt.Errorf("bad size %q: %w", o.RemainingBaseAmount, err)
		}
		out = append(out, domain.PriceLevel{Price: price, Size: size})
	}
	return out, nil
}
