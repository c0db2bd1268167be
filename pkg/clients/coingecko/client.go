package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps the public CoinGecko API.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds a CoinGecko client bound to the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{httpClient: restyClient}
}

// Market mirrors one entry of the /coins/markets response.
type Market struct {
	ID                string   `json:"id"`
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Image             string   `json:"image"`
	CurrentPrice      float64  `json:"current_price"`
	MarketCap         *int64   `json:"market_cap"`
	MarketCapRank     *int     `json:"market_cap_rank"`
	TotalVolume       *float64 `json:"total_volume"`
	PriceChange24hPct *float64 `json:"price_change_percentage_24h"`
}

// History mirrors the /coins/{id}/market_chart response: arrays of
// [timestamp_ms, value] pairs.
type History struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// Global mirrors the /global response envelope.
type Global struct {
	Data map[string]any `json:"data"`
}

// Markets fetches market data for the top coins ordered by market cap.
func (c *Client) Markets(ctx context.Context, currency string, perPage int) ([]Market, error) {
	var result []Market

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency":             currency,
			"order":                   "market_cap_desc",
			"per_page":                fmt.Sprintf("%d", perPage),
			"page":                    "1",
			"sparkline":               "false",
			"price_change_percentage": "24h",
		}).
		SetResult(&result).
		Get("/coins/markets")
	if err != nil {
		return nil, fmt.Errorf("fetch coin markets: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("coingecko api error: status=%d", resp.StatusCode())
	}

	return result, nil
}

// History fetches the daily market chart for a single coin.
func (c *Client) History(ctx context.Context, coinID, currency string, days int) (*History, error) {
	result := new(History)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency": currency,
			"days":        fmt.Sprintf("%d", days),
			"interval":    "daily",
		}).
		SetResult(result).
		Get(fmt.Sprintf("/coins/%s/market_chart", coinID))
	if err != nil {
		return nil, fmt.Errorf("fetch coin history: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("coingecko api error: status=%d", resp.StatusCode())
	}

	return result, nil
}

// GlobalData fetches aggregate crypto market data (total cap, dominance, ...).
func (c *Client) GlobalData(ctx context.Context) (*Global, error) {
	result := new(Global)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		Get("/global")
	if err != nil {
		return nil, fmt.Errorf("fetch global market data: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("coingecko api error: status=%d", resp.StatusCode())
	}

	return result, nil
}
