package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCoinGeckoURL     = "https://api.coingecko.com/api/v3"
	DefaultCoinGeckoTimeout = 5 * time.Second
)

// CoinGeckoClient fetches USD spot prices from the CoinGecko simple price API
type CoinGeckoClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewCoinGeckoClient creates a client. apiKey is optional; when set it is sent as a demo key.
func NewCoinGeckoClient(baseURL, apiKey string, timeout time.Duration) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	if timeout <= 0 {
		timeout = DefaultCoinGeckoTimeout
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// simplePriceResponse maps coin id to currency to price
type simplePriceResponse map[string]map[string]float64

// USDPrice returns the USD price for a CoinGecko coin id
func (c *CoinGeckoClient) USDPrice(ctx context.Context, id string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("ids", id)
	q.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("API returned status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read response: %w", err)
	}

	var data simplePriceResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse response: %w", err)
	}

	price, ok := data[id]["usd"]
	if !ok || price <= 0 {
		return decimal.Zero, fmt.Errorf("no usd price for '%s'", id)
	}

	return decimal.NewFromFloat(price), nil
}
