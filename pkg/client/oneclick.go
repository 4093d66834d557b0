package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"
	"github.com/shopspring/decimal"
)

// DefaultOneClickTimeout bounds a single 1Click request
const DefaultOneClickTimeout = 5 * time.Second

// OneClickClient wraps the 1Click SDK. It is used only as a secondary price source.
type OneClickClient struct {
	client   *oneclick.APIClient
	jwtToken string
}

// NewOneClickClient creates a new 1Click API client. An empty baseURL keeps the SDK default.
func NewOneClickClient(jwtToken, baseURL string, timeout time.Duration) *OneClickClient {
	if timeout <= 0 {
		timeout = DefaultOneClickTimeout
	}

	config := oneclick.NewConfiguration()
	config.HTTPClient = &http.Client{Timeout: timeout}
	if baseURL != "" {
		config.Servers = oneclick.ServerConfigurations{{URL: strings.TrimRight(baseURL, "/")}}
	}

	return &OneClickClient{
		client:   oneclick.NewAPIClient(config),
		jwtToken: jwtToken,
	}
}

func (c *OneClickClient) authContext(ctx context.Context) context.Context {
	if c.jwtToken == "" {
		return ctx
	}
	return context.WithValue(ctx, oneclick.ContextAccessToken, c.jwtToken)
}

// GetSupportedTokens retrieves all tokens known to 1Click
func (c *OneClickClient) GetSupportedTokens(ctx context.Context) ([]oneclick.TokenResponse, error) {
	resp, httpResp, err := c.client.OneClickAPI.GetTokens(c.authContext(ctx)).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != 200 {
		return nil, fmt.Errorf("API returned status code %d", httpResp.StatusCode)
	}

	return resp, nil
}

// FindToken searches for a token by symbol, preferring the Ethereum listing
func (c *OneClickClient) FindToken(ctx context.Context, symbol string) (*oneclick.TokenResponse, error) {
	tokens, err := c.GetSupportedTokens(ctx)
	if err != nil {
		return nil, err
	}

	symbol = strings.ToUpper(symbol)

	var match *oneclick.TokenResponse
	for i := range tokens {
		if strings.ToUpper(tokens[i].GetSymbol()) != symbol {
			continue
		}
		if strings.EqualFold(tokens[i].GetBlockchain(), "eth") {
			return &tokens[i], nil
		}
		if match == nil {
			match = &tokens[i]
		}
	}

	if match == nil {
		return nil, fmt.Errorf("token '%s' not found", symbol)
	}
	return match, nil
}

// USDPrice returns the USD price 1Click reports for a symbol
func (c *OneClickClient) USDPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	tok, err := c.FindToken(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	price := decimal.NewFromFloat32(tok.GetPrice())
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("no usd price for '%s'", symbol)
	}
	return price, nil
}
