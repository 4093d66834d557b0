package token

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Token describes a supported asset
type Token struct {
	Symbol        string
	Name          string
	PriceID       string // CoinGecko id
	Decimals      int
	FallbackPrice decimal.Decimal // USD price used when every price source fails
}

var registry = []Token{
	{Symbol: "ETH", Name: "Ether", PriceID: "ethereum", Decimals: 18, FallbackPrice: decimal.NewFromInt(2000)},
	{Symbol: "WETH", Name: "Wrapped Ether", PriceID: "weth", Decimals: 18, FallbackPrice: decimal.NewFromInt(2000)},
	{Symbol: "USDC", Name: "USD Coin", PriceID: "usd-coin", Decimals: 6, FallbackPrice: decimal.NewFromInt(1)},
	{Symbol: "DAI", Name: "Dai", PriceID: "dai", Decimals: 18, FallbackPrice: decimal.NewFromInt(1)},
	{Symbol: "USDT", Name: "Tether", PriceID: "tether", Decimals: 6, FallbackPrice: decimal.NewFromInt(1)},
	{Symbol: "LINK", Name: "Chainlink", PriceID: "chainlink", Decimals: 18, FallbackPrice: decimal.NewFromInt(15)},
	{Symbol: "UNI", Name: "Uniswap", PriceID: "uniswap", Decimals: 18, FallbackPrice: decimal.NewFromInt(8)},
}

var bySymbol = func() map[string]Token {
	m := make(map[string]Token, len(registry))
	for _, t := range registry {
		m[t.Symbol] = t
	}
	return m
}()

// Lookup finds a token by symbol, ignoring case and surrounding whitespace
func Lookup(symbol string) (Token, bool) {
	t, ok := bySymbol[Normalize(symbol)]
	return t, ok
}

// IsSupported reports whether the symbol is in the table
func IsSupported(symbol string) bool {
	_, ok := Lookup(symbol)
	return ok
}

// All returns every supported token in table order
func All() []Token {
	out := make([]Token, len(registry))
	copy(out, registry)
	return out
}

// Symbols returns the supported symbols in table order
func Symbols() []string {
	out := make([]string, 0, len(registry))
	for _, t := range registry {
		out = append(out, t.Symbol)
	}
	return out
}

// Normalize converts a symbol to its canonical upper-case form
func Normalize(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}
