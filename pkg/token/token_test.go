package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tok, ok := Lookup(" usdc ")
	require.True(t, ok)
	assert.Equal(t, "USDC", tok.Symbol)
	assert.Equal(t, "usd-coin", tok.PriceID)
	assert.Equal(t, 6, tok.Decimals)

	_, ok = Lookup("BTC")
	assert.False(t, ok)
}

func TestAllKeepsTableOrder(t *testing.T) {
	assert.Equal(t, []string{"ETH", "WETH", "USDC", "DAI", "USDT", "LINK", "UNI"}, Symbols())

	all := All()
	all[0].Symbol = "MUTATED"
	assert.Equal(t, "ETH", All()[0].Symbol)
}

func TestFallbackPrices(t *testing.T) {
	want := map[string]string{
		"ETH": "2000", "WETH": "2000", "USDC": "1", "DAI": "1",
		"USDT": "1", "LINK": "15", "UNI": "8",
	}
	for sym, price := range want {
		tok, ok := Lookup(sym)
		require.True(t, ok, sym)
		assert.Equal(t, price, tok.FallbackPrice.String(), sym)
	}
}
