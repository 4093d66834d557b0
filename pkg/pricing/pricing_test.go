package pricing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-wallet/pkg/client"
	"smart-wallet/pkg/token"
)

type stubSource struct {
	name   string
	prices map[string]decimal.Decimal
	err    error
	calls  int32
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) USDPrice(_ context.Context, tok token.Token) (decimal.Decimal, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return decimal.Zero, s.err
	}
	p, ok := s.prices[tok.Symbol]
	if !ok {
		return decimal.Zero, errors.New("missing")
	}
	return p, nil
}

func TestPricerUsesFirstHealthySource(t *testing.T) {
	broken := &stubSource{name: "broken", err: errors.New("down")}
	healthy := &stubSource{name: "healthy", prices: map[string]decimal.Decimal{"ETH": decimal.NewFromInt(3100)}}

	p := NewPricer([]Source{broken, healthy}, 0, nil, nil)
	price, err := p.Price(context.Background(), "eth")
	require.NoError(t, err)
	assert.Equal(t, "ETH", price.Symbol)
	assert.Equal(t, "3100", price.USD.String())
	assert.Equal(t, "healthy", price.Source)
}

func TestPricerFallsBackToTable(t *testing.T) {
	broken := &stubSource{name: "broken", err: errors.New("down")}

	p := NewPricer([]Source{broken}, time.Minute, nil, nil)
	price, err := p.Price(context.Background(), "LINK")
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, price.Source)
	assert.Equal(t, "15", price.USD.String())

	// fallback answers are not cached
	_, err = p.Price(context.Background(), "LINK")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&broken.calls))
}

func TestPricerUnsupportedToken(t *testing.T) {
	p := NewPricer(nil, 0, nil, nil)
	_, err := p.Price(context.Background(), "doge")
	assert.ErrorIs(t, err, ErrUnsupportedToken)
	assert.Contains(t, err.Error(), "DOGE")
}

func TestPricerCacheExpires(t *testing.T) {
	src := &stubSource{name: "s", prices: map[string]decimal.Decimal{"UNI": decimal.NewFromInt(9)}}
	p := NewPricer([]Source{src}, 30*time.Second, nil, nil)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	_, err := p.Price(context.Background(), "UNI")
	require.NoError(t, err)
	_, err = p.Price(context.Background(), "UNI")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))

	now = now.Add(31 * time.Second)
	_, err = p.Price(context.Background(), "UNI")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
}

func TestCoinGeckoSourceFallsBackOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	src := CoinGeckoSource{Client: client.NewCoinGeckoClient(srv.URL, "", 10*time.Millisecond)}
	p := NewPricer([]Source{src}, 0, nil, nil)

	price, err := p.Price(context.Background(), "ETH")
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, price.Source)
	assert.Equal(t, "2000", price.USD.String())
}

type stalledSource struct{}

func (stalledSource) Name() string { return "stalled" }

func (stalledSource) USDPrice(ctx context.Context, _ token.Token) (decimal.Decimal, error) {
	<-ctx.Done()
	return decimal.Zero, ctx.Err()
}

func TestPricerBoundsEachSource(t *testing.T) {
	healthy := &stubSource{name: "healthy", prices: map[string]decimal.Decimal{"ETH": decimal.NewFromInt(2500)}}
	p := NewPricer([]Source{stalledSource{}, healthy}, 0, nil, nil)
	p.sourceTimeout = 20 * time.Millisecond

	start := time.Now()
	price, err := p.Price(context.Background(), "ETH")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "healthy", price.Source)
	assert.Equal(t, "2500", price.USD.String())
}

func TestOneClickSourceAfterCoinGeckoFailure(t *testing.T) {
	gecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer gecko.Close()

	oneClick := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/tokens", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"assetId":"nep141:eth.omft.near","decimals":18,"blockchain":"eth","symbol":"ETH","price":2500,"priceUpdatedAt":"2026-01-01T00:00:00Z"}
		]`))
	}))
	defer oneClick.Close()

	p := NewPricer([]Source{
		CoinGeckoSource{Client: client.NewCoinGeckoClient(gecko.URL, "", time.Second)},
		OneClickSource{Client: client.NewOneClickClient("", oneClick.URL, time.Second)},
	}, 0, nil, nil)

	price, err := p.Price(context.Background(), "eth")
	require.NoError(t, err)
	assert.Equal(t, "oneclick", price.Source)
	assert.Equal(t, "2500", price.USD.String())
}

func TestOneClickSourceTimeoutFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p := NewPricer([]Source{OneClickSource{Client: client.NewOneClickClient("", srv.URL, 20*time.Millisecond)}}, 0, nil, nil)

	start := time.Now()
	price, err := p.Price(context.Background(), "ETH")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, SourceFallback, price.Source)
}

type fixedPrices map[string]decimal.Decimal

func (f fixedPrices) Price(_ context.Context, symbol string) (Price, error) {
	tok, ok := token.Lookup(symbol)
	if !ok {
		return Price{}, ErrUnsupportedToken
	}
	return Price{Symbol: tok.Symbol, USD: f[tok.Symbol], Source: "fixed"}, nil
}

func TestQuote(t *testing.T) {
	q := NewQuoter(fixedPrices{"ETH": decimal.NewFromInt(2000), "USDC": decimal.NewFromInt(1)})

	quote, err := q.Quote(context.Background(), "eth", "usdc", "1")
	require.NoError(t, err)
	assert.Equal(t, "1", quote.InputAmount)
	assert.Equal(t, "1994.000000", quote.OutputAmount)
	assert.Equal(t, "ETH", quote.FromToken)
	assert.Equal(t, "USDC", quote.ToToken)
	assert.Equal(t, "0.3%", quote.PriceImpact)
	assert.Equal(t, "150000", quote.GasEstimate)
	assert.Equal(t, []string{"ETH → USDC"}, quote.Route)
}

func TestQuoteFractional(t *testing.T) {
	q := NewQuoter(fixedPrices{"LINK": decimal.NewFromInt(15), "UNI": decimal.NewFromInt(8)})

	quote, err := q.Quote(context.Background(), "LINK", "UNI", "2.5")
	require.NoError(t, err)
	// 2.5 * 15 / 8 * 0.997 = 4.67343750
	assert.Equal(t, "4.673438", quote.OutputAmount)
}

func TestQuoteErrors(t *testing.T) {
	q := NewQuoter(fixedPrices{"ETH": decimal.NewFromInt(2000), "USDC": decimal.NewFromInt(1)})

	_, err := q.Quote(context.Background(), "BTC", "USDC", "1")
	assert.ErrorIs(t, err, ErrUnsupportedToken)

	_, err = q.Quote(context.Background(), "ETH", "USDC", "abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = q.Quote(context.Background(), "ETH", "USDC", "-1")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = q.Quote(context.Background(), "ETH", "USDC", "max")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
