package pricing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"smart-wallet/pkg/client"
	"smart-wallet/pkg/metrics"
	"smart-wallet/pkg/token"
)

const (
	DefaultCacheTTL      = 30 * time.Second
	// DefaultSourceTimeout bounds each upstream attempt
	DefaultSourceTimeout = 10 * time.Second
	SourceFallback       = "fallback"
)

// ErrUnsupportedToken is returned for symbols outside the token table
var ErrUnsupportedToken = errors.New("token not supported")

// Source is an upstream that can quote a USD price for a token
type Source interface {
	Name() string
	USDPrice(ctx context.Context, tok token.Token) (decimal.Decimal, error)
}

// Price is a USD price and where it came from
type Price struct {
	Symbol    string
	USD       decimal.Decimal
	Source    string
	FetchedAt time.Time
}

// Pricer resolves token prices from a chain of sources, falling back to the static table
type Pricer struct {
	sources       []Source
	ttl           time.Duration
	sourceTimeout time.Duration
	logger        *zap.Logger
	metrics       *metrics.Metrics
	now           func() time.Time

	mu    sync.RWMutex
	cache map[string]Price
}

// NewPricer creates a pricer. A zero ttl disables caching.
func NewPricer(sources []Source, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *Pricer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pricer{
		sources:       sources,
		ttl:           ttl,
		sourceTimeout: DefaultSourceTimeout,
		logger:        logger,
		metrics:       m,
		now:           time.Now,
		cache:         make(map[string]Price),
	}
}

// Price returns the USD price for symbol. It only fails for unsupported tokens.
func (p *Pricer) Price(ctx context.Context, symbol string) (Price, error) {
	tok, ok := token.Lookup(symbol)
	if !ok {
		return Price{}, fmt.Errorf("%w: %s", ErrUnsupportedToken, token.Normalize(symbol))
	}

	if cached, ok := p.cached(tok.Symbol); ok {
		return cached, nil
	}

	for _, src := range p.sources {
		usd, err := p.fetch(ctx, src, tok)
		if err != nil {
			p.logger.Warn("Price fetch failed",
				zap.String("token", tok.Symbol),
				zap.String("source", src.Name()),
				zap.Error(err))
			continue
		}

		price := Price{Symbol: tok.Symbol, USD: usd, Source: src.Name(), FetchedAt: p.now()}
		p.store(price)
		p.metrics.PriceLookup(src.Name())
		return price, nil
	}

	p.logger.Warn("Using fallback price", zap.String("token", tok.Symbol))
	p.metrics.PriceLookup(SourceFallback)
	return Price{Symbol: tok.Symbol, USD: tok.FallbackPrice, Source: SourceFallback, FetchedAt: p.now()}, nil
}

func (p *Pricer) fetch(ctx context.Context, src Source, tok token.Token) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, p.sourceTimeout)
	defer cancel()
	return src.USDPrice(ctx, tok)
}

func (p *Pricer) cached(symbol string) (Price, bool) {
	if p.ttl <= 0 {
		return Price{}, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	price, ok := p.cache[symbol]
	if !ok || p.now().Sub(price.FetchedAt) >= p.ttl {
		return Price{}, false
	}
	return price, true
}

func (p *Pricer) store(price Price) {
	if p.ttl <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache[price.Symbol] = price
}

// CoinGeckoSource adapts the CoinGecko client to Source
type CoinGeckoSource struct {
	Client *client.CoinGeckoClient
}

func (s CoinGeckoSource) Name() string { return "coingecko" }

func (s CoinGeckoSource) USDPrice(ctx context.Context, tok token.Token) (decimal.Decimal, error) {
	return s.Client.USDPrice(ctx, tok.PriceID)
}

// OneClickSource adapts the 1Click client to Source
type OneClickSource struct {
	Client *client.OneClickClient
}

func (s OneClickSource) Name() string { return "oneclick" }

func (s OneClickSource) USDPrice(ctx context.Context, tok token.Token) (decimal.Decimal, error) {
	return s.Client.USDPrice(ctx, tok.Symbol)
}
