package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"smart-wallet/pkg/token"
	"smart-wallet/pkg/types"
)

const (
	PriceImpact = "0.3%"
	GasEstimate = "150000"
)

// SlippageFactor is the fixed 0.3% deduction applied to every swap output
var SlippageFactor = decimal.RequireFromString("0.997")

// ErrInvalidAmount is returned when an amount is not a positive decimal
var ErrInvalidAmount = errors.New("invalid amount")

// PriceProvider resolves USD prices by symbol
type PriceProvider interface {
	Price(ctx context.Context, symbol string) (Price, error)
}

// Quoter computes naive swap quotes from two USD prices
type Quoter struct {
	prices PriceProvider
}

// NewQuoter creates a quoter
func NewQuoter(prices PriceProvider) *Quoter {
	return &Quoter{prices: prices}
}

// Quote estimates the output of swapping amount of from into to:
// amount × fromPrice ÷ toPrice × 0.997, rounded to 6 decimals.
func (q *Quoter) Quote(ctx context.Context, from, to, amount string) (*types.Quote, error) {
	from, to = token.Normalize(from), token.Normalize(to)
	for _, sym := range []string{from, to} {
		if !token.IsSupported(sym) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedToken, sym)
		}
	}

	in, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	var fromPrice, toPrice Price
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fromPrice, err = q.prices.Price(gctx, from)
		return err
	})
	g.Go(func() error {
		var err error
		toPrice, err = q.prices.Price(gctx, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}

	if !toPrice.USD.IsPositive() {
		return nil, fmt.Errorf("price for %s is not positive", to)
	}

	out := in.Mul(fromPrice.USD).Div(toPrice.USD).Mul(SlippageFactor)

	return &types.Quote{
		InputAmount:  amount,
		OutputAmount: out.StringFixed(6),
		FromToken:    from,
		ToToken:      to,
		PriceImpact:  PriceImpact,
		GasEstimate:  GasEstimate,
		Route:        []string{fmt.Sprintf("%s → %s", from, to)},
	}, nil
}

// ParseAmount parses a positive decimal amount
func ParseAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: must be greater than 0", ErrInvalidAmount)
	}
	return d, nil
}
