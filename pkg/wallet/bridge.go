package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoProvider is returned when no JSON-RPC endpoint is configured
	ErrNoProvider = errors.New("no wallet provider configured")
	// ErrInvalidAddress is returned for strings that are not hex addresses
	ErrInvalidAddress = errors.New("invalid address")
)

const etherDecimals = 18

// BalanceReader is the read-only slice of an Ethereum client the bridge uses
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Bridge reads account state from an Ethereum node. It never signs or sends transactions.
type Bridge struct {
	reader BalanceReader
	client *ethclient.Client
}

// NewBridge connects to rpcURL. An empty URL yields a bridge without a provider.
func NewBridge(rpcURL string) (*Bridge, error) {
	if rpcURL == "" {
		return &Bridge{}, nil
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	return &Bridge{reader: client, client: client}, nil
}

// NewBridgeWithReader creates a bridge over an existing balance reader
func NewBridgeWithReader(reader BalanceReader) *Bridge {
	return &Bridge{reader: reader}
}

// HasProvider reports whether balances can be read
func (b *Bridge) HasProvider() bool {
	return b.reader != nil
}

// Balance returns the native ETH balance of address at the latest block
func (b *Bridge) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	if b.reader == nil {
		return decimal.Zero, ErrNoProvider
	}
	if !common.IsHexAddress(address) {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}

	wei, err := b.reader.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	return decimal.NewFromBigInt(wei, -etherDecimals), nil
}

// Close releases the RPC connection
func (b *Bridge) Close() {
	if b.client != nil {
		b.client.Close()
	}
}
