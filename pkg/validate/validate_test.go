package validate

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"smart-wallet/pkg/types"
)

const addr = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func TestTransactionValid(t *testing.T) {
	tests := []types.Intent{
		{Action: types.ActionSwap, Amount: "1", FromToken: "ETH", ToToken: "USDC"},
		{Action: types.ActionSend, Amount: "10", FromToken: "usdc", ToAddress: addr},
		{Action: types.ActionStake, Amount: "max", FromToken: "ETH"},
		{Action: types.ActionCheckBalance},
	}
	for _, intent := range tests {
		t.Run(string(intent.Action), func(t *testing.T) {
			res := Transaction(intent, DefaultUserBalance)
			assert.True(t, res.Valid, res.Errors)
			assert.Empty(t, res.Errors)
		})
	}
}

func TestTransactionErrors(t *testing.T) {
	tests := []struct {
		name    string
		intent  types.Intent
		balance decimal.Decimal
		want    []string
	}{
		{
			name:   "unsupported from token",
			intent: types.Intent{Action: types.ActionSwap, Amount: "1", FromToken: "BTC", ToToken: "USDC"},
			want:   []string{"Token BTC not supported"},
		},
		{
			name:   "unsupported to token",
			intent: types.Intent{Action: types.ActionSwap, Amount: "1", FromToken: "ETH", ToToken: "SHIB"},
			want:   []string{"Token SHIB not supported"},
		},
		{
			name:   "missing source token",
			intent: types.Intent{Action: types.ActionStake, Amount: "1"},
			want:   []string{"Source token is required"},
		},
		{
			name:   "missing swap tokens",
			intent: types.Intent{Action: types.ActionSwap, Amount: "1", FromToken: " "},
			want:   []string{"Source token is required", "Destination token is required"},
		},
		{
			name:   "same tokens",
			intent: types.Intent{Action: types.ActionSwap, Amount: "1", FromToken: "DAI", ToToken: "dai"},
			want:   []string{"Source and destination tokens cannot be the same"},
		},
		{
			name:    "insufficient balance",
			intent:  types.Intent{Action: types.ActionLend, Amount: "5.5", FromToken: "DAI"},
			balance: decimal.NewFromInt(5),
			want:    []string{"Insufficient balance"},
		},
		{
			name:   "bad amount",
			intent: types.Intent{Action: types.ActionStake, Amount: "lots", FromToken: "ETH"},
			want:   []string{"Invalid amount"},
		},
		{
			name:   "missing recipient",
			intent: types.Intent{Action: types.ActionSend, Amount: "1", FromToken: "ETH"},
			want:   []string{"Recipient address is required"},
		},
		{
			name:   "short recipient",
			intent: types.Intent{Action: types.ActionSend, Amount: "1", FromToken: "ETH", ToAddress: addr[:41]},
			want:   []string{"Invalid recipient address"},
		},
		{
			name:   "unknown action",
			intent: types.Intent{Action: types.ActionUnknown},
			want:   []string{"Could not determine the intended action"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance := tt.balance
			if balance.IsZero() {
				balance = DefaultUserBalance
			}
			res := Transaction(tt.intent, balance)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.want, res.Errors)
		})
	}
}

func TestAddress(t *testing.T) {
	assert.True(t, Address(addr))
	assert.True(t, Address("0x"+strings.Repeat("z", 40)), "format check is length and prefix only")
	assert.False(t, Address(addr[:41]))
	assert.False(t, Address("1x"+addr[2:]))
	assert.False(t, Address(""))
}

func TestChecksummed(t *testing.T) {
	assert.True(t, Checksummed(addr))
	assert.True(t, Checksummed(strings.ToLower(addr)))
	assert.False(t, Checksummed("0x5aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
	assert.False(t, Checksummed("0x"+strings.Repeat("z", 40)))
}

func TestRisk(t *testing.T) {
	low := Risk(types.Intent{Action: types.ActionSwap, Amount: "1"}, &types.Quote{PriceImpact: "0.3%"}, DefaultUserBalance)
	assert.Equal(t, types.RiskLow, low.Level)
	assert.Empty(t, low.Risks)
	assert.Empty(t, low.Warnings)

	medium := Risk(types.Intent{Action: types.ActionStake, Amount: "50"}, nil, decimal.NewFromInt(20))
	assert.Equal(t, types.RiskMedium, medium.Level)
	assert.Equal(t, []string{
		"Insufficient balance for this transaction",
		"Large transaction amount - please double-check",
	}, medium.Warnings)

	high := Risk(types.Intent{Action: types.ActionSend, Amount: "1", ToAddress: "0x000000000000000000000000000000000000dEaD"},
		&types.Quote{PriceImpact: "5%"}, DefaultUserBalance)
	assert.Equal(t, types.RiskHigh, high.Level)
	assert.Equal(t, []string{"High price impact: 5%", "Suspicious recipient address detected"}, high.Risks)
}
