package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-wallet/pkg/types"
)

const recipient = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

func TestParseIntentSwap(t *testing.T) {
	intent := ParseIntent("swap 1 ETH for USDC")

	assert.Equal(t, types.ActionSwap, intent.Action)
	assert.Equal(t, "1", intent.Amount)
	assert.Equal(t, "ETH", intent.FromToken)
	assert.Equal(t, "USDC", intent.ToToken)
	assert.Empty(t, intent.ToAddress)
	assert.Equal(t, 0.8, intent.Confidence)
}

func TestParseIntentSend(t *testing.T) {
	intent := ParseIntent("send 10 USDC to " + recipient)

	assert.Equal(t, types.ActionSend, intent.Action)
	assert.Equal(t, "10", intent.Amount)
	assert.Equal(t, "USDC", intent.FromToken)
	assert.Equal(t, recipient, intent.ToAddress)
	assert.Empty(t, intent.ToToken)
	assert.Equal(t, 0.7, intent.Confidence)
}

func TestParseIntentSendAddressBeforeAmount(t *testing.T) {
	intent := ParseIntent("pay " + recipient + " 2.5 dai")

	assert.Equal(t, types.ActionSend, intent.Action)
	assert.Equal(t, "2.5", intent.Amount)
	assert.Equal(t, "DAI", intent.FromToken)
	assert.Equal(t, recipient, intent.ToAddress)
}

func TestParseIntentCheckBalance(t *testing.T) {
	intent := ParseIntent("check my balance")

	assert.Equal(t, types.ActionCheckBalance, intent.Action)
	assert.Equal(t, 0.9, intent.Confidence)
	assert.Empty(t, intent.Amount)
	assert.Empty(t, intent.FromToken)
}

func TestParseIntentPriorityOrder(t *testing.T) {
	tests := []struct {
		message string
		want    types.Action
	}{
		{"trade my link for uni", types.ActionSwap},
		{"exchange then send", types.ActionSwap},
		{"transfer and check balance", types.ActionSend},
		{"check if I can stake", types.ActionCheckBalance},
		{"stake 32 eth", types.ActionStake},
		{"I want to go staking", types.ActionStake},
		{"supply 100 dai to aave", types.ActionLend},
		{"deposit 5 usdc", types.ActionLend},
		{"unstake 2 eth", types.ActionWithdraw},
		{"withdraw everything", types.ActionWithdraw},
		{"hello there", types.ActionUnknown},
		{"swapping is fun", types.ActionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntent(tt.message).Action)
		})
	}
}

func TestParseIntentUnknown(t *testing.T) {
	intent := ParseIntent("what's the weather")

	assert.Equal(t, types.ActionUnknown, intent.Action)
	assert.Equal(t, 0.1, intent.Confidence)
	assert.Empty(t, intent.Amount)
	assert.NotEmpty(t, intent.Explanation)
}

func TestParseIntentDefaults(t *testing.T) {
	intent := ParseIntent("swap some tokens")

	assert.Equal(t, DefaultAmount, intent.Amount)
	assert.Equal(t, DefaultFromToken, intent.FromToken)
	assert.Equal(t, DefaultToToken, intent.ToToken)
}

func TestParseIntentMaxAndAll(t *testing.T) {
	assert.Equal(t, types.AmountMax, ParseIntent("swap max WETH to DAI").Amount)
	assert.Equal(t, types.AmountMax, ParseIntent("stake ALL my eth").Amount)
}

func TestParseIntentLowercaseTokens(t *testing.T) {
	intent := ParseIntent("convert 0.25 weth into usdt")

	assert.Equal(t, "0.25", intent.Amount)
	assert.Equal(t, "WETH", intent.FromToken)
	assert.Equal(t, "USDT", intent.ToToken)
}

func TestExtractHelpers(t *testing.T) {
	assert.Equal(t, "", ExtractAmount("no numbers here"))
	assert.Equal(t, "3.14", ExtractAmount("about 3.14 or 2"))
	assert.Equal(t, []string{"LINK", "UNI"}, ExtractTokens("link uni eth"))
	assert.Empty(t, ExtractTokens("btc sol"))
	assert.Equal(t, recipient, ExtractAddress("to "+recipient+" now"))
	assert.Equal(t, "", ExtractAddress("0x1234"))
}

func TestParseSwapCommand(t *testing.T) {
	req, err := ParseSwapCommand("swap 1.5 eth to usdc")
	require.NoError(t, err)
	assert.Equal(t, "1.5", req.Amount)
	assert.Equal(t, "ETH", req.SourceToken)
	assert.Equal(t, "USDC", req.DestToken)
	require.NoError(t, ValidateSwapRequest(req))

	req, err = ParseSwapCommand("100 DAI for UNI")
	require.NoError(t, err)
	assert.Equal(t, "UNI", req.DestToken)

	_, err = ParseSwapCommand("swap ETH to USDC")
	assert.Error(t, err)

	req, err = ParseSwapCommand("1 BTC to ETH")
	require.NoError(t, err)
	assert.EqualError(t, ValidateSwapRequest(req), "token BTC not supported")
}
