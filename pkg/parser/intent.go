package parser

import (
	"regexp"
	"strings"

	"smart-wallet/pkg/token"
	"smart-wallet/pkg/types"
)

// Defaults applied when a value-moving message omits a field
const (
	DefaultAmount    = "1"
	DefaultFromToken = "ETH"
	DefaultToToken   = "USDC"
)

type actionRule struct {
	action      types.Action
	pattern     *regexp.Regexp
	confidence  float64
	explanation string
}

// Rules are tried in order; the first match wins.
var actionRules = []actionRule{
	{types.ActionSwap, regexp.MustCompile(`\b(swap|exchange|trade|convert)\b`), 0.8, "Detected swap operation"},
	{types.ActionSend, regexp.MustCompile(`\b(send|transfer|pay)\b`), 0.7, "Detected send operation"},
	{types.ActionCheckBalance, regexp.MustCompile(`\b(balance|check)\b`), 0.9, "Detected balance check"},
	{types.ActionStake, regexp.MustCompile(`\b(stake|staking)\b`), 0.7, "Detected staking operation"},
	{types.ActionLend, regexp.MustCompile(`\b(lend|lending|deposit|supply)\b`), 0.7, "Detected lending operation"},
	{types.ActionWithdraw, regexp.MustCompile(`\b(withdraw|unstake|redeem)\b`), 0.7, "Detected withdrawal operation"},
}

const (
	unknownConfidence  = 0.1
	unknownExplanation = "Could not parse intent. Try: 'swap 1 ETH for USDC', 'check balance', or 'send 10 USDC to 0x...'"
)

var (
	amountPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?|\bmax\b|\ball\b)`)
	addressPattern = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)
	tokenPattern   = regexp.MustCompile(`(?i)\b(` + strings.Join(token.Symbols(), "|") + `)\b`)
)

// ParseIntent classifies a free-text message into an intent.
// Confidence is a fixed score per action, not a calibrated probability.
func ParseIntent(message string) types.Intent {
	msg := strings.ToLower(message)

	for _, rule := range actionRules {
		if !rule.pattern.MatchString(msg) {
			continue
		}

		intent := types.Intent{
			Action:      rule.action,
			Confidence:  rule.confidence,
			Explanation: rule.explanation,
		}
		if !rule.action.MovesValue() {
			return intent
		}

		address := addressPattern.FindString(message)
		// Hex digits inside an address must not be read as the amount.
		rest := message
		if address != "" {
			rest = strings.Replace(message, address, " ", 1)
		}

		intent.Amount = ExtractAmount(rest)
		if intent.Amount == "" {
			intent.Amount = DefaultAmount
		}

		tokens := ExtractTokens(rest)
		intent.FromToken = DefaultFromToken
		if len(tokens) > 0 {
			intent.FromToken = tokens[0]
		}

		switch rule.action {
		case types.ActionSwap:
			intent.ToToken = DefaultToToken
			if len(tokens) > 1 {
				intent.ToToken = tokens[1]
			}
		case types.ActionSend:
			intent.ToAddress = address
		}
		return intent
	}

	return types.Intent{
		Action:      types.ActionUnknown,
		Confidence:  unknownConfidence,
		Explanation: unknownExplanation,
	}
}

// ExtractAmount returns the first decimal number in s, or "max" for max/all.
// It returns "" when there is none.
func ExtractAmount(s string) string {
	m := amountPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	switch strings.ToLower(m[1]) {
	case "max", "all":
		return types.AmountMax
	}
	return m[1]
}

// ExtractTokens returns up to two supported token symbols in order of appearance
func ExtractTokens(s string) []string {
	matches := tokenPattern.FindAllString(s, 2)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, token.Normalize(m))
	}
	return out
}

// ExtractAddress returns the first 0x-prefixed 40 hex digit substring, or ""
func ExtractAddress(s string) string {
	return addressPattern.FindString(s)
}
