package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"smart-wallet/pkg/client"
	"smart-wallet/pkg/types"
)

const explainSystemPrompt = "You are a helpful DeFi assistant. Explain transactions clearly and mention important risks."

// Explain describes what executing intent would do
func (a *Assistant) Explain(ctx context.Context, intent types.Intent, quote *types.Quote) string {
	if a.llm == nil {
		return TemplateExplanation(intent, quote)
	}

	reply, err := a.llm.CompleteWithSystem(ctx, explainSystemPrompt, explainPrompt(intent, quote), client.CompletionOptions{
		Temperature: 0.3,
		MaxTokens:   150,
	})
	if err != nil || strings.TrimSpace(reply) == "" {
		a.logger.Warn("LLM explanation failed, using template", zap.Error(err))
		return TemplateExplanation(intent, quote)
	}
	return reply
}

func explainPrompt(intent types.Intent, quote *types.Quote) string {
	var b strings.Builder
	b.WriteString("Explain this DeFi transaction in simple, user-friendly terms:\n\n")
	fmt.Fprintf(&b, "Action: %s\n", intent.Action)
	fmt.Fprintf(&b, "Amount: %s %s\n", intent.Amount, intent.FromToken)
	if intent.ToToken != "" {
		fmt.Fprintf(&b, "To Token: %s\n", intent.ToToken)
	}
	if intent.ToAddress != "" {
		fmt.Fprintf(&b, "To Address: %s\n", intent.ToAddress)
	}
	if quote != nil {
		fmt.Fprintf(&b, "Expected Output: %s %s\n", quote.OutputAmount, quote.ToToken)
		fmt.Fprintf(&b, "Price Impact: %s\n", quote.PriceImpact)
	}
	b.WriteString("\nExplain what will happen, any risks, and estimated costs.\nKeep it under 100 words and beginner-friendly.")
	return b.String()
}

// TemplateExplanation is the fixed per-action explanation used without an LLM
func TemplateExplanation(intent types.Intent, quote *types.Quote) string {
	switch intent.Action {
	case types.ActionSwap:
		out := "an unknown amount of"
		impact := ""
		if quote != nil {
			out = quote.OutputAmount
			impact = fmt.Sprintf(" Price impact: %s.", quote.PriceImpact)
		}
		return fmt.Sprintf("You're swapping %s %s for approximately %s %s. This exchange happens at current market rates.%s Gas fees will apply.",
			intent.Amount, intent.FromToken, out, intent.ToToken, impact)

	case types.ActionSend:
		return fmt.Sprintf("You're sending %s %s to %s. This is a direct transfer that cannot be reversed. Gas fees will apply.",
			intent.Amount, intent.FromToken, ShortAddress(intent.ToAddress))

	case types.ActionStake:
		return fmt.Sprintf("You're staking %s %s. Staked tokens will earn rewards but may have a lock-up period. You can unstake later, subject to protocol terms.",
			intent.Amount, intent.FromToken)

	case types.ActionLend:
		return fmt.Sprintf("You're lending %s %s to earn interest. Your tokens will be supplied to a lending pool and you'll receive interest over time. You can withdraw anytime if liquidity allows.",
			intent.Amount, intent.FromToken)

	case types.ActionWithdraw:
		return fmt.Sprintf("You're withdrawing %s %s from a staking or lending position. Withdrawals may be delayed by protocol unbonding periods.",
			intent.Amount, intent.FromToken)

	case types.ActionCheckBalance:
		return "Checking your wallet balance and token holdings. This will show your current assets and their values."

	default:
		return fmt.Sprintf("You're performing a %s operation. Please review the details carefully before confirming.", intent.Action)
	}
}

// ShortAddress abbreviates an address as 0x1234...abcd
func ShortAddress(addr string) string {
	if addr == "" {
		return "the specified address"
	}
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
