package validate

import (
	"strings"

	"github.com/shopspring/decimal"

	"smart-wallet/pkg/types"
)

var (
	largeAmount        = decimal.NewFromInt(10)
	highImpactPercent  = decimal.NewFromInt(3)
	suspiciousAddrPart = "0x000"
)

// Risk grades an intent and its quote. Risks make the level high, warnings medium.
func Risk(intent types.Intent, quote *types.Quote, userBalance decimal.Decimal) types.Risk {
	risks := make([]string, 0)
	warnings := make([]string, 0)

	if amount, err := decimal.NewFromString(intent.Amount); err == nil {
		if amount.GreaterThan(userBalance) {
			warnings = append(warnings, "Insufficient balance for this transaction")
		}
		if amount.GreaterThan(largeAmount) {
			warnings = append(warnings, "Large transaction amount - please double-check")
		}
	}

	if quote != nil {
		impact, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(quote.PriceImpact), "%"))
		if err == nil && impact.GreaterThan(highImpactPercent) {
			risks = append(risks, "High price impact: "+quote.PriceImpact)
		}
	}

	if intent.ToAddress != "" && strings.Contains(strings.ToLower(intent.ToAddress), suspiciousAddrPart) {
		risks = append(risks, "Suspicious recipient address detected")
	}

	level := types.RiskLow
	switch {
	case len(risks) > 0:
		level = types.RiskHigh
	case len(warnings) > 0:
		level = types.RiskMedium
	}

	return types.Risk{Level: level, Risks: risks, Warnings: warnings}
}
