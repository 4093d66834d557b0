package validate

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"smart-wallet/pkg/token"
	"smart-wallet/pkg/types"
)

// DefaultUserBalance is assumed when a caller does not supply one
var DefaultUserBalance = decimal.NewFromInt(1000)

// Transaction checks an intent against the supported tokens and the caller's balance
func Transaction(intent types.Intent, userBalance decimal.Decimal) types.ValidationResult {
	errs := make([]string, 0)

	if !intent.Action.Valid() || intent.Action == types.ActionUnknown {
		errs = append(errs, "Could not determine the intended action")
	}

	if intent.Action.MovesValue() {
		switch {
		case strings.TrimSpace(intent.FromToken) == "":
			errs = append(errs, "Source token is required")
		case !token.IsSupported(intent.FromToken):
			errs = append(errs, fmt.Sprintf("Token %s not supported", intent.FromToken))
		}

		if intent.Action == types.ActionSwap {
			if strings.TrimSpace(intent.ToToken) == "" {
				errs = append(errs, "Destination token is required")
			} else if !token.IsSupported(intent.ToToken) {
				errs = append(errs, fmt.Sprintf("Token %s not supported", intent.ToToken))
			} else if token.Normalize(intent.FromToken) == token.Normalize(intent.ToToken) {
				errs = append(errs, "Source and destination tokens cannot be the same")
			}
		}

		if intent.Amount != types.AmountMax {
			amount, err := decimal.NewFromString(intent.Amount)
			switch {
			case err != nil || !amount.IsPositive():
				errs = append(errs, "Invalid amount")
			case amount.GreaterThan(userBalance):
				errs = append(errs, "Insufficient balance")
			}
		}
	}

	if intent.Action == types.ActionSend {
		if intent.ToAddress == "" {
			errs = append(errs, "Recipient address is required")
		} else if !Address(intent.ToAddress) {
			errs = append(errs, "Invalid recipient address")
		}
	}

	return types.ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// Address applies the loose format check: 42 characters with a 0x prefix.
// It does not verify hex digits or checksum; see Checksummed for that.
func Address(addr string) bool {
	return len(addr) == 42 && strings.HasPrefix(addr, "0x")
}

// Checksummed reports whether addr is a well-formed hex address whose mixed-case
// spelling, if any, matches its EIP-55 checksum
func Checksummed(addr string) bool {
	if !common.IsHexAddress(addr) {
		return false
	}
	body := strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X")
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return common.HexToAddress(addr).Hex() == "0x"+body
}
