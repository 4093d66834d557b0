package parser

import (
	"fmt"
	"regexp"
	"strings"

	"smart-wallet/pkg/token"
	"smart-wallet/pkg/types"
)

var swapCommandPattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+(?:TO|FOR)\s+([A-Z0-9]+)$`)

// ParseSwapCommand parses the terse quote grammar used by the CLI
// Examples:
//   - "swap 1 ETH to USDC"
//   - "1.5 LINK to DAI"
//   - "100 USDC for UNI"
func ParseSwapCommand(command string) (*types.SwapRequest, error) {
	command = strings.TrimSpace(strings.ToUpper(command))
	command = strings.TrimPrefix(command, "SWAP ")

	matches := swapCommandPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 ETH to USDC')")
	}

	return &types.SwapRequest{
		Amount:      matches[1],
		SourceToken: matches[2],
		DestToken:   matches[3],
	}, nil
}

// ValidateSwapRequest checks that a swap request names supported tokens
func ValidateSwapRequest(req *types.SwapRequest) error {
	if req.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if req.SourceToken == "" {
		return fmt.Errorf("source token is required")
	}
	if req.DestToken == "" {
		return fmt.Errorf("destination token is required")
	}
	if !token.IsSupported(req.SourceToken) {
		return fmt.Errorf("token %s not supported", req.SourceToken)
	}
	if !token.IsSupported(req.DestToken) {
		return fmt.Errorf("token %s not supported", req.DestToken)
	}
	return nil
}
