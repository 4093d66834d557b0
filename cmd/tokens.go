package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	oneclick "github.com/defuse-protocol/one-click-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"smart-wallet/pkg/token"
)

var (
	filterChain  string
	filterSymbol string
	liveTokens   bool
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List all supported tokens",
	Long: `List the tokens the wallet can parse, price and quote.

With --live the full 1Click token list is fetched instead, which is useful for
checking which chains a symbol is available on.

Examples:
  smart-wallet list-tokens
  smart-wallet list-tokens --symbol USD
  smart-wallet list-tokens --live --chain eth`,
	Args: cobra.NoArgs,
	RunE: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterChain, "chain", "", "Filter by blockchain (with --live)")
	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
	tokensCmd.Flags().BoolVar(&liveTokens, "live", false, "List tokens from the 1Click API")
}

func runListTokens(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if liveTokens {
		return runListLiveTokens(jsonOutput)
	}

	var filtered []token.Token
	for _, t := range token.All() {
		if filterSymbol == "" || strings.Contains(t.Symbol, strings.ToUpper(filterSymbol)) {
			filtered = append(filtered, t)
		}
	}

	if jsonOutput {
		type tokenJSON struct {
			Symbol   string `json:"symbol"`
			Name     string `json:"name"`
			Decimals int    `json:"decimals"`
		}
		out := make([]tokenJSON, 0, len(filtered))
		for _, t := range filtered {
			out = append(out, tokenJSON{Symbol: t.Symbol, Name: t.Name, Decimals: t.Decimals})
		}
		jsonData, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}

	if len(filtered) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return nil
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                  SUPPORTED TOKENS")
	fmt.Println(strings.Repeat("=", 60))
	for _, t := range filtered {
		fmt.Printf("  %-14s  %-16s  %2d decimals\n",
			color.YellowString(t.Symbol),
			t.Name,
			t.Decimals)
	}
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\nTotal: %d tokens\n\n", len(filtered))
	return nil
}

func runListLiveTokens(jsonOutput bool) error {
	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	// Get tokens with spinner
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching 1Click tokens..."
		s.Start()
	}

	tokens, err := svc.oneClick.GetSupportedTokens(context.Background())
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		return err
	}

	// Apply filters
	filtered := tokens
	if filterChain != "" {
		var temp []oneclick.TokenResponse
		for _, t := range filtered {
			if strings.EqualFold(t.GetBlockchain(), filterChain) {
				temp = append(temp, t)
			}
		}
		filtered = temp
	}

	if filterSymbol != "" {
		var temp []oneclick.TokenResponse
		for _, t := range filtered {
			if strings.Contains(strings.ToUpper(t.GetSymbol()), strings.ToUpper(filterSymbol)) {
				temp = append(temp, t)
			}
		}
		filtered = temp
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(filtered, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}

	displayLiveTokens(filtered)
	return nil
}

func displayLiveTokens(tokens []oneclick.TokenResponse) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            1CLICK TOKENS")
	fmt.Println(strings.Repeat("=", 90))

	// Group tokens by blockchain
	tokensByChain := make(map[string][]oneclick.TokenResponse)
	for _, t := range tokens {
		chain := t.GetBlockchain()
		tokensByChain[chain] = append(tokensByChain[chain], t)
	}

	chains := make([]string, 0, len(tokensByChain))
	for chain := range tokensByChain {
		chains = append(chains, chain)
	}
	sort.Strings(chains)

	for _, chain := range chains {
		color.Cyan("\n%s", strings.ToUpper(chain))
		fmt.Println(strings.Repeat("-", 90))

		for _, t := range tokensByChain[chain] {
			supported := ""
			if token.IsSupported(t.GetSymbol()) {
				supported = color.GreenString("✓")
			}
			fmt.Printf("  %-10s  $%-12.4f  %s\n",
				color.YellowString(t.GetSymbol()),
				float64(t.GetPrice()),
				supported)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d tokens across %d blockchains\n\n", len(tokens), len(chains))
}
