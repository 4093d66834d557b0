package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"smart-wallet/pkg/pricing"
)

var priceCmd = &cobra.Command{
	Use:   "price <token>",
	Short: "Show the USD price of a token",
	Long: `Fetch the current USD price of a supported token.

Prices come from CoinGecko, then 1Click, then a built-in fallback table.

Examples:
  smart-wallet price ETH
  smart-wallet price link --json`,
	Args: cobra.ExactArgs(1),
	RunE: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching price..."
		s.Start()
	}

	price, err := svc.pricer.Price(context.Background(), args[0])
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		output := map[string]interface{}{
			"token":     price.Symbol,
			"price":     price.USD.InexactFloat64(),
			"source":    price.Source,
			"timestamp": price.FetchedAt.UTC(),
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}

	fmt.Printf("\n  %s  $%s\n", color.YellowString(price.Symbol), price.USD.StringFixed(2))
	if price.Source == pricing.SourceFallback {
		color.HiBlack("  (fallback price, live sources unavailable)")
	} else {
		color.HiBlack("  (source: %s)", price.Source)
	}
	fmt.Println()
	return nil
}
