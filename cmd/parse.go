package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"smart-wallet/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse <message...>",
	Short: "Parse a natural-language request into an intent",
	Long: `Turn a plain-English wallet request into a structured intent.

An LLM is used when OPENAI_API_KEY is set; the rule-based parser is used otherwise.

Examples:
  smart-wallet parse swap 1 ETH for USDC
  smart-wallet parse "send 10 USDC to 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
  smart-wallet parse check my balance --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	intent := svc.assistant.ParseIntent(context.Background(), strings.Join(args, " "))

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(intent, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}

	displayIntent(intent)
	return nil
}

func displayIntent(intent types.Intent) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                       INTENT")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Action:       %s\n", color.CyanString(string(intent.Action)))
	if intent.Amount != "" {
		fmt.Printf("  Amount:       %s\n", intent.Amount)
	}
	if intent.FromToken != "" {
		fmt.Printf("  From Token:   %s\n", color.YellowString(intent.FromToken))
	}
	if intent.ToToken != "" {
		fmt.Printf("  To Token:     %s\n", color.YellowString(intent.ToToken))
	}
	if intent.ToAddress != "" {
		fmt.Printf("  To Address:   %s\n", intent.ToAddress)
	}
	fmt.Printf("  Confidence:   %.2f\n", intent.Confidence)
	if intent.Explanation != "" {
		fmt.Printf("\n  %s\n", intent.Explanation)
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
