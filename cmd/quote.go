package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"smart-wallet/pkg/parser"
	"smart-wallet/pkg/pricing"
	"smart-wallet/pkg/types"
	"smart-wallet/pkg/validate"
)

var (
	executeQuote bool
	noConfirm    bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Quote a token swap",
	Long: `Estimate the output of a swap from current USD prices, less 0.3% slippage.

With --execute the swap is then simulated and recorded in the history file.
No transaction is signed or broadcast.

Examples:
  smart-wallet quote 1 ETH to USDC
  smart-wallet quote 250 USDC for LINK --json
  smart-wallet quote 0.5 ETH to DAI --execute --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().BoolVar(&executeQuote, "execute", false, "Simulate executing the swap after quoting")
	quoteCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runQuote(cmd *cobra.Command, args []string) error {
	// Parse the command
	swapReq, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if err := parser.ValidateSwapRequest(swapReq); err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()

	// Get quote with spinner
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching prices..."
		s.Start()
	}

	quote, err := svc.quoter.Quote(ctx, swapReq.SourceToken, swapReq.DestToken, swapReq.Amount)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		return err
	}

	if jsonOutput && !executeQuote {
		jsonData, _ := json.MarshalIndent(quote, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}
	if !jsonOutput {
		displayQuote(quote)
	}

	if !executeQuote {
		return nil
	}

	intent := types.Intent{
		Action:     types.ActionSwap,
		Amount:     swapReq.Amount,
		FromToken:  swapReq.SourceToken,
		ToToken:    swapReq.DestToken,
		Confidence: 1,
	}
	if result := validate.Transaction(intent, cfg.DefaultUserBalance); !result.Valid {
		return fmt.Errorf("transaction rejected: %s", strings.Join(result.Errors, "; "))
	}

	// Ask for confirmation
	if !noConfirm && !jsonOutput {
		if !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			return nil
		}
	}

	tx := types.Transaction{
		Intent:       intent,
		Quote:        quote,
		Explanation:  svc.assistant.Explain(ctx, intent, quote),
		EstimatedGas: pricing.GasEstimate,
		Timestamp:    time.Now().UTC(),
	}

	if !jsonOutput {
		s.Suffix = " Executing swap..."
		s.Start()
	}
	rec, err := svc.executor.Execute(ctx, tx)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}

	color.Green("\n✓ Swap simulated successfully!")
	fmt.Printf("  Transaction Hash: %s\n", color.CyanString(rec.Hash))
	fmt.Printf("  Received:         ~%s %s\n", rec.OutputAmount, color.YellowString(quote.ToToken))
	fmt.Println("\nView past executions with:")
	color.Cyan("  smart-wallet history\n")
	return nil
}

func displayQuote(quote *types.Quote) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:              %s %s\n", quote.InputAmount, color.YellowString(quote.FromToken))
	fmt.Printf("  To:                ~%s %s\n", quote.OutputAmount, color.YellowString(quote.ToToken))
	fmt.Printf("  Price Impact:      %s\n", quote.PriceImpact)
	fmt.Printf("  Gas Estimate:      %s\n", quote.GasEstimate)
	fmt.Printf("  Route:             %s\n", strings.Join(quote.Route, ", "))

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
