package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"smart-wallet/pkg/history"
	"smart-wallet/pkg/types"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List simulated executions",
	Long: `Show simulated executions recorded by the server and by quote --execute.

Examples:
  smart-wallet history
  smart-wallet history --limit 5
  smart-wallet history 7c1d2b0e-3f0a-4a59-9a8c-0f1f1f1f1f1f --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of executions to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	path := cfg.HistoryFile
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			return err
		}
	}
	store, err := history.NewStorage(path)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		rec, err := store.Get(args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			jsonData, _ := json.MarshalIndent(rec, "", "  ")
			fmt.Println(string(jsonData))
			return nil
		}
		displayExecution(rec)
		return nil
	}

	records := store.List()
	if historyLimit > 0 && len(records) > historyLimit {
		records = records[:historyLimit]
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}

	if len(records) == 0 {
		color.Yellow("No executions found.\n")
		fmt.Println("\nSimulate one with:")
		color.Cyan("  smart-wallet quote 1 ETH to USDC --execute\n")
		return nil
	}

	fmt.Println("\n" + strings.Repeat("=", 120))
	color.Green("                                              EXECUTIONS")
	fmt.Println(strings.Repeat("=", 120))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nTIME\tACTION\tAMOUNT\tRESULT\tHASH\tSTATUS")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, rec := range records {
		amount := fmt.Sprintf("%s %s", rec.Intent.Amount, rec.Intent.FromToken)
		result := "-"
		if rec.Intent.Action == types.ActionSwap {
			result = fmt.Sprintf("%s %s", rec.OutputAmount, rec.Intent.ToToken)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Intent.Action, amount, result, shortHash(rec.Hash), getStatusColor(rec.Status))
	}
	w.Flush()

	fmt.Println(strings.Repeat("=", 120))
	fmt.Printf("\nTotal: %d of %d executions (%s)\n\n", len(records), store.Count(), store.GetFilePath())
	return nil
}

func displayExecution(rec types.Execution) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                            EXECUTION")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  ID:       %s\n", rec.ID)
	fmt.Printf("  Hash:     %s\n", color.CyanString(rec.Hash))
	fmt.Printf("  Status:   %s\n", getStatusColor(rec.Status))
	fmt.Printf("  Time:     %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Action:   %s\n", rec.Intent.Action)
	fmt.Printf("  Amount:   %s %s\n", rec.Intent.Amount, color.YellowString(rec.Intent.FromToken))
	if rec.Quote != nil {
		fmt.Printf("  Output:   ~%s %s\n", rec.Quote.OutputAmount, color.YellowString(rec.Quote.ToToken))
		fmt.Printf("  Route:    %s\n", strings.Join(rec.Quote.Route, ", "))
	}
	if rec.Intent.ToAddress != "" {
		fmt.Printf("  To:       %s\n", rec.Intent.ToAddress)
	}
	if rec.ErrorMessage != "" {
		fmt.Printf("  Error:    %s\n", color.RedString(rec.ErrorMessage))
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func shortHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:8] + "..." + hash[len(hash)-4:]
}

func getStatusColor(status types.ExecutionStatus) string {
	switch status {
	case types.ExecutionCompleted:
		return color.GreenString(string(status))
	case types.ExecutionFailed:
		return color.RedString(string(status))
	default:
		return string(status)
	}
}
