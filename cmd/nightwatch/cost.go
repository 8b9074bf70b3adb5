package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/auditware/nightwatch/internal/cost"
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Show audit spend over the last 30 days",
	Run: func(cmd *cobra.Command, args []string) {
		printCostSummary()
	},
}

func printCostSummary() {
	ledger := cost.NewLedger(".")
	entries, err := ledger.LastNDays(30, time.Now())
	if err != nil {
		fatal("%v", err)
	}

	fmt.Println("\nCost (last 30 days):")
	if len(entries) == 0 {
		fmt.Println("  No audit history yet")
		return
	}

	s := cost.Summarize(entries)
	fmt.Printf("  Audits run:          %d\n", s.Audits)
	fmt.Printf("  Total input tokens:  %s\n", cost.FormatTokens(s.InputTokens))
	fmt.Printf("  Total output tokens: %s\n", cost.FormatTokens(s.OutputTokens))
	fmt.Printf("  Estimated spend:     $%.2f\n", s.TotalUSD)
	fmt.Printf("  Avg per audit:       $%.2f\n", s.AvgUSD)
	fmt.Printf("  Projected monthly:   ~$%.2f\n", s.ProjectedMonthly)

	last := entries
	if len(last) > 5 {
		last = last[len(last)-5:]
	}
	fmt.Println("\n  Last audits:")
	for i := len(last) - 1; i >= 0; i-- {
		e := last[i]
		fmt.Printf("    %s  %-18s %-26s %3d files  %7s tok  $%.2f\n",
			e.Timestamp.Format("Jan 02"), e.Focus, e.Model, e.FileCount,
			cost.FormatTokens(e.InputTokens+e.OutputTokens), e.CostUSD)
	}
}

func init() {
	rootCmd.AddCommand(costCmd)
}
