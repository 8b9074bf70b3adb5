package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/auditware/nightwatch/internal/decision"
	"github.com/auditware/nightwatch/internal/focus"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current configuration and status",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		fmt.Println("Repos:")
		for _, r := range cfg.Repos {
			fmt.Printf("  %s: %s\n", r.Name, r.Path)
		}
		if len(cfg.Repos) == 0 {
			fmt.Println("  (none configured)")
		}

		fmt.Println("\nFocus areas:")
		for _, name := range focus.Names() {
			area, _ := focus.Get(name)
			fmt.Printf("  %s: %s\n", name, area.Description)
		}

		fmt.Printf("\nDecisions: %s\n", cfg.Decisions.Path)
		store := decision.NewStore(cfg.Decisions.Path)
		if decisions, err := store.Load(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "  Warning: %v\n", err)
		} else if len(decisions) > 0 {
			fmt.Printf("  %d decision(s) recorded, %d finding(s) covered\n",
				len(decisions), decision.BuildIndex(decisions).Len())
		}
		fmt.Printf("Reports: %s\n", cfg.ReportsDir)

		today := cfg.TodayFocus(time.Now())
		names, err := focus.Resolve(today)
		if err != nil || len(names) == 0 {
			fmt.Println("\nToday's focus: off")
		} else {
			fmt.Printf("\nToday's focus: %s\n", focus.Label(names))
		}

		printCostSummary()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
