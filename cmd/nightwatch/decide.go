package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/auditware/nightwatch/internal/decision"
)

var decideCmd = &cobra.Command{
	Use:   "decide <finding_id>",
	Short: "Record a decision about a finding",
	Long: `Record a decision about a finding identifier.

The finding does not have to appear in the most recent run; future runs may
still produce it, and the decision will suppress it when they do. A reason
is required: the log is read by humans months later.

Examples:
  # Dismiss a false positive
  nightwatch decide a1b2c3d4e5f6 --action dismiss --reason "test fixture, not production code"

  # Mark intentional behavior
  nightwatch decide a1b2c3d4e5f6 --action intentional --reason "panic is the documented contract" --by alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		actionStr, _ := cmd.Flags().GetString("action")
		reason, _ := cmd.Flags().GetString("reason")
		by, _ := cmd.Flags().GetString("by")

		action, err := decision.ParseAction(actionStr)
		if err != nil {
			fatal("%v", err)
		}

		cfg := loadConfig()
		store := decision.NewStore(cfg.Decisions.Path)
		d := decision.Decision{
			FindingID:  args[0],
			Action:     action,
			Reason:     reason,
			Author:     by,
			CreatedAt:  time.Now(),
			ExpiryDays: cfg.Decisions.ExpiryDays,
			Origin:     decision.OriginManual,
		}
		if err := store.Append(d); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Decision recorded: %s finding %s\n", action, args[0])
	},
}

func init() {
	decideCmd.Flags().StringP("action", "a", "", "Decision: accept, dismiss, or intentional (required)")
	decideCmd.Flags().StringP("reason", "r", "", "Why this decision was made (required)")
	decideCmd.Flags().StringP("by", "b", "user", "Who made this decision")
	decideCmd.MarkFlagRequired("action")
	decideCmd.MarkFlagRequired("reason")
	rootCmd.AddCommand(decideCmd)
}
