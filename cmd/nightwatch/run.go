package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/auditware/nightwatch/internal/audit"
	"github.com/auditware/nightwatch/internal/issues"
	"github.com/auditware/nightwatch/internal/notify"
	"github.com/auditware/nightwatch/internal/provider"
	"github.com/auditware/nightwatch/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an audit",
	Long: `Run an audit over the configured repos.

The focus areas come from today's schedule entry unless --focus overrides
them. Findings with an active decision are suppressed; the rest are written
to a markdown report and, when configured, filed as GitHub issues and
summarized to Telegram.

Examples:
  # Audit all repos with today's scheduled focus
  nightwatch run

  # Audit one repo with an explicit focus
  nightwatch run --repo myapp --focus security

  # See what would be audited without calling the provider
  nightwatch run --dry-run`,
	Run: func(cmd *cobra.Command, args []string) {
		repo, _ := cmd.Flags().GetString("repo")
		focusSpec, _ := cmd.Flags().GetString("focus")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		cfg := loadConfig()

		var p provider.Provider
		if !dryRun {
			ap, err := provider.NewAnthropic(provider.AnthropicConfig{Model: cfg.Model})
			if err != nil {
				fatal("%v", err)
			}
			p = ap
		}

		runner := audit.NewRunner(cfg, p, os.Stdout)
		results, err := runner.Run(context.Background(), audit.Options{
			Repo:   repo,
			Focus:  focusSpec,
			DryRun: dryRun,
		})
		if err != nil {
			fatal("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		ctx := context.Background()
		creator := issues.NewCreator(cfg.Issues)
		for _, result := range results {
			if len(result.NewFindings) == 0 {
				fmt.Printf("\n%s: %s No new findings\n", result.Repo, green("✓"))
			} else {
				fmt.Printf("\n%s: %s %d new finding(s)\n", result.Repo, yellow("⚠"), len(result.NewFindings))
			}
			if n := len(result.Suppressed); n > 0 {
				fmt.Printf("  %d suppressed by decisions\n", n)
			}
			if n := len(result.ResolvedIDs); n > 0 {
				fmt.Printf("  %d previously flagged, now resolved\n", n)
			}

			if cfg.Issues.Enabled {
				if !creator.Available(ctx) {
					fmt.Printf("  gh CLI not available or not authenticated, skipping issue creation\n")
				} else if urls, err := creator.CreateForResult(ctx, result); err != nil {
					fmt.Fprintf(os.Stderr, "  Warning: %v\n", err)
				} else {
					for _, url := range urls {
						fmt.Printf("  Created issue: %s\n", url)
					}
				}
			}

			if cfg.Notifications.Enabled {
				tg, err := notify.NewTelegram(cfg.Notifications.ChatID)
				if err != nil {
					fmt.Fprintf(os.Stderr, "  Warning: skipping notification: %v\n", err)
				} else if err := tg.Send(ctx, report.Notification(result)); err != nil {
					fmt.Fprintf(os.Stderr, "  Warning: %v\n", err)
				}
			}
		}
	},
}

func init() {
	runCmd.Flags().StringP("repo", "r", "", "Audit a specific repo (default: all)")
	runCmd.Flags().StringP("focus", "f", "", "Focus area(s): name, comma-separated, or 'all'")
	runCmd.Flags().Bool("dry-run", false, "Show what would be audited without calling the provider")
	rootCmd.AddCommand(runCmd)
}
