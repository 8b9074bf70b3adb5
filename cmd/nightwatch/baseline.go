package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/auditware/nightwatch/internal/decision"
	"github.com/auditware/nightwatch/internal/state"
	"github.com/auditware/nightwatch/internal/types"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Baseline existing findings so they stay out of future reports",
	Long: `Bulk-dismiss the latest run's findings so adopting nightwatch on an
existing codebase doesn't bury the first reports in backlog.

Baselined findings resurface when the file they point at changes or the
decision expires. Only baseline-created decisions are removed by --undo;
manual decisions are never touched.

Examples:
  # Baseline everything from the latest run
  nightwatch baseline --repo myapp

  # Baseline only low-severity security findings
  nightwatch baseline --repo myapp --focus security --severity low

  # Show active baselines, then remove them
  nightwatch baseline --repo myapp --list
  nightwatch baseline --repo myapp --undo`,
	Run: func(cmd *cobra.Command, args []string) {
		repo, _ := cmd.Flags().GetString("repo")
		focusStr, _ := cmd.Flags().GetString("focus")
		severityStr, _ := cmd.Flags().GetString("severity")
		undo, _ := cmd.Flags().GetBool("undo")
		list, _ := cmd.Flags().GetBool("list")

		cfg := loadConfig()
		filters := decision.Filters{
			Repo:       repo,
			Focuses:    splitList(focusStr),
			Severities: splitList(strings.ToLower(severityStr)),
		}
		mgr := decision.NewBaselineManager(
			decision.NewStore(cfg.Decisions.Path), cfg.Decisions.ExpiryDays)

		repoPath := "."
		if rc, ok := cfg.Repo(repo); ok {
			repoPath = rc.Path
		}

		switch {
		case list:
			active, err := mgr.List(filters, repoPath)
			if err != nil {
				fatal("%v", err)
			}
			if len(active) == 0 {
				fmt.Println("No baselined findings.")
				return
			}
			fmt.Printf("%d baselined finding(s):\n", len(active))
			for _, d := range active {
				fmt.Printf("  %s  %s  (%s, expires %s)\n",
					d.FindingID, d.FilePath, d.Severity, d.ExpiresAt().Format("2006-01-02"))
			}
			fmt.Println("Run `nightwatch baseline --undo` to remove them.")

		case undo:
			removed, err := mgr.Undo(filters)
			if err != nil {
				fatal("%v", err)
			}
			label := ""
			if repo != "" {
				label = " for " + repo
			}
			fmt.Printf("Removed %d baseline decision(s)%s.\n", removed, label)

		default:
			latest := state.Load(repoPath)
			findings := latest.Findings
			if repo != "" {
				findings = filterByRepo(findings, repo)
			}
			if len(findings) == 0 {
				fmt.Println("No findings to baseline. Run `nightwatch run` first.")
				return
			}
			created, err := mgr.Baseline(findings, filters, repoPath)
			if err != nil {
				fatal("%v", err)
			}
			fmt.Printf("Baselined %d finding(s) from the latest audit.\n", created)
			fmt.Println("These stay out of future reports unless the affected files change.")
			fmt.Println("Run `nightwatch baseline --undo` to reverse.")
		}
	},
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func filterByRepo(findings []types.Finding, repo string) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if f.Repo == repo {
			out = append(out, f)
		}
	}
	return out
}

func init() {
	baselineCmd.Flags().StringP("repo", "r", "", "Baseline a specific repo")
	baselineCmd.Flags().StringP("focus", "f", "", "Baseline specific focus area(s), comma-separated")
	baselineCmd.Flags().StringP("severity", "s", "", "Baseline specific severities (low,medium,high)")
	baselineCmd.Flags().Bool("undo", false, "Remove baseline decisions")
	baselineCmd.Flags().Bool("list", false, "Show active baselined findings")
	rootCmd.AddCommand(baselineCmd)
}
