package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/auditware/nightwatch/internal/decision"
	"github.com/auditware/nightwatch/internal/state"
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Walk through the latest run's findings and record decisions",
	Long: `Interactively step through the new findings from the latest run,
recording a decision for each one you triage.

For each finding: a)ccept, d)ismiss, i)ntentional, s)kip, or q)uit. Accept,
dismiss, and intentional prompt for a reason; skipped findings reappear in
the next run.

Examples:
  nightwatch triage
  nightwatch triage --repo myapp --by alice`,
	Run: func(cmd *cobra.Command, args []string) {
		repo, _ := cmd.Flags().GetString("repo")
		by, _ := cmd.Flags().GetString("by")

		cfg := loadConfig()
		repoPath := "."
		if rc, ok := cfg.Repo(repo); ok {
			repoPath = rc.Path
		}

		latest := state.Load(repoPath)
		if len(latest.Findings) == 0 {
			fmt.Println("No findings to triage. Run `nightwatch run` first.")
			return
		}

		rl, err := readline.New("> ")
		if err != nil {
			fatal("initializing prompt: %v", err)
		}
		defer rl.Close()

		store := decision.NewStore(cfg.Decisions.Path)
		cyan := color.New(color.FgCyan).SprintFunc()
		bold := color.New(color.Bold).SprintFunc()

		decided := 0
		for i, f := range latest.Findings {
			fmt.Printf("\n[%d/%d] %s %s\n", i+1, len(latest.Findings), severityTag(string(f.Severity)), bold(f.Title))
			fmt.Printf("  %s  %s\n", cyan(f.ID), f.Location())
			fmt.Printf("  %s\n", f.Description)
			if f.Suggestion != "" {
				fmt.Printf("  Suggestion: %s\n", f.Suggestion)
			}

			action, done := promptAction(rl)
			if done {
				break
			}
			if action == "" {
				continue // skipped
			}

			reason := promptLine(rl, "reason: ")
			if reason == "" {
				fmt.Println("  A reason is required; skipping this finding.")
				continue
			}

			d := decision.Decision{
				FindingID:  f.ID,
				Action:     decision.Action(action),
				Reason:     reason,
				Author:     by,
				CreatedAt:  time.Now(),
				ExpiryDays: cfg.Decisions.ExpiryDays,
				FilePath:   f.File,
				FileHash:   f.FileHash,
				Origin:     decision.OriginManual,
				Repo:       f.Repo,
				Focus:      f.Focus,
				Severity:   string(f.Severity),
			}
			if err := store.Append(d); err != nil {
				fatal("%v", err)
			}
			decided++
		}
		fmt.Printf("\nRecorded %d decision(s).\n", decided)
	},
}

// promptAction reads one triage choice. Returns ("", true) on quit or EOF,
// ("", false) on skip, or the chosen action.
func promptAction(rl *readline.Instance) (string, bool) {
	for {
		rl.SetPrompt("a)ccept  d)ismiss  i)ntentional  s)kip  q)uit > ")
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", true
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a", "accept":
			return string(decision.ActionAccept), false
		case "d", "dismiss":
			return string(decision.ActionDismiss), false
		case "i", "intentional":
			return string(decision.ActionIntentional), false
		case "s", "skip", "":
			return "", false
		case "q", "quit":
			return "", true
		}
	}
}

func promptLine(rl *readline.Instance, prompt string) string {
	rl.SetPrompt(prompt)
	line, err := rl.Readline()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func severityTag(sev string) string {
	switch sev {
	case "high":
		return color.New(color.FgRed).Sprintf("[%s]", sev)
	case "medium":
		return color.New(color.FgYellow).Sprintf("[%s]", sev)
	default:
		return color.New(color.FgBlue).Sprintf("[%s]", sev)
	}
}

func init() {
	triageCmd.Flags().StringP("repo", "r", "", "Triage findings for a specific repo")
	triageCmd.Flags().StringP("by", "b", "user", "Who is making these decisions")
	rootCmd.AddCommand(triageCmd)
}
