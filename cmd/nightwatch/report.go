package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the latest report",
	Long: `Print the most recent markdown report, optionally narrowed to a
repo or focus area.

Examples:
  nightwatch report
  nightwatch report --repo myapp --focus security`,
	Run: func(cmd *cobra.Command, args []string) {
		repo, _ := cmd.Flags().GetString("repo")
		focusName, _ := cmd.Flags().GetString("focus")

		cfg := loadConfig()
		if _, err := os.Stat(cfg.ReportsDir); os.IsNotExist(err) {
			fmt.Println("No reports yet. Run `nightwatch run` first.")
			return
		}

		var reports []string
		filepath.WalkDir(cfg.ReportsDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
				return nil
			}
			if repo != "" && !strings.Contains(path, string(filepath.Separator)+repo+string(filepath.Separator)) {
				return nil
			}
			if focusName != "" && !strings.Contains(filepath.Base(path), focusName) {
				return nil
			}
			reports = append(reports, path)
			return nil
		})

		if len(reports) == 0 {
			fmt.Println("No matching reports found.")
			return
		}
		// Date-prefixed names sort chronologically.
		sort.Sort(sort.Reverse(sort.StringSlice(reports)))

		content, err := os.ReadFile(reports[0])
		if err != nil {
			fatal("%v", err)
		}
		fmt.Print(string(content))
	},
}

func init() {
	reportCmd.Flags().StringP("repo", "r", "", "Show report for a specific repo")
	reportCmd.Flags().StringP("focus", "f", "", "Show report for a specific focus area")
	rootCmd.AddCommand(reportCmd)
}
