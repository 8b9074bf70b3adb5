// Command nightwatch runs scheduled AI-powered codebase audits with
// decision memory: findings a human has already triaged stay suppressed
// until they expire or the code they point at changes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/auditware/nightwatch/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "nightwatch",
	Short: "Nightly AI-powered codebase audits with decision memory",
	Long: `Nightwatch audits codebases with an AI provider on a weekly focus
rotation and remembers human decisions about findings, so triaged findings
stay out of future reports until they expire or the code changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to nightwatch.yml")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
