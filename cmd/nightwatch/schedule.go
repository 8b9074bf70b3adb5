package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/auditware/nightwatch/internal/config"
	"github.com/auditware/nightwatch/internal/focus"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the weekly audit schedule",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		today := config.WeekdayNames[(int(time.Now().Weekday())+6)%7]

		fmt.Println("Weekly Schedule:")
		fmt.Println()
		for _, day := range config.WeekdayNames {
			spec := cfg.Schedule[day]
			names, err := focus.Resolve(spec)
			display := "off"
			icon := "  "
			if err != nil {
				display = fmt.Sprintf("invalid (%s)", spec)
			} else if len(names) > 0 {
				display = strings.Join(names, ", ")
				icon = "▶ "
			}
			marker := ""
			if day == today {
				marker = " ← today"
			}
			fmt.Printf("  %s%-12s %s%s\n", icon, capitalize(day), display, marker)
		}
	},
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
