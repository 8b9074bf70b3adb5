// Package report renders audit results as markdown reports and short
// notification summaries.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/auditware/nightwatch/internal/types"
)

// focusDisplay formats "security+performance" as "Security + Performance".
func focusDisplay(focus string) string {
	parts := strings.Split(focus, "+")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " + ")
}

var severityIcons = map[types.Severity]string{
	types.SeverityHigh:   "🔴",
	types.SeverityMedium: "🟡",
	types.SeverityLow:    "🔵",
}

// Generate renders the full markdown report for one audit result.
func Generate(result *types.AuditResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Nightwatch Report: %s\n\n", focusDisplay(result.Focus))
	fmt.Fprintf(&b, "- **Repo**: %s\n", result.Repo)
	fmt.Fprintf(&b, "- **Focus**: %s\n", focusDisplay(result.Focus))
	fmt.Fprintf(&b, "- **Model**: %s\n", result.Model)
	fmt.Fprintf(&b, "- **Date**: %s\n\n", result.Timestamp.Format(time.RFC3339))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **New findings**: %d\n", len(result.NewFindings))
	fmt.Fprintf(&b, "- **Total findings**: %d\n", len(result.Findings))
	fmt.Fprintf(&b, "- **Suppressed by decisions**: %d\n", len(result.Suppressed))
	fmt.Fprintf(&b, "- **Previously flagged, now resolved**: %d\n\n", len(result.ResolvedIDs))

	if len(result.NewFindings) == 0 {
		b.WriteString("No new findings. Looking good!\n")
	} else {
		for _, sev := range []types.Severity{types.SeverityHigh, types.SeverityMedium, types.SeverityLow} {
			var group []types.Finding
			for _, f := range result.NewFindings {
				if f.Severity == sev {
					group = append(group, f)
				}
			}
			if len(group) == 0 {
				continue
			}
			fmt.Fprintf(&b, "## %s %s (%d)\n\n", severityIcons[sev], strings.ToUpper(string(sev)), len(group))
			for _, f := range group {
				fmt.Fprintf(&b, "### %s\n\n", f.Title)
				fmt.Fprintf(&b, "**Location**: `%s`  \n", f.Location())
				fmt.Fprintf(&b, "**ID**: `%s`\n\n", f.ID)
				fmt.Fprintf(&b, "%s\n", f.Description)
				if f.Suggestion != "" {
					fmt.Fprintf(&b, "\n**Suggestion**: %s\n", f.Suggestion)
				}
				b.WriteString("\n")
			}
		}
	}

	if len(result.Suppressed) > 0 {
		fmt.Fprintf(&b, "## Suppressed (%d)\n\n", len(result.Suppressed))
		for _, s := range result.Suppressed {
			fmt.Fprintf(&b, "- `%s` (%s): %s\n", s.ID, s.Action, s.Reason)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Save writes a report to reportsDir/<repo>/<date>-<focus>.md and returns
// the path.
func Save(content, reportsDir, repo, focus string, now time.Time) (string, error) {
	dir := filepath.Join(reportsDir, repo)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", now.Format("2006-01-02"), focus))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// Notification renders the short summary sent to chat channels.
func Notification(result *types.AuditResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 %s Audit — %s\n", focusDisplay(result.Focus), result.Repo)
	if len(result.NewFindings) == 0 {
		b.WriteString("✅ No new findings")
	} else {
		fmt.Fprintf(&b, "%d new finding(s): %d high, %d medium, %d low",
			len(result.NewFindings),
			result.CountBySeverity(types.SeverityHigh),
			result.CountBySeverity(types.SeverityMedium),
			result.CountBySeverity(types.SeverityLow))
	}
	if n := len(result.ResolvedIDs); n > 0 {
		fmt.Fprintf(&b, "\n✔ %d previously flagged finding(s) resolved", n)
	}
	return b.String()
}
