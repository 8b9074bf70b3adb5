// Package issues files GitHub issues for new findings through the gh CLI.
// Idempotence rides on a marker comment embedded in each issue body; a
// finding whose marker already matches an open issue is skipped.
package issues

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/auditware/nightwatch/internal/config"
	"github.com/auditware/nightwatch/internal/types"
)

const markerPrefix = "nightwatch-finding-id:"

// runner abstracts gh invocation for tests.
type runner func(ctx context.Context, args ...string) (string, error)

func ghRun(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "gh", args...)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("gh %s: %s", args[0], strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("gh %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Creator files issues for qualifying findings.
type Creator struct {
	cfg config.IssuesConfig
	run runner

	// limiter spaces out create calls as a courtesy to the API.
	limiter *rate.Limiter
}

// NewCreator builds a creator from config.
func NewCreator(cfg config.IssuesConfig) *Creator {
	return &Creator{
		cfg:     cfg,
		run:     ghRun,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Available reports whether gh exists and is authenticated.
func (c *Creator) Available(ctx context.Context) bool {
	if _, err := exec.LookPath("gh"); err != nil {
		return false
	}
	_, err := c.run(ctx, "auth", "status")
	return err == nil
}

// Qualifying filters new findings to those at or above the configured
// severity threshold.
func (c *Creator) Qualifying(result *types.AuditResult) []types.Finding {
	threshold := types.Severity(c.cfg.SeverityThreshold)
	if threshold == "" {
		threshold = types.SeverityMedium
	}
	var out []types.Finding
	for _, f := range result.NewFindings {
		if f.Severity.AtLeast(threshold) {
			out = append(out, f)
		}
	}
	return out
}

// CreateForResult files one issue per qualifying finding, skipping findings
// that already have an open issue. Returns created issue URLs. Individual
// failures are collected into the returned error but do not stop the rest.
func (c *Creator) CreateForResult(ctx context.Context, result *types.AuditResult) ([]string, error) {
	qualifying := c.Qualifying(result)
	if len(qualifying) == 0 {
		return nil, nil
	}

	var urls []string
	var errs []error
	for _, f := range qualifying {
		if err := c.limiter.Wait(ctx); err != nil {
			return urls, err
		}
		exists, err := c.issueExists(ctx, f.ID)
		if err == nil && exists {
			continue
		}
		url, err := c.createIssue(ctx, f, result)
		if err != nil {
			errs = append(errs, fmt.Errorf("finding %s: %w", f.ID, err))
			continue
		}
		urls = append(urls, url)
	}
	if len(errs) > 0 {
		return urls, fmt.Errorf("%d issue(s) failed to create: %v", len(errs), errs[0])
	}
	return urls, nil
}

func (c *Creator) issueExists(ctx context.Context, findingID string) (bool, error) {
	out, err := c.run(ctx, "issue", "list",
		"--search", markerPrefix+" "+findingID,
		"--state", "open", "--json", "number")
	if err != nil {
		return false, err
	}
	var found []struct {
		Number int `json:"number"`
	}
	if err := json.Unmarshal([]byte(out), &found); err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

func (c *Creator) createIssue(ctx context.Context, f types.Finding, result *types.AuditResult) (string, error) {
	title := fmt.Sprintf("[nightwatch/%s] %s", f.Severity, f.Title)
	body := issueBody(f, result)

	args := []string{"issue", "create", "--title", title, "--body", body}
	for _, label := range append(append([]string{}, c.cfg.Labels...), "nightwatch:"+string(f.Severity)) {
		args = append(args, "--label", label)
	}
	for _, assignee := range c.cfg.Assignees {
		args = append(args, "--assignee", assignee)
	}
	return c.run(ctx, args...)
}

func issueBody(f types.Finding, result *types.AuditResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Severity:** %s\n", f.Severity)
	fmt.Fprintf(&b, "**Location:** `%s`\n", f.Location())
	fmt.Fprintf(&b, "**Focus area:** %s\n\n", strings.ReplaceAll(f.Focus, "+", " + "))
	b.WriteString("### Description\n")
	b.WriteString(f.Description)
	b.WriteString("\n")
	if f.Suggestion != "" {
		b.WriteString("\n### Suggestion\n")
		b.WriteString(f.Suggestion)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n---\n*Found by nightwatch (%s, %s)*\n\n",
		result.Model, result.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "<!-- %s %s -->\n", markerPrefix, f.ID)
	return b.String()
}
