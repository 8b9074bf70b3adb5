package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditware/nightwatch/internal/types"
)

func sampleResult() *types.AuditResult {
	findings := []types.Finding{
		{
			ID: "aaa111aaa111", Repo: "myapp", Focus: "security",
			Severity: types.SeverityHigh, File: "auth/login.go", Line: 42,
			Title: "SQL injection in login", Description: "query built by concatenation",
			Suggestion: "use placeholders",
		},
		{
			ID: "bbb222bbb222", Repo: "myapp", Focus: "security",
			Severity: types.SeverityLow, File: "util.go",
			Title: "dead helper", Description: "nothing calls it",
		},
	}
	return &types.AuditResult{
		RunID:       "run-1",
		Repo:        "myapp",
		Focus:       "security",
		Model:       "claude-sonnet-4-5-20250929",
		Timestamp:   time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC),
		Findings:    findings,
		NewFindings: findings,
		Suppressed: []types.SuppressedFinding{
			{ID: "ccc333ccc333", Action: "dismiss", Reason: "test-only code"},
		},
		ResolvedIDs: []string{"ddd444ddd444"},
	}
}

func TestGenerate(t *testing.T) {
	md := Generate(sampleResult())

	assert.Contains(t, md, "# Nightwatch Report: Security")
	assert.Contains(t, md, "- **New findings**: 2")
	assert.Contains(t, md, "- **Suppressed by decisions**: 1")
	assert.Contains(t, md, "- **Previously flagged, now resolved**: 1")

	// Severity groups in descending order, with icons.
	high := "## 🔴 HIGH (1)"
	low := "## 🔵 LOW (1)"
	assert.Contains(t, md, high)
	assert.Contains(t, md, low)
	assert.Less(t, strings.Index(md, high), strings.Index(md, low))

	assert.Contains(t, md, "`auth/login.go:42`")
	assert.Contains(t, md, "`aaa111aaa111`")
	assert.Contains(t, md, "**Suggestion**: use placeholders")
	assert.Contains(t, md, "`ccc333ccc333` (dismiss): test-only code")
}

func TestGenerateNoNewFindings(t *testing.T) {
	r := sampleResult()
	r.NewFindings = nil
	r.Suppressed = nil

	md := Generate(r)
	assert.Contains(t, md, "No new findings")
	assert.NotContains(t, md, "## Suppressed")
}

func TestGenerateCombinedFocusHeading(t *testing.T) {
	r := sampleResult()
	r.Focus = "security+performance"
	assert.Contains(t, Generate(r), "# Nightwatch Report: Security + Performance")
}

func TestSaveWritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)

	path, err := Save("# report", dir, "myapp", "security", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "myapp", "2026-03-01-security.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# report", string(data))
}

func TestNotification(t *testing.T) {
	msg := Notification(sampleResult())
	assert.Contains(t, msg, "Security Audit — myapp")
	assert.Contains(t, msg, "2 new finding(s): 1 high, 0 medium, 1 low")
	assert.Contains(t, msg, "1 previously flagged finding(s) resolved")

	clean := sampleResult()
	clean.NewFindings = nil
	clean.ResolvedIDs = nil
	assert.Contains(t, Notification(clean), "No new findings")
}
