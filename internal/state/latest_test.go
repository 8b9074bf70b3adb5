package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditware/nightwatch/internal/config"
	"github.com/auditware/nightwatch/internal/types"
)

func sampleResult() *types.AuditResult {
	return &types.AuditResult{
		RunID:     "run-123",
		Repo:      "myapp",
		Focus:     "security",
		Timestamp: time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC),
		NewFindings: []types.Finding{
			{ID: "aaa111aaa111", Repo: "myapp", Focus: "security", File: "a.go", Title: "x"},
			{ID: "bbb222bbb222", Repo: "myapp", Focus: "security", File: "b.go", Title: "y"},
		},
		ResolvedIDs: []string{"old1", "old2", "old3"},
	}
}

func TestLoadMissingSnapshotIsEmpty(t *testing.T) {
	l := Load(t.TempDir())
	assert.Empty(t, l.Findings)
	assert.Empty(t, l.FindingIDs())
	assert.Empty(t, l.Repo)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, Save(base, sampleResult()))

	l := Load(base)
	assert.Equal(t, "myapp", l.Repo)
	assert.Equal(t, "security", l.Focus)
	assert.Equal(t, "run-123", l.RunID)
	assert.Equal(t, 3, l.ResolvedCount)
	assert.Equal(t, []string{"aaa111aaa111", "bbb222bbb222"}, l.FindingIDs())
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, Save(base, sampleResult()))

	next := sampleResult()
	next.RunID = "run-456"
	next.NewFindings = next.NewFindings[:1]
	require.NoError(t, Save(base, next))

	l := Load(base)
	assert.Equal(t, "run-456", l.RunID)
	assert.Equal(t, []string{"aaa111aaa111"}, l.FindingIDs())
}

func TestLoadCorruptSnapshotIsEmpty(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, config.StateDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "latest-findings.json"), []byte("{truncated"), 0o644))

	l := Load(base)
	assert.Empty(t, l.FindingIDs())
}
