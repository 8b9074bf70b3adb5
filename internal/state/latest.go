// Package state persists the latest-findings snapshot: the previous run's
// new findings for a repo. It is the report history the filter engine diffs
// against to call findings resolved, and the finding set the baseline
// command operates over.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/auditware/nightwatch/internal/config"
	"github.com/auditware/nightwatch/internal/types"
)

const latestFile = "latest-findings.json"

// Latest is the snapshot of one run's reported findings.
type Latest struct {
	Repo          string          `json:"repo"`
	Focus         string          `json:"focus"`
	RunID         string          `json:"run_id"`
	Timestamp     time.Time       `json:"timestamp"`
	ResolvedCount int             `json:"resolved_count"`
	Findings      []types.Finding `json:"findings"`
}

func latestPath(basePath string) string {
	return filepath.Join(basePath, config.StateDir, latestFile)
}

// Load reads the snapshot under basePath. Missing or corrupt snapshots load
// as empty: the first run after adoption (or after a damaged state file)
// simply has no history to diff against.
func Load(basePath string) *Latest {
	data, err := os.ReadFile(latestPath(basePath))
	if err != nil {
		return &Latest{}
	}
	var l Latest
	if err := json.Unmarshal(data, &l); err != nil {
		return &Latest{}
	}
	return &l
}

// FindingIDs returns the identifiers in the snapshot, in stored order.
func (l *Latest) FindingIDs() []string {
	ids := make([]string, 0, len(l.Findings))
	for _, f := range l.Findings {
		ids = append(ids, f.ID)
	}
	return ids
}

// Save replaces the snapshot with this run's new findings.
func Save(basePath string, result *types.AuditResult) error {
	l := Latest{
		Repo:          result.Repo,
		Focus:         result.Focus,
		RunID:         result.RunID,
		Timestamp:     result.Timestamp,
		ResolvedCount: len(result.ResolvedIDs),
		Findings:      result.NewFindings,
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding latest findings: %w", err)
	}
	path := latestPath(basePath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing latest findings: %w", err)
	}
	return nil
}
