package decision

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/auditware/nightwatch/internal/contenthash"
	"github.com/auditware/nightwatch/internal/types"
)

// BaselineAuthor is recorded on decisions created by the baseline command.
const BaselineAuthor = "baseline"

// Filters scopes baseline operations by repo, focus area, and severity.
// Zero-value fields match everything.
type Filters struct {
	Repo       string
	Focuses    []string
	Severities []string
}

// MatchDecision reports whether a stored decision falls inside the filter
// scope. Used by Undo and List against the scope metadata stamped on
// baseline decisions.
func (f Filters) MatchDecision(d Decision) bool {
	if f.Repo != "" && d.Repo != f.Repo {
		return false
	}
	if len(f.Focuses) > 0 && !slices.Contains(f.Focuses, d.Focus) {
		return false
	}
	if len(f.Severities) > 0 && !slices.Contains(f.Severities, d.Severity) {
		return false
	}
	return true
}

// MatchFinding reports whether a current finding falls inside the filter scope.
func (f Filters) MatchFinding(fd types.Finding) bool {
	if f.Repo != "" && fd.Repo != f.Repo {
		return false
	}
	if len(f.Focuses) > 0 && !slices.Contains(f.Focuses, fd.Focus) {
		return false
	}
	if len(f.Severities) > 0 && !slices.Contains(f.Severities, string(fd.Severity)) {
		return false
	}
	return true
}

// BaselineManager bulk-creates dismiss decisions for an existing finding set
// and supports scoped removal of only the decisions it created. Used when
// adopting nightwatch on a codebase with a backlog of known findings.
type BaselineManager struct {
	store      *Store
	expiryDays int

	// now and hashFile are swappable for tests.
	now      func() time.Time
	hashFile func(string) (string, error)
}

// NewBaselineManager wires a manager over the given store. expiryDays is the
// lifetime stamped on created decisions.
func NewBaselineManager(store *Store, expiryDays int) *BaselineManager {
	return &BaselineManager{
		store:      store,
		expiryDays: expiryDays,
		now:        time.Now,
		hashFile:   contenthash.HashFile,
	}
}

// Baseline creates a dismiss decision for every finding in scope that has no
// currently active decision. Idempotent: after a first run every targeted
// finding has an active decision, so a second run over the same set creates
// nothing. repoPath anchors file hashing for findings that arrived without a
// hash. Returns the number of decisions created.
func (m *BaselineManager) Baseline(findings []types.Finding, filters Filters, repoPath string) (int, error) {
	all, err := m.store.Load()
	if err != nil {
		return 0, err
	}
	ix := BuildIndex(all)
	now := m.now()
	reason := fmt.Sprintf("baselined on %s", now.Format("2006-01-02"))

	created := 0
	for _, f := range findings {
		if !filters.MatchFinding(f) {
			continue
		}
		hash := f.FileHash
		if hash == "" && f.File != "" {
			// Hash failures leave the decision unpinned rather than aborting
			// the whole baseline; a later file change then cannot resurface
			// it, but expiry still applies.
			hash, _ = m.hashFile(filepath.Join(repoPath, f.File))
		}
		if _, active := ix.Lookup(f.ID, hash, now); active {
			continue
		}
		d := Decision{
			FindingID:  f.ID,
			Action:     ActionDismiss,
			Reason:     reason,
			Author:     BaselineAuthor,
			CreatedAt:  now,
			ExpiryDays: m.expiryDays,
			FilePath:   f.File,
			FileHash:   hash,
			Origin:     OriginBaseline,
			Repo:       f.Repo,
			Focus:      f.Focus,
			Severity:   string(f.Severity),
		}
		if err := m.store.Append(d); err != nil {
			return created, fmt.Errorf("baselining %s: %w", f.ID, err)
		}
		created++
	}
	return created, nil
}

// Undo permanently removes baseline-origin decisions matching the filters.
// Manual decisions, and baseline decisions outside the filter scope, are
// untouched. Returns the number of records removed.
func (m *BaselineManager) Undo(filters Filters) (int, error) {
	return m.store.Rewrite(func(d Decision) bool {
		return d.Origin != OriginBaseline || !filters.MatchDecision(d)
	})
}

// List returns the currently active baseline decisions matching the filters,
// newest record per finding identifier. repoPath anchors the file hash
// verification. Read-only.
func (m *BaselineManager) List(filters Filters, repoPath string) ([]Decision, error) {
	all, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	ix := BuildIndex(all)
	now := m.now()

	var active []Decision
	seen := make(map[string]bool)
	for _, d := range all {
		if d.Origin != OriginBaseline || seen[d.FindingID] || !filters.MatchDecision(d) {
			continue
		}
		seen[d.FindingID] = true
		hash := ""
		if d.FilePath != "" {
			hash, _ = m.hashFile(filepath.Join(repoPath, d.FilePath))
		}
		if cur, ok := ix.Lookup(d.FindingID, hash, now); ok && cur.Origin == OriginBaseline {
			active = append(active, cur)
		}
	}
	return active, nil
}
