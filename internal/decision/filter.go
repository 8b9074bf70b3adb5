package decision

import (
	"time"

	"github.com/auditware/nightwatch/internal/types"
)

// Partition is the outcome of filtering one run's findings against the
// decision index.
type Partition struct {
	// New findings have no active decision and should be reported in full.
	New []types.Finding

	// Suppressed findings are hidden by an active decision; only the
	// identity and the decision that hides them are reported.
	Suppressed []types.SuppressedFinding

	// Resolved identifiers were flagged in the previous run but are absent
	// from this one: previously flagged, now gone.
	Resolved []string
}

// PartitionFindings splits the current run's findings into new and
// suppressed, and diffs against previousIDs (the identifiers the prior run
// for the same repo/focus reported as new) to find resolved findings.
//
// Each finding's FileHash carries the current content hash of its file; an
// empty hash means the file could not be read and invalidates any decision
// pinned to it. Output is deterministic: input order is preserved and no
// clock other than now is consulted.
func PartitionFindings(findings []types.Finding, ix *Index, previousIDs []string, now time.Time) Partition {
	var p Partition
	current := make(map[string]bool, len(findings))
	for _, f := range findings {
		current[f.ID] = true
		if d, ok := ix.Lookup(f.ID, f.FileHash, now); ok {
			p.Suppressed = append(p.Suppressed, types.SuppressedFinding{
				ID:     f.ID,
				Action: string(d.Action),
				Reason: d.Reason,
			})
			continue
		}
		p.New = append(p.New, f)
	}

	seen := make(map[string]bool, len(previousIDs))
	for _, id := range previousIDs {
		if current[id] || seen[id] {
			continue
		}
		seen[id] = true
		p.Resolved = append(p.Resolved, id)
	}
	return p
}
