package decision

import (
	"sort"
	"time"
)

// Index maps each finding identifier to its most recent decision. It is
// built fresh from a full log load on every invocation; no index survives a
// process, which keeps concurrent CLI runs consistent without any cache
// invalidation protocol.
type Index struct {
	latest map[string]Decision
}

// BuildIndex groups decisions by finding identifier, keeping the most recent
// per id. CreatedAt decides recency; on equal timestamps the later log
// record wins, matching append order.
func BuildIndex(decisions []Decision) *Index {
	latest := make(map[string]Decision, len(decisions))
	for _, d := range decisions {
		prev, ok := latest[d.FindingID]
		if !ok || !d.CreatedAt.Before(prev.CreatedAt) {
			latest[d.FindingID] = d
		}
	}
	return &Index{latest: latest}
}

// Lookup returns the active decision for a finding identifier, if any.
// currentHash is the present content hash of the file the decision targets;
// pass empty when the file no longer exists, which invalidates the decision.
func (ix *Index) Lookup(findingID, currentHash string, now time.Time) (Decision, bool) {
	d, ok := ix.latest[findingID]
	if !ok || !d.ActiveAt(now, currentHash) {
		return Decision{}, false
	}
	return d, true
}

// Latest returns the most recent decision for an identifier regardless of
// whether it is still active. Used for display, not for suppression.
func (ix *Index) Latest(findingID string) (Decision, bool) {
	d, ok := ix.latest[findingID]
	return d, ok
}

// Len reports how many distinct finding identifiers have decisions.
func (ix *Index) Len() int { return len(ix.latest) }

// Decisions returns the newest decision per finding identifier, ordered by
// finding identifier for determinism.
func (ix *Index) Decisions() []Decision {
	out := make([]Decision, 0, len(ix.latest))
	for _, d := range ix.latest {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FindingID < out[j].FindingID })
	return out
}
