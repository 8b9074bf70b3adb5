package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexKeepsMostRecentPerID(t *testing.T) {
	old := validDecision()
	old.Action = ActionAccept
	newer := validDecision()
	newer.Action = ActionDismiss
	newer.CreatedAt = old.CreatedAt.Add(48 * time.Hour)

	other := validDecision()
	other.FindingID = "ffffffffffff"

	ix := BuildIndex([]Decision{old, newer, other})
	assert.Equal(t, 2, ix.Len())

	got, ok := ix.Latest(old.FindingID)
	require.True(t, ok)
	assert.Equal(t, ActionDismiss, got.Action, "later decision supersedes the earlier one")
}

func TestBuildIndexEqualTimestampsLaterRecordWins(t *testing.T) {
	first := validDecision()
	first.Reason = "first"
	second := validDecision()
	second.Reason = "second"

	ix := BuildIndex([]Decision{first, second})
	got, ok := ix.Latest(first.FindingID)
	require.True(t, ok)
	assert.Equal(t, "second", got.Reason)
}

func TestLookupAppliesActivity(t *testing.T) {
	d := validDecision()
	ix := BuildIndex([]Decision{d})
	now := d.CreatedAt.AddDate(0, 0, 10)

	_, ok := ix.Lookup(d.FindingID, d.FileHash, now)
	assert.True(t, ok)

	_, ok = ix.Lookup(d.FindingID, "changed", now)
	assert.False(t, ok, "hash mismatch must hide the decision")

	_, ok = ix.Lookup(d.FindingID, d.FileHash, d.CreatedAt.AddDate(0, 0, 91))
	assert.False(t, ok, "expired decision must hide")

	_, ok = ix.Lookup("nosuchfinding", d.FileHash, now)
	assert.False(t, ok)
}

func TestDecisionsOrderedByID(t *testing.T) {
	a := validDecision()
	a.FindingID = "bbbbbbbbbbbb"
	b := validDecision()
	b.FindingID = "aaaaaaaaaaaa"

	ix := BuildIndex([]Decision{a, b})
	out := ix.Decisions()
	require.Len(t, out, 2)
	assert.Equal(t, "aaaaaaaaaaaa", out[0].FindingID)
	assert.Equal(t, "bbbbbbbbbbbb", out[1].FindingID)
}
