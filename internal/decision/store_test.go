package decision

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "decisions.jsonl"))
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := tempStore(t)
	decisions, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, decisions)
}

// Round-trip: N appended records reload with every field intact.
func TestAppendLoadRoundTrip(t *testing.T) {
	store := tempStore(t)

	want := make([]Decision, 0, 5)
	for i := 0; i < 5; i++ {
		d := validDecision()
		d.FindingID = strings.Repeat("a", 11) + string(rune('0'+i))
		d.Author = "alice"
		d.Repo = "myapp"
		d.Focus = "security"
		d.Severity = "high"
		d.CreatedAt = d.CreatedAt.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.Append(d))
		want = append(want, d)
	}

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := range want {
		assert.Equal(t, want[i].FindingID, got[i].FindingID)
		assert.Equal(t, want[i].Action, got[i].Action)
		assert.Equal(t, want[i].Reason, got[i].Reason)
		assert.Equal(t, want[i].Author, got[i].Author)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
		assert.Equal(t, want[i].ExpiryDays, got[i].ExpiryDays)
		assert.Equal(t, want[i].FilePath, got[i].FilePath)
		assert.Equal(t, want[i].FileHash, got[i].FileHash)
		assert.Equal(t, want[i].Origin, got[i].Origin)
		assert.Equal(t, want[i].Repo, got[i].Repo)
		assert.Equal(t, want[i].Focus, got[i].Focus)
		assert.Equal(t, want[i].Severity, got[i].Severity)
	}
}

func TestAppendRefusesInvalidDecision(t *testing.T) {
	store := tempStore(t)
	d := validDecision()
	d.Reason = ""

	assert.ErrorIs(t, store.Append(d), ErrMissingReason)

	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "nothing may be written on validation failure")
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	store := tempStore(t)
	good := validDecision()
	require.NoError(t, store.Append(good))

	// Simulate a truncated trailing line from a crashed writer, then a
	// valid record appended afterwards.
	f, err := os.OpenFile(store.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"finding_id":"trunc` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	second := validDecision()
	second.FindingID = "b2c3d4e5f6a1"
	require.NoError(t, store.Append(second))

	decisions, err := store.Load()
	require.NoError(t, err)
	require.Len(t, decisions, 2, "corrupt line must not hide surrounding records")
	assert.Equal(t, good.FindingID, decisions[0].FindingID)
	assert.Equal(t, second.FindingID, decisions[1].FindingID)
}

func TestLoadUnreadableFileIsFatal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	store := tempStore(t)
	require.NoError(t, store.Append(validDecision()))
	require.NoError(t, os.Chmod(store.Path(), 0o000))
	t.Cleanup(func() { os.Chmod(store.Path(), 0o644) })

	_, err := store.Load()
	assert.Error(t, err)
}

func TestRewriteKeepsOnlyMatching(t *testing.T) {
	store := tempStore(t)

	keep := validDecision()
	keep.FindingID = "keepkeepkeep"
	drop := validDecision()
	drop.FindingID = "dropdropdrop"
	drop.Origin = OriginBaseline
	require.NoError(t, store.Append(keep))
	require.NoError(t, store.Append(drop))

	removed, err := store.Rewrite(func(d Decision) bool { return d.Origin != OriginBaseline })
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	decisions, err := store.Load()
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, "keepkeepkeep", decisions[0].FindingID)
}

func TestRewriteMissingFileIsNoop(t *testing.T) {
	store := tempStore(t)
	removed, err := store.Rewrite(func(Decision) bool { return true })
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRewriteLeavesKeptRecordsByteIdentical(t *testing.T) {
	store := tempStore(t)
	manual := validDecision()
	manual.FindingID = "manualmanual"
	base := validDecision()
	base.FindingID = "basebasebase"
	base.Origin = OriginBaseline
	require.NoError(t, store.Append(manual))
	require.NoError(t, store.Append(base))

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	manualLine := ""
	for _, line := range strings.Split(string(before), "\n") {
		if strings.Contains(line, "manualmanual") {
			manualLine = line
		}
	}
	require.NotEmpty(t, manualLine)

	_, err = store.Rewrite(func(d Decision) bool { return d.Origin != OriginBaseline })
	require.NoError(t, err)

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(after), manualLine)
	assert.NotContains(t, string(after), "basebasebase")
}

func TestConcurrentAppendsDoNotInterleave(t *testing.T) {
	store := tempStore(t)

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(n int) {
			d := validDecision()
			d.FindingID = strings.Repeat("c", 10) + string(rune('a'+n/10)) + string(rune('a'+n%10))
			done <- store.Append(d)
		}(i)
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, <-done)
	}

	decisions, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, decisions, 20, "every record must survive concurrent appends intact")
}
