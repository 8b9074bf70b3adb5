package decision

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Store persists decisions as line-delimited JSON, one self-contained record
// per line. The file is append-only in normal operation; only Undo rewrites
// it, and only through an atomic temp-file replacement.
type Store struct {
	path string
}

// NewStore returns a store backed by the given log path. The file is created
// lazily on first append; a missing file loads as an empty log.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the log file location.
func (s *Store) Path() string { return s.path }

// Load reads every decision in log order. A line that fails to parse is
// skipped with a warning rather than aborting the load, so one corrupt line
// (for example a truncated trailing line from a crashed writer) never hides
// the valid records around it. A missing file is a first run, not an error;
// any other read failure is fatal to the caller.
func (s *Store) Load() ([]Decision, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading decision log: %w", err)
	}
	return parseLog(data), nil
}

func parseLog(data []byte) []Decision {
	var decisions []Decision
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		d, err := parseRecord(line, i+1)
		if err != nil {
			slog.Warn("skipping malformed decision record", "error", err)
			continue
		}
		decisions = append(decisions, d)
	}
	return decisions
}

// Append validates and appends exactly one record under the exclusive log
// lock. The record is serialized before the lock is taken and written with a
// single write call, so concurrent invocations never interleave partial
// lines. Nothing is written when validation fails.
func (s *Store) Append(d Decision) error {
	if err := d.Validate(); err != nil {
		return err
	}
	line, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding decision: %w", err)
	}
	line = append(line, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	lock, err := acquireLock(s.path)
	if err != nil {
		return err
	}
	defer lock.release()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening decision log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("appending decision: %w", err)
	}
	return nil
}

// Rewrite keeps every record for which keep returns true and atomically
// replaces the log. It holds the lock for the full read-filter-rename span
// so a concurrent append cannot land between the read and the replacement
// and be lost. A crash mid-rewrite leaves the previous log intact: the temp
// file is discarded, never the original. Returns the number of records
// removed.
func (s *Store) Rewrite(keep func(Decision) bool) (int, error) {
	lock, err := acquireLock(s.path)
	if err != nil {
		return 0, err
	}
	defer lock.release()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading decision log: %w", err)
	}

	var buf bytes.Buffer
	removed := 0
	for _, d := range parseLog(data) {
		if !keep(d) {
			removed++
			continue
		}
		line, err := json.Marshal(d)
		if err != nil {
			return 0, fmt.Errorf("encoding decision: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp log: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("writing temp log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("closing temp log: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("replacing decision log: %w", err)
	}
	return removed, nil
}
