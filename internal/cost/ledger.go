// Package cost tracks per-audit token usage and spend in an append-only
// JSONL ledger under the project state directory.
package cost

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/auditware/nightwatch/internal/config"
)

const ledgerFile = "cost-ledger.jsonl"

// Entry is one audit's usage.
type Entry struct {
	Timestamp    time.Time `json:"timestamp"`
	RunID        string    `json:"run_id,omitempty"`
	Repo         string    `json:"repo"`
	Focus        string    `json:"focus"`
	Model        string    `json:"model"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	FileCount    int       `json:"file_count"`
	CostUSD      float64   `json:"cost_estimate_usd"`
}

// Ledger reads and appends entries under one base path.
type Ledger struct {
	path string
}

// NewLedger returns the ledger under basePath's state directory.
func NewLedger(basePath string) *Ledger {
	return &Ledger{path: filepath.Join(basePath, config.StateDir, ledgerFile)}
}

// Append records one entry, computing the cost estimate from the model's
// pricing. The ledger file is created on first use.
func (l *Ledger) Append(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	e.CostUSD = math.Round(Estimate(e.Model, e.InputTokens, e.OutputTokens)*10000) / 10000

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding ledger entry: %w", err)
	}
	line = append(line, '\n')

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening cost ledger: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("appending to cost ledger: %w", err)
	}
	return nil
}

// Entries reads the whole ledger, skipping malformed lines. A missing
// ledger is an empty history.
func (l *Ledger) Entries() ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cost ledger: %w", err)
	}
	var entries []Entry
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			slog.Warn("skipping malformed cost ledger line", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LastNDays filters entries to the trailing window ending at now.
func (l *Ledger) LastNDays(n int, now time.Time) ([]Entry, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	cutoff := now.AddDate(0, 0, -n)
	var recent []Entry
	for _, e := range entries {
		if e.Timestamp.After(cutoff) {
			recent = append(recent, e)
		}
	}
	return recent, nil
}

// Summary aggregates a set of entries for display.
type Summary struct {
	Audits           int
	InputTokens      int64
	OutputTokens     int64
	TotalUSD         float64
	AvgUSD           float64
	ProjectedMonthly float64
}

// Summarize computes totals and a monthly projection based on the span of
// days actually present in the entries, not a fixed window.
func Summarize(entries []Entry) Summary {
	s := Summary{Audits: len(entries)}
	if len(entries) == 0 {
		return s
	}
	first, last := entries[0].Timestamp, entries[0].Timestamp
	for _, e := range entries {
		s.InputTokens += e.InputTokens
		s.OutputTokens += e.OutputTokens
		s.TotalUSD += e.CostUSD
		if e.Timestamp.Before(first) {
			first = e.Timestamp
		}
		if e.Timestamp.After(last) {
			last = e.Timestamp
		}
	}
	s.AvgUSD = s.TotalUSD / float64(len(entries))
	days := int(last.Sub(first).Hours() / 24)
	if days < 1 {
		days = 1
	}
	s.ProjectedMonthly = s.TotalUSD / float64(days) * 30
	return s
}

// FormatTokens renders a token count as a short human figure (287000 → 287K).
func FormatTokens(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%dK", n/1_000)
	}
	return fmt.Sprintf("%d", n)
}
