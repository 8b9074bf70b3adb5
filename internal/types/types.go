// Package types defines the core data model shared across nightwatch:
// findings produced by an audit run and the result envelope handed to
// reporting and notification.
package types

import (
	"fmt"
	"time"
)

// Severity classifies how urgent a finding is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// severityRank orders severities for threshold comparisons.
var severityRank = map[Severity]int{
	SeverityLow:    0,
	SeverityMedium: 1,
	SeverityHigh:   2,
}

// ParseSeverity validates a severity string from config or AI output.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return Severity(s), nil
	}
	return "", fmt.Errorf("unknown severity %q (want low, medium, or high)", s)
}

// AtLeast reports whether s is at or above the threshold severity.
func (s Severity) AtLeast(threshold Severity) bool {
	return severityRank[s] >= severityRank[threshold]
}

// FileContent is one file gathered for an audit, path relative to the repo root.
type FileContent struct {
	Path    string
	Content string
}

// Finding is one reported issue from a single audit run, scoped to a file
// and focus area. Findings are ephemeral: they are never persisted directly,
// only referenced through their stable ID in the decision log.
type Finding struct {
	// ID is the stable identifier used for decision matching across runs.
	// Assigned by the identity package after parsing, never by the provider.
	ID string `json:"id"`

	Repo     string   `json:"repo,omitempty"`
	Focus    string   `json:"focus,omitempty"`
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	Line     int      `json:"line,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion,omitempty"`

	// FileHash is the content hash of File at audit time, computed by the
	// runner with the same algorithm used at decision time.
	FileHash string `json:"file_hash,omitempty"`
}

// Location renders "file" or "file:line" for display.
func (f Finding) Location() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return f.File
}

// SuppressedFinding records that a current finding was filtered out by an
// active decision. Only the identity and the decision are carried, not the
// full finding.
type SuppressedFinding struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// AuditResult is the outcome of auditing one repo with one focus set.
type AuditResult struct {
	RunID     string    `json:"run_id"`
	Repo      string    `json:"repo"`
	Focus     string    `json:"focus"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`

	// Findings is everything the provider reported this run.
	Findings []Finding `json:"findings"`

	// NewFindings is what survived decision filtering.
	NewFindings []Finding `json:"new_findings"`

	// Suppressed lists findings hidden by still-active decisions.
	Suppressed []SuppressedFinding `json:"suppressed,omitempty"`

	// ResolvedIDs are identifiers flagged in the previous run that no longer
	// appear in this one.
	ResolvedIDs []string `json:"resolved_ids,omitempty"`

	FileCount    int   `json:"file_count"`
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// CountBySeverity returns how many new findings have the given severity.
func (r *AuditResult) CountBySeverity(s Severity) int {
	n := 0
	for _, f := range r.NewFindings {
		if f.Severity == s {
			n++
		}
	}
	return n
}
