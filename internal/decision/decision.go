// Package decision implements nightwatch's decision memory: a persisted log
// of human judgments about findings, an index answering "is there an active
// decision for this finding?", the filter that partitions a run's findings
// into new/suppressed/resolved, and bulk baseline management.
//
// The log is a line-delimited JSON file under the project state directory.
// Every invocation reloads it from disk; nothing is cached across processes.
// Appends and rewrites are serialized with an advisory file lock so that
// concurrent CLI invocations never interleave partial records.
package decision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Action is a human judgment about a finding.
type Action string

const (
	// ActionAccept means the finding was valid and a fix was applied.
	ActionAccept Action = "accept"

	// ActionDismiss means the finding is not relevant or won't be fixed.
	ActionDismiss Action = "dismiss"

	// ActionIntentional means the code is correct as written; don't flag again.
	ActionIntentional Action = "intentional"
)

// ParseAction validates an action string from the CLI or the log.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionAccept, ActionDismiss, ActionIntentional:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action %q (want accept, dismiss, or intentional)", s)
}

// Origin records how a decision entered the log.
type Origin string

const (
	// OriginManual is a decision recorded explicitly via the decide command.
	OriginManual Origin = "manual"

	// OriginBaseline is a bulk dismiss created by the baseline command.
	// Only baseline-origin decisions are eligible for baseline --undo.
	OriginBaseline Origin = "baseline"
)

// ErrMissingReason is returned when a decision is created without a reason.
// A decision with no recorded rationale is useless to the next reader of the
// log, so writes are refused rather than defaulted.
var ErrMissingReason = errors.New("decision requires a non-empty reason")

// MalformedRecordError marks a log line that failed to parse. It is
// recoverable: the loader warns and skips the line, so a truncated trailing
// line from a crashed writer never takes down subsequent valid records.
type MalformedRecordError struct {
	Line int
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed decision record at line %d: %v", e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// Decision is one persisted judgment about a finding identifier. Decisions
// are immutable once written; a later decision for the same finding
// supersedes an earlier one but both stay in the log.
type Decision struct {
	FindingID string    `json:"finding_id"`
	Action    Action    `json:"action"`
	Reason    string    `json:"reason"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`

	// ExpiryDays bounds how long the decision suppresses the finding.
	// The expiry instant is always derived from CreatedAt, never stored.
	ExpiryDays int `json:"expiry_days"`

	// FilePath and FileHash pin the decision to the content of the file the
	// finding pointed at. When the file changes the decision is invalidated
	// and the finding resurfaces. Manual decisions recorded without access
	// to the repo may leave both empty, which skips the hash check.
	FilePath string `json:"file_path,omitempty"`
	FileHash string `json:"file_hash,omitempty"`

	Origin Origin `json:"origin"`

	// Scope metadata carried for baseline --undo filtering.
	Repo     string `json:"repo,omitempty"`
	Focus    string `json:"focus,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// ExpiresAt derives the instant the decision stops suppressing its finding.
func (d Decision) ExpiresAt() time.Time {
	return d.CreatedAt.AddDate(0, 0, d.ExpiryDays)
}

// ActiveAt reports whether the decision still applies: not expired, and the
// target file's content unchanged since the decision was made. An empty
// currentHash means the file could not be hashed (deleted or unreadable); a
// deleted file cannot be verified as unchanged, so the decision is treated
// as invalidated rather than erroring.
func (d Decision) ActiveAt(now time.Time, currentHash string) bool {
	if !now.Before(d.ExpiresAt()) {
		return false
	}
	if d.FileHash != "" && currentHash != d.FileHash {
		return false
	}
	return true
}

// Validate rejects decisions that must never reach the log.
func (d Decision) Validate() error {
	if d.FindingID == "" {
		return errors.New("decision requires a finding_id")
	}
	if _, err := ParseAction(string(d.Action)); err != nil {
		return err
	}
	if d.Reason == "" {
		return ErrMissingReason
	}
	switch d.Origin {
	case OriginManual, OriginBaseline:
	default:
		return fmt.Errorf("unknown origin %q (want manual or baseline)", d.Origin)
	}
	if d.ExpiryDays <= 0 {
		return fmt.Errorf("expiry_days must be positive (got %d)", d.ExpiryDays)
	}
	if d.CreatedAt.IsZero() {
		return errors.New("decision requires a created_at timestamp")
	}
	return nil
}

// UnmarshalJSON accepts created_at as either an RFC 3339 string or epoch
// seconds. The writer always emits RFC 3339; epoch support keeps logs
// written by other tooling loadable.
func (d *Decision) UnmarshalJSON(data []byte) error {
	type alias Decision
	aux := struct {
		*alias
		CreatedAt json.RawMessage `json:"created_at"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.CreatedAt) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(aux.CreatedAt, &s); err == nil {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid created_at %q: %w", s, err)
		}
		d.CreatedAt = t
		return nil
	}
	epoch, err := strconv.ParseInt(string(aux.CreatedAt), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid created_at %s: %w", aux.CreatedAt, err)
	}
	d.CreatedAt = time.Unix(epoch, 0).UTC()
	return nil
}

// parseRecord decodes and validates one log line. Validation failures are
// malformed records, not crashes: an unrecognized action or origin written
// by a newer version degrades to a skipped line.
func parseRecord(line []byte, lineNo int) (Decision, error) {
	var d Decision
	if err := json.Unmarshal(line, &d); err != nil {
		return Decision{}, &MalformedRecordError{Line: lineNo, Err: err}
	}
	if err := d.Validate(); err != nil {
		return Decision{}, &MalformedRecordError{Line: lineNo, Err: err}
	}
	return d, nil
}
