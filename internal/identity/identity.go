// Package identity derives stable identifiers for findings.
//
// AI providers re-describe the same underlying issue with slightly different
// prose between runs. The identifier hashes the parts of a finding that stay
// stable (repo, focus area, file path) together with a normalized form of the
// title, so minor wording drift in punctuation, casing, or whitespace maps to
// the same ID while genuinely different issues in the same file stay distinct.
// This is a best-effort heuristic, not semantic matching: a reworded title
// produces a fresh ID and the finding resurfaces.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/auditware/nightwatch/internal/types"
)

// IDLength is the number of hex characters in a finding identifier.
// 48 bits is collision-resistant for any realistic finding volume.
const IDLength = 12

// ID derives the stable identifier for a finding from its stable parts.
// Pure and deterministic: no I/O, no clock, no randomness.
func ID(repo, focus, file, title string) string {
	key := repo + "|" + focus + "|" + file + "|" + NormalizeTitle(title)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:IDLength]
}

// Assign stamps every finding with its identifier. Findings are modified in
// place; the slice is returned for chaining.
func Assign(findings []types.Finding) []types.Finding {
	for i := range findings {
		f := &findings[i]
		f.ID = ID(f.Repo, f.Focus, f.File, f.Title)
	}
	return findings
}

// NormalizeTitle strips the variance AI output introduces between runs:
// case, punctuation, and whitespace runs. "Unchecked error in `ParseConfig`!"
// and "unchecked error in ParseConfig" normalize identically.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	space := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		default:
			// Punctuation separates words the same way whitespace does, so
			// "foo-bar" and "foo bar" normalize identically.
			space = true
		}
	}
	return b.String()
}
