// Package provider is the generation pipeline boundary: given gathered
// files and a focus prompt, a Provider returns raw findings. The decision
// core never imports this package; it consumes findings after identifiers
// are assigned.
package provider

import (
	"context"

	"github.com/auditware/nightwatch/internal/types"
)

// Request is one audit generation call.
type Request struct {
	Repo  string
	Focus string

	// Prompt frames the review (from the focus areas).
	Prompt string

	// DecisionContext tells the model which findings were already reviewed
	// so it doesn't burn output tokens re-describing them.
	DecisionContext string

	Files []types.FileContent
}

// Response carries the parsed findings and token accounting for the ledger.
type Response struct {
	Findings     []types.Finding
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// Provider generates findings for an audit request.
type Provider interface {
	Name() string
	Audit(ctx context.Context, req Request) (*Response, error)
}
