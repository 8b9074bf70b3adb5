package provider

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// DefaultModel handles full audits.
	DefaultModel = "claude-sonnet-4-5-20250929"

	// maxOutputTokens bounds a single audit response.
	maxOutputTokens = 8192
)

// Anthropic generates findings with the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// AnthropicConfig configures the provider. An empty APIKey falls back to
// ANTHROPIC_API_KEY; an empty Model falls back to DefaultModel.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// NewAnthropic builds the provider or fails fast when no key is available.
func NewAnthropic(cfg AnthropicConfig) (*Anthropic, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (a *Anthropic) Name() string { return "anthropic" }

// Audit sends the gathered files with the focus prompt and parses findings
// out of the response.
func (a *Anthropic) Audit(ctx context.Context, req Request) (*Response, error) {
	prompt := buildPrompt(req)

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxOutputTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	findings, err := ParseFindings(text.String(), req.Repo, req.Focus)
	if err != nil {
		return nil, fmt.Errorf("parsing audit response: %w", err)
	}

	return &Response{
		Findings:     findings,
		Model:        a.model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(req.Prompt)
	b.WriteString("\n\n")
	if req.DecisionContext != "" {
		b.WriteString(req.DecisionContext)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Repository: %s\n\n", req.Repo)
	for _, f := range req.Files {
		fmt.Fprintf(&b, "=== %s ===\n%s\n\n", f.Path, f.Content)
	}
	return b.String()
}

var _ Provider = (*Anthropic)(nil)
