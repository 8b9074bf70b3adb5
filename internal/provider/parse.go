package provider

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/auditware/nightwatch/internal/types"
)

// Pre-compiled patterns; model output parsing runs on every audit.
var (
	codeFenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")
	objectRegex    = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
)

// findingsEnvelope is the wire format providers are prompted to emit.
type findingsEnvelope struct {
	Findings []wireFinding `json:"findings"`
}

type wireFinding struct {
	Severity    string `json:"severity"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// ParseFindings extracts findings from model output. Models wrap JSON in
// code fences or prose despite instructions, so extraction strips fences
// first and falls back to the outermost object. A finding with an
// unrecognized severity or missing file/title is dropped with a warning
// rather than failing the whole run.
func ParseFindings(text, repo, focus string) ([]types.Finding, error) {
	raw := extractJSON(text)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in model output (%d bytes)", len(text))
	}

	var env findingsEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("parsing findings JSON: %w", err)
	}

	var findings []types.Finding
	for _, w := range env.Findings {
		sev, err := types.ParseSeverity(w.Severity)
		if err != nil || w.File == "" || w.Title == "" {
			slog.Warn("dropping malformed finding from model output",
				"severity", w.Severity, "file", w.File, "title", w.Title)
			continue
		}
		findings = append(findings, types.Finding{
			Repo:        repo,
			Focus:       focus,
			Severity:    sev,
			File:        w.File,
			Line:        w.Line,
			Title:       w.Title,
			Description: w.Description,
			Suggestion:  w.Suggestion,
		})
	}
	return findings, nil
}

func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := codeFenceRegex.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return objectRegex.FindString(text)
}
