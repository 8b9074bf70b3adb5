// Package focus defines the audit focus areas: what files each one gathers
// and the prompt that frames the provider's review.
package focus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/auditware/nightwatch/internal/types"
)

// maxFileSize skips large generated or vendored files (bytes).
const maxFileSize = 50_000

// alwaysExclude are path segments skipped in every focus area.
var alwaysExclude = []string{
	"node_modules", ".git", "__pycache__", ".venv", "venv", "dist", "build", "vendor",
}

// Area is one audit focus: a named lens over a subset of the codebase.
type Area struct {
	Name        string
	Description string

	// Patterns match file base names (filepath.Match syntax).
	Patterns []string

	// Prompt frames the provider's review for this area.
	Prompt string
}

const outputContract = `Report findings as JSON: {"findings": [{"severity": "low|medium|high", "file": "relative/path", "line": 123, "title": "...", "description": "...", "suggestion": "..."}]}. Line and suggestion are optional. Report only genuine issues; an empty findings list is a good outcome.`

var sourcePatterns = []string{
	"*.go", "*.py", "*.ts", "*.tsx", "*.js", "*.jsx", "*.rs", "*.rb", "*.java",
}

// areas in display order.
var areas = []Area{
	{
		Name:        "security",
		Description: "Security vulnerabilities, secrets, permissions, dependency issues",
		Patterns: append([]string{
			"*.yml", "*.yaml", "*.toml", "*.json", ".env*", "Dockerfile*",
			"docker-compose*", "*.sh", "*.bash", ".gitignore",
		}, sourcePatterns...),
		Prompt: "You are a security auditor. Look for exposed secrets, injection risks, unsafe deserialization, missing authentication or authorization checks, overly permissive file modes, and risky dependency usage. " + outputContract,
	},
	{
		Name:        "docs",
		Description: "Stale, missing, or misleading documentation",
		Patterns:    append([]string{"*.md", "*.rst", "*.txt"}, sourcePatterns...),
		Prompt:      "You are a documentation auditor. Look for READMEs that no longer match the code, missing setup steps, dead links, undocumented public APIs, and comments that contradict behavior. " + outputContract,
	},
	{
		Name:        "patterns",
		Description: "Architecture and design pattern consistency",
		Patterns:    sourcePatterns,
		Prompt:      "You are an architecture reviewer. Look for inconsistent error handling, duplicated abstractions, layering violations, and divergence from the conventions the rest of the codebase follows. " + outputContract,
	},
	{
		Name:        "testing",
		Description: "Test coverage gaps and test quality",
		Patterns:    sourcePatterns,
		Prompt:      "You are a test quality reviewer. Look for untested critical paths, tests that assert nothing, flaky patterns like sleeps and real network calls, and dead test helpers. " + outputContract,
	},
	{
		Name:        "hygiene",
		Description: "Dead code, TODOs, leftover debris",
		Patterns:    append([]string{"*.sh", "*.yml", "*.yaml"}, sourcePatterns...),
		Prompt:      "You are a code hygiene reviewer. Look for dead code, commented-out blocks, stale TODOs, debug leftovers, and files that no longer serve a purpose. " + outputContract,
	},
	{
		Name:        "dependencies",
		Description: "Dependency health: outdated, unused, risky",
		Patterns: []string{
			"go.mod", "go.sum", "package.json", "requirements*.txt",
			"pyproject.toml", "Cargo.toml", "Gemfile", "pom.xml",
		},
		Prompt: "You are a dependency auditor. Look for abandoned or deprecated dependencies, version pins that block security fixes, and dependencies that nothing imports. " + outputContract,
	},
	{
		Name:        "performance",
		Description: "Algorithmic and I/O performance problems",
		Patterns:    sourcePatterns,
		Prompt:      "You are a performance reviewer. Look for accidental quadratic loops, unbounded memory growth, per-item I/O that should batch, and missing caching on hot paths. " + outputContract,
	},
}

// Names returns every focus area name in display order.
func Names() []string {
	names := make([]string, len(areas))
	for i, a := range areas {
		names[i] = a.Name
	}
	return names
}

// Get looks up a focus area by name.
func Get(name string) (Area, bool) {
	for _, a := range areas {
		if a.Name == name {
			return a, true
		}
	}
	return Area{}, false
}

// Resolve expands a focus spec into area names: "off" yields nothing, "all"
// yields every area, otherwise a name or comma-separated list of names.
func Resolve(spec string) ([]string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "off" {
		return nil, nil
	}
	if spec == "all" {
		return Names(), nil
	}
	var names []string
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := Get(part); !ok {
			return nil, fmt.Errorf("unknown focus area %q (known: %s)",
				part, strings.Join(Names(), ", "))
		}
		names = append(names, part)
	}
	return names, nil
}

// Gather walks repoPath collecting files that match any of the areas'
// patterns, deduplicated and sorted by path. Files larger than maxFileSize,
// unreadable files, and excluded path segments are skipped silently: a
// partial gather is still auditable. The dependencies area additionally
// contributes a parsed module summary when the repo has a go.mod.
func Gather(names []string, repoPath string, exclude []string) ([]types.FileContent, error) {
	skip := append(append([]string{}, alwaysExclude...), exclude...)

	var patterns []string
	wantDeps := false
	for _, name := range names {
		area, ok := Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown focus area %q", name)
		}
		patterns = append(patterns, area.Patterns...)
		if name == "dependencies" {
			wantDeps = true
		}
	}

	seen := make(map[string]bool)
	var files []types.FileContent
	err := filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep walking
		}
		rel, relErr := filepath.Rel(repoPath, path)
		if relErr != nil {
			return nil
		}
		if d.IsDir() {
			if rel != "." && excluded(rel, skip) {
				return filepath.SkipDir
			}
			return nil
		}
		if seen[rel] || excluded(rel, skip) || !matchesAny(d.Name(), patterns) {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil || info.Size() > maxFileSize {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		seen[rel] = true
		files = append(files, types.FileContent{Path: rel, Content: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", repoPath, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	if wantDeps {
		if summary := goModuleSummary(repoPath); summary != "" {
			files = append(files, types.FileContent{
				Path:    "go.mod (parsed summary)",
				Content: summary,
			})
		}
	}
	return files, nil
}

// Prompt combines the prompts of the selected areas into one instruction.
func Prompt(names []string) string {
	var parts []string
	for _, name := range names {
		if area, ok := Get(name); ok {
			parts = append(parts, area.Prompt)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Label renders a combined focus name for reports: "security+performance".
func Label(names []string) string {
	return strings.Join(names, "+")
}

func excluded(rel string, skip []string) bool {
	for _, seg := range strings.Split(rel, string(filepath.Separator)) {
		for _, ex := range skip {
			if seg == ex {
				return true
			}
		}
	}
	return false
}

func matchesAny(base string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}
