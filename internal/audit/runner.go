// Package audit orchestrates a run: gather files per focus area, call the
// provider, assign finding identifiers, filter against decision memory, and
// hand the result to reporting, state, the cost ledger, and notification.
package audit

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/auditware/nightwatch/internal/config"
	"github.com/auditware/nightwatch/internal/contenthash"
	"github.com/auditware/nightwatch/internal/cost"
	"github.com/auditware/nightwatch/internal/decision"
	"github.com/auditware/nightwatch/internal/focus"
	"github.com/auditware/nightwatch/internal/identity"
	"github.com/auditware/nightwatch/internal/provider"
	"github.com/auditware/nightwatch/internal/report"
	"github.com/auditware/nightwatch/internal/state"
	"github.com/auditware/nightwatch/internal/types"
)

// Options tunes one invocation of Run.
type Options struct {
	// Repo restricts the run to one configured repo; empty audits all.
	Repo string

	// Focus overrides the schedule: a name, comma list, or "all".
	Focus string

	// DryRun reports what would be audited without calling the provider
	// or writing anything.
	DryRun bool
}

// Runner executes audits over the configured repos.
type Runner struct {
	cfg      *config.Config
	provider provider.Provider
	out      io.Writer
	now      func() time.Time
}

// NewRunner wires a runner. out receives progress lines; pass os.Stdout
// from the CLI.
func NewRunner(cfg *config.Config, p provider.Provider, out io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}
	return &Runner{cfg: cfg, provider: p, out: out, now: time.Now}
}

// Run audits each selected repo with the resolved focus areas. Repos are
// audited concurrently (generation is network-bound); the decision store
// work inside each audit stays sequential, and the log itself is only read
// here. An interrupted run writes no decisions: only decide and baseline
// append to the log.
func (r *Runner) Run(ctx context.Context, opts Options) ([]*types.AuditResult, error) {
	spec := opts.Focus
	if spec == "" {
		spec = r.cfg.TodayFocus(r.now())
	}
	names, err := focus.Resolve(spec)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		fmt.Fprintln(r.out, "Today is scheduled as off. Use --focus to override.")
		return nil, nil
	}

	repos := r.cfg.Repos
	if opts.Repo != "" {
		rc, ok := r.cfg.Repo(opts.Repo)
		if !ok {
			return nil, fmt.Errorf("unknown repo %q", opts.Repo)
		}
		repos = []config.RepoConfig{rc}
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("no repos configured; add repos to nightwatch.yml")
	}

	var mu sync.Mutex
	var results []*types.AuditResult

	g, gctx := errgroup.WithContext(ctx)
	for _, rc := range repos {
		g.Go(func() error {
			result, err := r.auditRepo(gctx, rc, names, opts.DryRun)
			if err != nil {
				return fmt.Errorf("auditing %s: %w", rc.Name, err)
			}
			if result != nil {
				mu.Lock()
				results = append(results, result)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) auditRepo(ctx context.Context, rc config.RepoConfig, names []string, dryRun bool) (*types.AuditResult, error) {
	focusLabel := focus.Label(names)

	files, err := focus.Gather(names, rc.Path, rc.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		fmt.Fprintf(r.out, "[%s] no files match focus %s, skipping\n", rc.Name, focusLabel)
		return nil, nil
	}
	if dryRun {
		fmt.Fprintf(r.out, "[%s] would audit %d files with focus %s\n", rc.Name, len(files), focusLabel)
		return nil, nil
	}

	store := decision.NewStore(r.cfg.Decisions.Path)
	decisions, err := store.Load()
	if err != nil {
		return nil, err
	}
	ix := decision.BuildIndex(decisions)

	resp, err := r.provider.Audit(ctx, provider.Request{
		Repo:            rc.Name,
		Focus:           focusLabel,
		Prompt:          focus.Prompt(names),
		DecisionContext: decision.FormatContext(ix.Decisions()),
		Files:           files,
	})
	if err != nil {
		return nil, err
	}

	now := r.now()
	findings := identity.Assign(resp.Findings)
	for i := range findings {
		// Hash failures leave FileHash empty, which invalidates any
		// decision pinned to the file: a file we cannot read cannot be
		// verified as unchanged.
		hash, _ := contenthash.HashFile(filepath.Join(rc.Path, findings[i].File))
		findings[i].FileHash = hash
	}

	prev := state.Load(rc.Path)
	var previousIDs []string
	if prev.Repo == rc.Name && prev.Focus == focusLabel {
		previousIDs = prev.FindingIDs()
	}

	part := decision.PartitionFindings(findings, ix, previousIDs, now)

	result := &types.AuditResult{
		RunID:        uuid.New().String(),
		Repo:         rc.Name,
		Focus:        focusLabel,
		Model:        resp.Model,
		Timestamp:    now,
		Findings:     findings,
		NewFindings:  part.New,
		Suppressed:   part.Suppressed,
		ResolvedIDs:  part.Resolved,
		FileCount:    len(files),
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}

	content := report.Generate(result)
	path, err := report.Save(content, r.cfg.ReportsDir, rc.Name, focusLabel, now)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(r.out, "[%s] report written to %s\n", rc.Name, path)

	if err := state.Save(rc.Path, result); err != nil {
		return nil, err
	}

	if err := cost.NewLedger(".").Append(cost.Entry{
		Timestamp:    now,
		RunID:        result.RunID,
		Repo:         rc.Name,
		Focus:        focusLabel,
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		FileCount:    len(files),
	}); err != nil {
		// Ledger trouble shouldn't kill a completed audit.
		fmt.Fprintf(r.out, "[%s] warning: %v\n", rc.Name, err)
	}

	return result, nil
}
