package focus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// goModuleSummary parses the repo's go.mod and renders the direct
// requirements as extra context for the dependencies focus area. The raw
// file is gathered too; the parsed view saves the provider from working out
// which requirements are direct. Returns empty when there is no go.mod or
// it does not parse.
func goModuleSummary(repoPath string) string {
	path := filepath.Join(repoPath, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	mf, err := modfile.Parse(path, data, nil)
	if err != nil {
		return ""
	}

	var b strings.Builder
	if mf.Module != nil {
		fmt.Fprintf(&b, "module %s\n", mf.Module.Mod.Path)
	}
	if mf.Go != nil {
		fmt.Fprintf(&b, "go %s\n", mf.Go.Version)
	}
	b.WriteString("direct requirements:\n")
	direct := 0
	for _, r := range mf.Require {
		if r.Indirect {
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", r.Mod.Path, r.Mod.Version)
		direct++
	}
	if direct == 0 {
		b.WriteString("  (none)\n")
	}
	for _, r := range mf.Replace {
		fmt.Fprintf(&b, "replace %s => %s %s\n", r.Old.Path, r.New.Path, r.New.Version)
	}
	return b.String()
}
