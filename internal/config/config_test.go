package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nightwatch.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 90, cfg.Decisions.ExpiryDays)
	assert.Equal(t, StateDir+"/decisions.jsonl", cfg.Decisions.Path)
	assert.Equal(t, "off", cfg.Schedule["sunday"])
	assert.Equal(t, "medium", cfg.Issues.SeverityThreshold)
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
repos:
  - name: myapp
    path: /src/myapp
    exclude_patterns: ["vendor/**"]
model: claude-haiku-4-5
decisions:
  expiry_days: 30
schedule:
  monday: security,performance
  tuesday: "off"
issues:
  enabled: true
  severity_threshold: high
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Repos, 1)
	assert.Equal(t, "myapp", cfg.Repos[0].Name)
	assert.Equal(t, []string{"vendor/**"}, cfg.Repos[0].ExcludePatterns)
	assert.Equal(t, "claude-haiku-4-5", cfg.Model)
	assert.Equal(t, 30, cfg.Decisions.ExpiryDays)
	// Unset fields keep their defaults.
	assert.Equal(t, StateDir+"/decisions.jsonl", cfg.Decisions.Path)
	assert.Equal(t, "reports", cfg.ReportsDir)
	assert.Equal(t, "security,performance", cfg.Schedule["monday"])
	assert.True(t, cfg.Issues.Enabled)
	assert.Equal(t, "high", cfg.Issues.SeverityThreshold)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "repos: [\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "repo without name",
			mutate:  func(c *Config) { c.Repos = []RepoConfig{{Path: "/x"}} },
			wantErr: "no name",
		},
		{
			name:    "repo without path",
			mutate:  func(c *Config) { c.Repos = []RepoConfig{{Name: "a"}} },
			wantErr: "no path",
		},
		{
			name: "duplicate repo names",
			mutate: func(c *Config) {
				c.Repos = []RepoConfig{{Name: "a", Path: "/x"}, {Name: "a", Path: "/y"}}
			},
			wantErr: "duplicate repo name",
		},
		{
			name:    "unknown schedule day",
			mutate:  func(c *Config) { c.Schedule["someday"] = "security" },
			wantErr: "unknown schedule day",
		},
		{
			name:    "non-positive expiry",
			mutate:  func(c *Config) { c.Decisions.ExpiryDays = 0 },
			wantErr: "expiry_days",
		},
		{
			name:    "bad severity threshold",
			mutate:  func(c *Config) { c.Issues.SeverityThreshold = "critical" },
			wantErr: "severity_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTodayFocus(t *testing.T) {
	cfg := Default()

	monday := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, "security", cfg.TodayFocus(monday))

	sunday := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "off", cfg.TodayFocus(sunday))

	delete(cfg.Schedule, "friday")
	friday := time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "off", cfg.TodayFocus(friday), "unset day is off")
}

func TestRepoLookup(t *testing.T) {
	cfg := Default()
	cfg.Repos = []RepoConfig{{Name: "myapp", Path: "/src/myapp"}}

	r, ok := cfg.Repo("myapp")
	require.True(t, ok)
	assert.Equal(t, "/src/myapp", r.Path)

	_, ok = cfg.Repo("unknown")
	assert.False(t, ok)
}
