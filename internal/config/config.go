// Package config loads and validates nightwatch.yml.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// StateDir is the project-local hidden directory holding the decision log,
// the latest-findings snapshot, and the cost ledger.
const StateDir = ".nightwatch"

// WeekdayNames in schedule order, keyed the way the YAML schedule spells them.
var WeekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Config is the root of nightwatch.yml.
type Config struct {
	// Repos are the codebases audited by run.
	Repos []RepoConfig `yaml:"repos"`

	// Schedule maps weekday names to a focus spec: a focus area name,
	// a comma-separated list, "all", or "off".
	Schedule map[string]string `yaml:"schedule"`

	// Model overrides the provider's default model when set.
	Model string `yaml:"model"`

	ReportsDir    string             `yaml:"reports_dir"`
	Decisions     DecisionsConfig    `yaml:"decisions"`
	Notifications NotificationConfig `yaml:"notifications"`
	Issues        IssuesConfig       `yaml:"issues"`
}

// RepoConfig describes one audited repository.
type RepoConfig struct {
	Name            string   `yaml:"name"`
	Path            string   `yaml:"path"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// DecisionsConfig controls the decision log location and lifetime.
type DecisionsConfig struct {
	// Path to the JSONL decision log.
	Path string `yaml:"path"`

	// ExpiryDays is how long a decision suppresses its finding.
	ExpiryDays int `yaml:"expiry_days"`
}

// NotificationConfig configures the Telegram summary sent after a run.
// The bot token is read from NIGHTWATCH_TELEGRAM_TOKEN, never from the file.
type NotificationConfig struct {
	Enabled bool   `yaml:"enabled"`
	ChatID  string `yaml:"chat_id"`
}

// IssuesConfig controls automatic GitHub issue creation for new findings.
type IssuesConfig struct {
	Enabled bool `yaml:"enabled"`

	// SeverityThreshold is the minimum severity that gets an issue:
	// "low", "medium", or "high".
	SeverityThreshold string   `yaml:"severity_threshold"`
	Labels            []string `yaml:"labels"`
	Assignees         []string `yaml:"assignees"`
}

// Default returns the configuration used when no nightwatch.yml exists:
// a weekday rotation through the focus areas with Sunday off.
func Default() *Config {
	return &Config{
		Schedule: map[string]string{
			"monday":    "security",
			"tuesday":   "patterns",
			"wednesday": "docs",
			"thursday":  "hygiene",
			"friday":    "performance",
			"saturday":  "dependencies",
			"sunday":    "off",
		},
		ReportsDir: "reports",
		Decisions: DecisionsConfig{
			Path:       StateDir + "/decisions.jsonl",
			ExpiryDays: 90,
		},
		Issues: IssuesConfig{
			SeverityThreshold: "medium",
			Labels:            []string{"nightwatch"},
		},
	}
}

// Load reads the config file at path, or nightwatch.yml in the working
// directory when path is empty. A missing default file yields Default();
// a missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = "nightwatch.yml"
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations that would fail later in confusing ways.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for _, r := range c.Repos {
		if r.Name == "" {
			return fmt.Errorf("repo with path %q has no name", r.Path)
		}
		if r.Path == "" {
			return fmt.Errorf("repo %s has no path", r.Name)
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate repo name %s", r.Name)
		}
		seen[r.Name] = true
	}
	for day := range c.Schedule {
		if !validWeekday(day) {
			return fmt.Errorf("unknown schedule day %q", day)
		}
	}
	if c.Decisions.ExpiryDays <= 0 {
		return fmt.Errorf("decisions.expiry_days must be positive (got %d)", c.Decisions.ExpiryDays)
	}
	switch c.Issues.SeverityThreshold {
	case "", "low", "medium", "high":
	default:
		return fmt.Errorf("issues.severity_threshold must be low, medium, or high (got %q)",
			c.Issues.SeverityThreshold)
	}
	return nil
}

// TodayFocus returns the schedule entry for now's weekday, "off" when the
// day is unset.
func (c *Config) TodayFocus(now time.Time) string {
	day := WeekdayNames[(int(now.Weekday())+6)%7]
	spec, ok := c.Schedule[day]
	if !ok || spec == "" {
		return "off"
	}
	return spec
}

// Repo looks up a configured repo by name.
func (c *Config) Repo(name string) (RepoConfig, bool) {
	for _, r := range c.Repos {
		if r.Name == name {
			return r, true
		}
	}
	return RepoConfig{}, false
}

func validWeekday(day string) bool {
	for _, d := range WeekdayNames {
		if d == day {
			return true
		}
	}
	return false
}
