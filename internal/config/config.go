package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dgwhited/github-actions-tag-2-sha/internal/osutil"
)

// DefaultConfigFileName is the default name of the configuration file.
const DefaultConfigFileName = ".tag2sha.yaml"

const (
	// DefaultTimeout is the default timeout for a run.
	DefaultTimeout = 5 * time.Minute
	// DefaultIssuesExitCode is the default exit code when a run ends with
	// warnings or per-file failures.
	DefaultIssuesExitCode = 1
	// DefaultParallelism is the default number of files processed
	// concurrently.
	DefaultParallelism = 4
)

// Config represents the tag2sha configuration file structure.
type Config struct {
	Run     *RunConfig `yaml:"run,omitempty"`
	Git     *GitConfig `yaml:"git,omitempty"`
	Exclude []string   `yaml:"exclude,omitempty"` // Action names never rewritten
}

// RunConfig specifies general runtime settings.
type RunConfig struct {
	Timeout        string `yaml:"timeout"`          // Duration string (e.g., "2m", "30s")
	IssuesExitCode int    `yaml:"issues-exit-code"` // Exit code when issues are found (default: 1)
	Parallelism    int    `yaml:"parallelism"`      // Max files processed concurrently
}

// GitConfig specifies settings for the git commit/push layer.
type GitConfig struct {
	Remote        string `yaml:"remote"`
	BranchPrefix  string `yaml:"branch-prefix"`
	CommitMessage string `yaml:"commit-message"`
}

// Validate checks all configuration values for validity.
func (c *Config) Validate() error {
	if err := c.Run.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks RunConfig for invalid values.
func (r *RunConfig) Validate() error {
	if r == nil {
		return nil
	}
	if r.Timeout != "" {
		if _, err := time.ParseDuration(r.Timeout); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", r.Timeout, err)
		}
	}
	if r.IssuesExitCode != 0 && (r.IssuesExitCode < 1 || r.IssuesExitCode > 255) {
		return fmt.Errorf("issues-exit-code must be between 1 and 255, got %d", r.IssuesExitCode)
	}
	if r.Parallelism < 0 {
		return fmt.Errorf("parallelism must be non-negative, got %d", r.Parallelism)
	}
	return nil
}

// GetTimeout returns the configured timeout duration.
// Returns DefaultTimeout if not configured or invalid.
func (c *Config) GetTimeout() time.Duration {
	if c == nil || c.Run == nil || c.Run.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(c.Run.Timeout)
	if err != nil {
		return DefaultTimeout
	}
	return d
}

// GetIssuesExitCode returns the configured exit code for when issues are
// found. Returns DefaultIssuesExitCode (1) if not configured or invalid.
// Exit codes must be in range 1-255; values outside this range return the
// default.
func (c *Config) GetIssuesExitCode() int {
	if c == nil || c.Run == nil || c.Run.IssuesExitCode <= 0 || c.Run.IssuesExitCode > 255 {
		return DefaultIssuesExitCode
	}
	return c.Run.IssuesExitCode
}

// GetParallelism returns the configured file parallelism.
func (c *Config) GetParallelism() int {
	if c == nil || c.Run == nil || c.Run.Parallelism <= 0 {
		return DefaultParallelism
	}
	return c.Run.Parallelism
}

// GetGit returns the git settings, defaulted.
func (c *Config) GetGit() *GitConfig {
	if c == nil || c.Git == nil {
		return DefaultGitConfig()
	}
	g := *c.Git
	g.EnsureDefaults()
	return &g
}

// LoadConfig loads configuration from the specified file.
// Returns defaults if file doesn't exist.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		filename = DefaultConfigFileName
	}

	if !osutil.FileExists(filename) {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.ensureDefaults()
	return &cfg, nil
}

// SaveConfig saves the configuration to the specified file.
func SaveConfig(cfg *Config, filename string) error {
	if filename == "" {
		filename = DefaultConfigFileName
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config file: %w", err)
	}

	return os.WriteFile(filename, data, 0600)
}

// NewDefaultConfig creates a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Git: DefaultGitConfig(),
	}
}

// DefaultGitConfig returns a GitConfig with default values.
func DefaultGitConfig() *GitConfig {
	return &GitConfig{
		Remote:        "origin",
		BranchPrefix:  "tag-to-sha",
		CommitMessage: "Convert GitHub Actions tags to SHA references",
	}
}

// EnsureDefaults sets default values for any uninitialized fields.
func (g *GitConfig) EnsureDefaults() {
	if g.Remote == "" {
		g.Remote = "origin"
	}
	if g.BranchPrefix == "" {
		g.BranchPrefix = "tag-to-sha"
	}
	if g.CommitMessage == "" {
		g.CommitMessage = "Convert GitHub Actions tags to SHA references"
	}
}

// ensureDefaults initializes nil fields with default values.
func (c *Config) ensureDefaults() {
	if c.Git == nil {
		c.Git = DefaultGitConfig()
	} else {
		c.Git.EnsureDefaults()
	}
}
