package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gsplit/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	HomePath    string // Empty means <project>/.gradle/gsplit
	Tasks       []string

	// Execution settings
	Workers              int
	Timeout              time.Duration // Zero disables the per-worker timeout
	DisableFoolproofness bool
	GradleCommand        string // Empty means ./gradlew if present, else gradle
	GradleArgs           []string

	// History settings
	HistoryDSN       string // MySQL DSN; empty keeps history in a JSON file
	HistoryRetention int

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	ProjectPath          string
	HomePath             string
	Tasks                []string
	Workers              int
	Timeout              time.Duration
	DisableFoolproofness bool
	PrintTests           bool // One line per finished test instead of a progress bar
	TestCases            bool
	OpenFaills           bool
	Verbose              bool
	NameFilter           string
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:      DefaultProjectPath,
		Workers:          runtime.NumCPU(),
		Timeout:          DefaultTimeout,
		HistoryRetention: DefaultRetention,
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config for the project named in flags. Settings are taken
// from defaults, then gsplit.toml, then .env and the environment, then flags.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if flags.ProjectPath != "" {
		cfg.ProjectPath = flags.ProjectPath
	}

	file, err := LoadFile(filepath.Join(cfg.ProjectPath, ConfigFileName))
	if err != nil {
		return nil, err
	}
	file.apply(cfg)

	env, err := readEnv(filepath.Join(cfg.ProjectPath, EnvFileName))
	if err != nil {
		return nil, err
	}
	if err := env.apply(cfg); err != nil {
		return nil, err
	}

	cfg.ApplyFlags(flags)
	return cfg, nil
}

// ApplyFlags copies flags into cfg, overriding only the values that were set
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.ProjectPath != "" {
		c.ProjectPath = flags.ProjectPath
	}
	if flags.HomePath != "" {
		c.HomePath = flags.HomePath
	}
	if len(flags.Tasks) > 0 {
		c.Tasks = flags.Tasks
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	if flags.DisableFoolproofness {
		c.DisableFoolproofness = true
	}
}

// MaxWorkers is the largest worker count accepted without disabling foolproofness
func MaxWorkers() int {
	return runtime.NumCPU() * WorkersPerCPULimit
}

// Validate checks the settings a run depends on
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", domain.ErrInvalidArgument, c.Workers)
	}
	if !c.DisableFoolproofness && c.Workers > MaxWorkers() {
		return fmt.Errorf("%w: requested workers (%d) exceeds maximum allowed (%d), use --disable-foolproofness to override",
			domain.ErrInvalidArgument, c.Workers, MaxWorkers())
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", domain.ErrInvalidArgument)
	}

	project := c.GetProjectPath()
	info, err := os.Stat(project)
	if err != nil {
		return fmt.Errorf("couldn't find project path %s", project)
	}
	if !info.IsDir() {
		return fmt.Errorf("project path is not a directory: %s", project)
	}

	if info, err := os.Stat(c.GetHomePath()); err == nil && !info.IsDir() {
		return fmt.Errorf("home path %s is a file, please remove it or specify a different home path using --home", c.GetHomePath())
	}
	return nil
}

// GetProjectPath returns the absolute, cleaned project path
func (c *Config) GetProjectPath() string {
	if abs, err := filepath.Abs(c.ProjectPath); err == nil {
		return abs
	}
	return filepath.Clean(c.ProjectPath)
}

// GetHomePath returns the directory holding history, logs and reports.
// A relative home path is resolved against the project.
func (c *Config) GetHomePath() string {
	home := c.HomePath
	if home == "" {
		home = DefaultHomeDir
	}
	if !filepath.IsAbs(home) {
		home = filepath.Join(c.GetProjectPath(), home)
	}
	return filepath.Clean(home)
}

// GetHistoryPath returns the JSON history file path
func (c *Config) GetHistoryPath() string {
	return filepath.Join(c.GetHomePath(), DefaultHistoryFile)
}

// GetReportPath returns the path of the last run report
func (c *Config) GetReportPath() string {
	return filepath.Join(c.GetHomePath(), DefaultReportFile)
}

// GetTasks returns the Gradle tasks to run, defaulting to a single test task
func (c *Config) GetTasks() []string {
	if len(c.Tasks) == 0 {
		return []string{DefaultTestTask}
	}
	return c.Tasks
}

// GetRetention returns the number of runs kept per test
func (c *Config) GetRetention() int {
	if c.HistoryRetention < 1 {
		return DefaultRetention
	}
	return c.HistoryRetention
}
