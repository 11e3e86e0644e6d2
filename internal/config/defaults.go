package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultHomeDir is where run data lives, relative to the project
	DefaultHomeDir = ".gradle/gsplit"
	// DefaultHistoryFile is the history file name inside the home directory
	DefaultHistoryFile = "history.json"
	// DefaultReportFile is the last run report file name inside the home directory
	DefaultReportFile = "last-run.json"
	// DefaultTestTask is run when no tasks are given
	DefaultTestTask = "test"
	// DefaultTimeout disables the worker timeout
	DefaultTimeout time.Duration = 0
	// DefaultRetention is the number of runs kept per test
	DefaultRetention = 5
	// WorkersPerCPULimit bounds the worker count unless foolproofness is disabled
	WorkersPerCPULimit = 16
	// ConfigFileName is read from the project directory if present
	ConfigFileName = "gsplit.toml"
	// EnvFileName is read from the project directory if present
	EnvFileName = ".env"
)

// Environment variables that override file settings
const (
	EnvWorkers    = "GSPLIT_WORKERS"
	EnvTimeout    = "GSPLIT_TIMEOUT"
	EnvHome       = "GSPLIT_HOME"
	EnvHistoryDSN = "GSPLIT_HISTORY_DSN"
	EnvGradle     = "GSPLIT_GRADLE"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	"build",
	"out",
	"node_modules",
	"buildSrc",
}
