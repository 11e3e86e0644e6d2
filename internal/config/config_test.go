package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gsplit/internal/domain"
)

func TestConfig_GetHomePath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name:     "default home",
			config:   &Config{ProjectPath: "/project"},
			expected: "/project/.gradle/gsplit",
		},
		{
			name:     "relative home",
			config:   &Config{ProjectPath: "/project", HomePath: "ci/gsplit"},
			expected: "/project/ci/gsplit",
		},
		{
			name:     "absolute home",
			config:   &Config{ProjectPath: "/project", HomePath: "/var/gsplit"},
			expected: "/var/gsplit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetHomePath()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestConfig_DerivedPaths(t *testing.T) {
	cfg := &Config{ProjectPath: "/project"}
	if got := cfg.GetHistoryPath(); got != "/project/.gradle/gsplit/history.json" {
		t.Errorf("unexpected history path %s", got)
	}
	if got := cfg.GetReportPath(); got != "/project/.gradle/gsplit/last-run.json" {
		t.Errorf("unexpected report path %s", got)
	}
}

func TestConfig_GetTasks(t *testing.T) {
	cfg := New()
	tasks := cfg.GetTasks()
	if len(tasks) != 1 || tasks[0] != DefaultTestTask {
		t.Errorf("expected default task, got %v", tasks)
	}

	cfg.Tasks = []string{":app:test", ":lib:integrationTest"}
	if got := cfg.GetTasks(); len(got) != 2 {
		t.Errorf("expected configured tasks, got %v", got)
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.Workers)
	}

	if cfg.GetRetention() != DefaultRetention {
		t.Errorf("expected retention %d, got %d", DefaultRetention, cfg.GetRetention())
	}

	if len(cfg.PathsToIgnore) != len(DefaultPathsToIgnore) {
		t.Errorf("expected %d paths to ignore, got %d", len(DefaultPathsToIgnore), len(cfg.PathsToIgnore))
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	toml := `
workers = 3
timeout = "10m"
tasks = ["check"]

[gradle]
command = "/opt/gradle/bin/gradle"
args = ["--offline"]

[history]
retention = 7
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	dotenv := "GSPLIT_WORKERS=5\nGSPLIT_HISTORY_DSN=ci:pw@tcp(db:3306)/gsplit\n"
	if err := os.WriteFile(filepath.Join(dir, EnvFileName), []byte(dotenv), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvWorkers, "")
	t.Setenv(EnvTimeout, "")
	t.Setenv(EnvHome, "")
	t.Setenv(EnvHistoryDSN, "")
	t.Setenv(EnvGradle, "")

	t.Run("file and dotenv", func(t *testing.T) {
		cfg, err := Load(Flags{ProjectPath: dir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Workers != 5 {
			t.Errorf("expected .env to override file workers, got %d", cfg.Workers)
		}
		if cfg.Timeout != 10*time.Minute {
			t.Errorf("expected timeout from file, got %s", cfg.Timeout)
		}
		if cfg.GradleCommand != "/opt/gradle/bin/gradle" || len(cfg.GradleArgs) != 1 {
			t.Errorf("unexpected gradle settings %q %v", cfg.GradleCommand, cfg.GradleArgs)
		}
		if cfg.HistoryDSN == "" {
			t.Error("expected history dsn from .env")
		}
		if cfg.GetRetention() != 7 {
			t.Errorf("expected retention 7, got %d", cfg.GetRetention())
		}
		if cfg.GetTasks()[0] != "check" {
			t.Errorf("expected tasks from file, got %v", cfg.GetTasks())
		}
	})

	t.Run("environment beats dotenv", func(t *testing.T) {
		t.Setenv(EnvWorkers, "6")
		cfg, err := Load(Flags{ProjectPath: dir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Workers != 6 {
			t.Errorf("expected 6 workers, got %d", cfg.Workers)
		}
	})

	t.Run("flags beat everything", func(t *testing.T) {
		t.Setenv(EnvWorkers, "6")
		cfg, err := Load(Flags{ProjectPath: dir, Workers: 2, Timeout: time.Second, Tasks: []string{"test"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Workers != 2 || cfg.Timeout != time.Second || cfg.GetTasks()[0] != "test" {
			t.Errorf("flags not applied: %+v", cfg)
		}
	})
}

func TestLoad_InvalidInputs(t *testing.T) {
	t.Run("broken toml", func(t *testing.T) {
		dir := t.TempDir()
		os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("workers = ["), 0644)
		if _, err := Load(Flags{ProjectPath: dir}); err == nil {
			t.Error("expected error for broken config file")
		}
	})

	t.Run("bad timeout in environment", func(t *testing.T) {
		t.Setenv(EnvTimeout, "soon")
		if _, err := Load(Flags{ProjectPath: t.TempDir()}); err == nil {
			t.Error("expected error for invalid timeout")
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		cfg := &Config{ProjectPath: dir, Workers: 2}
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("zero workers", func(t *testing.T) {
		cfg := &Config{ProjectPath: dir, Workers: 0}
		if err := cfg.Validate(); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
	})

	t.Run("too many workers", func(t *testing.T) {
		cfg := &Config{ProjectPath: dir, Workers: MaxWorkers() + 1}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error above the worker limit")
		}
		cfg.DisableFoolproofness = true
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error with foolproofness disabled: %v", err)
		}
	})

	t.Run("missing project", func(t *testing.T) {
		cfg := &Config{ProjectPath: filepath.Join(dir, "nope"), Workers: 1}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing project")
		}
	})

	t.Run("home is a file", func(t *testing.T) {
		home := filepath.Join(dir, "home-file")
		os.WriteFile(home, []byte("x"), 0644)
		cfg := &Config{ProjectPath: dir, HomePath: home, Workers: 1}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error when home is a file")
		}
	})
}
