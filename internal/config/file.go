package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Duration is a time.Duration written as a string such as "15m" in TOML
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration as a Go duration string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// GradleSection configures how Gradle is invoked
type GradleSection struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// HistorySection configures where history is kept
type HistorySection struct {
	DSN       string `toml:"dsn"`
	Retention int    `toml:"retention"`
}

// File is the layout of gsplit.toml
type File struct {
	Home          string         `toml:"home"`
	Tasks         []string       `toml:"tasks"`
	Workers       int            `toml:"workers"`
	Timeout       Duration       `toml:"timeout"`
	Gradle        GradleSection  `toml:"gradle"`
	History       HistorySection `toml:"history"`
	PathsToIgnore []string       `toml:"paths_to_ignore"`
}

// LoadFile reads a gsplit.toml file.
// If the file does not exist, it returns an empty File without error.
func LoadFile(path string) (File, error) {
	var f File
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return f, fmt.Errorf("stat config file: %w", err)
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return File{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return f, nil
}

func (f File) apply(cfg *Config) {
	if f.Home != "" {
		cfg.HomePath = f.Home
	}
	if len(f.Tasks) > 0 {
		cfg.Tasks = f.Tasks
	}
	if f.Workers > 0 {
		cfg.Workers = f.Workers
	}
	if f.Timeout.Duration > 0 {
		cfg.Timeout = f.Timeout.Duration
	}
	if f.Gradle.Command != "" {
		cfg.GradleCommand = f.Gradle.Command
	}
	if len(f.Gradle.Args) > 0 {
		cfg.GradleArgs = f.Gradle.Args
	}
	if f.History.DSN != "" {
		cfg.HistoryDSN = f.History.DSN
	}
	if f.History.Retention > 0 {
		cfg.HistoryRetention = f.History.Retention
	}
	if len(f.PathsToIgnore) > 0 {
		cfg.PathsToIgnore = f.PathsToIgnore
	}
}

// envSource resolves variables from the process environment first, then from
// the project's .env file.
type envSource map[string]string

func readEnv(path string) (envSource, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		// .env file might not exist, that's okay - use environment variables
		if errors.Is(err, os.ErrNotExist) {
			return envSource{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return envSource(vars), nil
}

func (e envSource) get(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return e[key]
}

func (e envSource) apply(cfg *Config) error {
	if v := e.get(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWorkers, err)
		}
		cfg.Workers = n
	}
	if v := e.get(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v := e.get(EnvHome); v != "" {
		cfg.HomePath = v
	}
	if v := e.get(EnvHistoryDSN); v != "" {
		cfg.HistoryDSN = v
	}
	if v := e.get(EnvGradle); v != "" {
		cfg.GradleCommand = v
	}
	return nil
}
