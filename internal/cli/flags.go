package cli

import (
	"time"

	"gsplit/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ProjectPath          string
	HomePath             string
	Tasks                []string
	Workers              int
	Timeout              time.Duration
	DisableFoolproofness bool
	NameFilter           string
	PrintTests           bool
	TestCases            bool
	OpenFaills           bool
	Verbose              bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ProjectPath:          f.ProjectPath,
		HomePath:             f.HomePath,
		Tasks:                f.Tasks,
		Workers:              f.Workers,
		Timeout:              f.Timeout,
		DisableFoolproofness: f.DisableFoolproofness,
		PrintTests:           f.PrintTests,
		TestCases:            f.TestCases,
		OpenFaills:           f.OpenFaills,
		Verbose:              f.Verbose,
		NameFilter:           f.NameFilter,
	}
}
