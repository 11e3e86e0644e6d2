package cli

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFlags_ToConfigFlags(t *testing.T) {
	flags := Flags{
		ProjectPath: "/project",
		Tasks:       []string{":app:test"},
		Workers:     3,
		Timeout:     time.Minute,
		TestCases:   true,
		NameFilter:  "*UserTest",
	}

	cf := flags.ToConfigFlags()
	if cf.ProjectPath != "/project" || cf.Workers != 3 || cf.Timeout != time.Minute {
		t.Errorf("unexpected config flags: %+v", cf)
	}
	if !cf.TestCases || cf.PrintTests {
		t.Errorf("unexpected output flags: %+v", cf)
	}
	if cf.NameFilter != "*UserTest" || len(cf.Tasks) != 1 {
		t.Errorf("unexpected config flags: %+v", cf)
	}
}

func TestSetVerbose(t *testing.T) {
	NewLogger()
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	SetVerbose(false)
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("expected info level, got %s", zerolog.GlobalLevel())
	}
	SetVerbose(true)
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %s", zerolog.GlobalLevel())
	}
}
