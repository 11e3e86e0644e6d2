package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gsplit/internal/config"
)

func TestRunConfig(t *testing.T) {
	cfg := &config.Config{
		ProjectPath: "/project",
		Workers:     3,
		Timeout:     time.Minute,
		GradleArgs:  []string{"--offline"},
	}

	rc := runConfig(cfg)
	assert.Equal(t, "/project", rc.ProjectPath)
	assert.Equal(t, "/project/.gradle/gsplit", rc.HomePath)
	assert.Equal(t, []string{config.DefaultTestTask}, rc.Tasks)
	assert.Equal(t, 3, rc.Workers)
	assert.Equal(t, time.Minute, rc.Timeout)
	assert.Equal(t, []string{"--offline"}, rc.Args)
}
