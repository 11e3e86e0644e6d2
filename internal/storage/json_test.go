package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsplit/internal/config"
	"gsplit/internal/domain"
)

func record(class, test string, outcome domain.Outcome) domain.TestRunRecord {
	return domain.TestRunRecord{
		Identity:       domain.TestIdentity{ModulePath: ":app", ClassName: class, TestName: test},
		BuildID:        "b-1",
		DurationMillis: 42,
		Outcome:        outcome,
	}
}

func sampleOutcome() domain.RunOutcome {
	return domain.RunOutcome{Workers: []domain.WorkerOutcome{
		{
			WorkerID:  0,
			Succeeded: false,
			LogPath:   "/logs/gradle-0.log",
			Records: []domain.TestRunRecord{
				record("com.acme.B", "b", domain.OutcomeFailed),
				record("com.acme.A", "a", domain.OutcomePassed),
				record("com.acme.A", "z", domain.OutcomeFailed),
			},
		},
		{WorkerID: 1, Succeeded: false, Cause: errors.New("build infrastructure failure: gradle exited with code 1"), LogPath: "/logs/gradle-1.log"},
		{
			WorkerID:  2,
			Succeeded: true,
			Fallback:  true,
			Records:   []domain.TestRunRecord{record("com.acme.C", "c", domain.OutcomeSkipped)},
		},
	}}
}

func TestBuildReport(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	report := BuildReport("run-1", sampleOutcome(), 90*time.Second, 2, now)

	assert.Equal(t, "run-1", report.Meta.RunID)
	assert.Equal(t, 4, report.Meta.TotalTests)
	assert.Equal(t, 1, report.Meta.PassedTests)
	assert.Equal(t, 2, report.Meta.FailedTests)
	assert.Equal(t, 1, report.Meta.SkippedTests)
	assert.Equal(t, 1, report.Meta.InfraFailures)
	assert.True(t, report.Meta.FallbackUsed)
	assert.False(t, report.Meta.Success)
	assert.Equal(t, 90.0, report.Meta.DurationSeconds)
	assert.Equal(t, "2024-05-01T12:00:00Z", report.Meta.Timestamp)

	require.Len(t, report.Workers, 3)
	assert.Equal(t, 3, report.Workers[0].Tests)
	assert.Contains(t, report.Workers[1].Cause, "exited with code 1")
	assert.True(t, report.Workers[2].Fallback)

	require.Len(t, report.Details, 3)
	assert.Equal(t, "com.acme.A", report.Details[0].ClassName)
	assert.Equal(t, "z", report.Details[0].TestName)
	assert.Equal(t, "com.acme.B", report.Details[1].ClassName)
	assert.Equal(t, "/logs/gradle-0.log", report.Details[1].LogPath)

	infra := report.Details[2]
	assert.True(t, infra.Infra)
	assert.Equal(t, "worker 1", infra.TestName)
	assert.Equal(t, 1, infra.WorkerID)
}

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	cfg := &config.Config{ProjectPath: t.TempDir()}
	st := NewJSONStorage(cfg)

	require.NoError(t, st.Save("run-7", sampleOutcome(), time.Minute, 2))

	report, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "run-7", report.Meta.RunID)
	assert.Len(t, report.Details, 3)

	report.Details[0].Resolved = true
	require.NoError(t, st.SaveOutput(report))

	again, err := st.Load()
	require.NoError(t, err)
	assert.True(t, again.Details[0].Resolved)
	assert.False(t, again.Details[1].Resolved)
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	st := NewJSONStorage(&config.Config{ProjectPath: t.TempDir()})
	_, err := st.Load()
	assert.Error(t, err)
}
