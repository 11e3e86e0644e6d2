package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gsplit/internal/domain"
)

// Save builds the report of a finished run and writes it to the report file.
func (s *JSONStorage) Save(runID string, outcome domain.RunOutcome, duration time.Duration, workers int) error {
	report := BuildReport(runID, outcome, duration, workers, time.Now())
	return s.SaveOutput(&report)
}

// Load reads the last run report.
func (s *JSONStorage) Load() (*domain.RunReport, error) {
	path := s.cfg.GetReportPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &report, nil
}

// SaveOutput writes the full report to the configured JSON file.
func (s *JSONStorage) SaveOutput(report *domain.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	path := s.cfg.GetReportPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
