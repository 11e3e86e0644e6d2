package storage

import (
	"time"

	"gsplit/internal/config"
	"gsplit/internal/domain"
)

// Storage persists and loads the last run report (e.g. for the faills viewer).
type Storage interface {
	Save(runID string, outcome domain.RunOutcome, duration time.Duration, workers int) error
	Load() (*domain.RunReport, error)
	// SaveOutput writes the full report (e.g. after marking failures resolved).
	SaveOutput(report *domain.RunReport) error
}

// JSONStorage stores the report in a JSON file under the configured home path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's report path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
