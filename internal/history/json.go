package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gsplit/internal/domain"
)

// FormatVersion is written into every history file.
const FormatVersion = 1

type fileDTO struct {
	Version int        `json:"version"`
	Tests   []entryDTO `json:"tests"`
}

type entryDTO struct {
	Key  domain.TestIdentity `json:"key"`
	Runs []runDTO            `json:"runs"`
}

type runDTO struct {
	BuildID    string         `json:"buildId"`
	DurationMs int64          `json:"durationMs"`
	Status     domain.Outcome `json:"status"`
	FinishedAt int64          `json:"finishedAt"`
}

// JSONStore keeps history in a single JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore returns a Store backed by the JSON file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the history file location
func (s *JSONStore) Path() string {
	return s.path
}

// LoadAll reads the history file. A missing file is an empty history.
// Unknown fields are ignored.
func (s *JSONStore) LoadAll(ctx context.Context) (domain.History, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrHistoryLoad, s.path, err)
	}

	var dto fileDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrHistoryLoad, s.path, err)
	}
	if dto.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %s has format version %d, newest supported is %d",
			domain.ErrHistoryLoad, s.path, dto.Version, FormatVersion)
	}

	h := make(domain.History, len(dto.Tests))
	for _, e := range dto.Tests {
		runs := make([]domain.TestRunRecord, 0, len(e.Runs))
		for _, r := range e.Runs {
			runs = append(runs, domain.TestRunRecord{
				Identity:         e.Key,
				BuildID:          r.BuildID,
				DurationMillis:   r.DurationMs,
				Outcome:          r.Status,
				FinishedAtMillis: r.FinishedAt,
			})
		}
		h[e.Key] = append(h[e.Key], runs...)
	}
	return h, nil
}

// ReplaceAll writes h to a temporary file and renames it over the history file.
func (s *JSONStore) ReplaceAll(ctx context.Context, h domain.History) error {
	dto := fileDTO{Version: FormatVersion, Tests: make([]entryDTO, 0, len(h))}
	for _, id := range h.Identities() {
		runs := make([]runDTO, 0, len(h[id]))
		for _, r := range h[id] {
			runs = append(runs, runDTO{
				BuildID:    r.BuildID,
				DurationMs: r.DurationMillis,
				Status:     r.Outcome,
				FinishedAt: r.FinishedAtMillis,
			})
		}
		dto.Tests = append(dto.Tests, entryDTO{Key: id, Runs: runs})
	}

	data, err := json.MarshalIndent(dto, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
