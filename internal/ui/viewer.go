package ui

import "gsplit/internal/domain"

// Viewer displays run failures in an interactive TUI
type Viewer interface {
	View(report *domain.RunReport) error
}
