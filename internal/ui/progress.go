package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"gsplit/internal/domain"
)

// ProgressBar creates and manages progress bars.
// It is safe for use from several workers at once.
type ProgressBar struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	total   int
	done    int
	passed  int
	failed  int
	skipped int
}

// NewProgressBar creates a new progress bar for the expected number of tests.
// When count is unknown (zero), a spinner is shown instead.
func NewProgressBar(count int) *ProgressBar {
	total := count
	if total < 1 {
		total = -1
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(describe(0, 0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar, total: total}
}

func describe(passed, failed, skipped int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d", failed) +
		" | " +
		color.YellowString("skipped: %d]", skipped)
}

// Record counts one finished test. Tests missing from history can push the
// total past the initial estimate, in which case the bar grows.
func (p *ProgressBar) Record(outcome domain.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch outcome {
	case domain.OutcomePassed:
		p.passed++
	case domain.OutcomeFailed:
		p.failed++
	case domain.OutcomeSkipped:
		p.skipped++
	}
	p.done++

	if p.total > 0 && p.done > p.total {
		p.total = p.done
		p.bar.ChangeMax(p.total)
	}
	p.bar.Set(p.done)
	p.bar.Describe(describe(p.passed, p.failed, p.skipped))
}

// Counts returns the tallies recorded so far
func (p *ProgressBar) Counts() (passed, failed, skipped int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.passed, p.failed, p.skipped
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar.Finish()
}
