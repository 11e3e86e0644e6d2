package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"gsplit/internal/domain"
)

// Reporter renders live test events, either as a progress bar or as one
// line per finished test.
type Reporter struct {
	mu       sync.Mutex
	out      io.Writer
	progress *ProgressBar
}

// NewReporter creates a Reporter. With a nil progress bar every finished
// test is printed to out.
func NewReporter(out io.Writer, progress *ProgressBar) *Reporter {
	return &Reporter{out: out, progress: progress}
}

// Handle consumes one event. It matches execution.EventSink.
func (r *Reporter) Handle(ev domain.TestEvent) {
	if ev.Kind != domain.TestFinished || ev.Record == nil {
		return
	}
	if r.progress != nil {
		r.progress.Record(ev.Record.Outcome)
		return
	}

	line := FinishLine(*ev.Record)
	r.mu.Lock()
	defer r.mu.Unlock()
	switch ev.Record.Outcome {
	case domain.OutcomePassed:
		fmt.Fprintln(r.out, color.GreenString("%s", line))
	case domain.OutcomeFailed:
		fmt.Fprintln(r.out, color.RedString("%s", line))
	default:
		fmt.Fprintln(r.out, color.YellowString("%s", line))
	}
}

// Finish stops the progress bar, if any
func (r *Reporter) Finish() {
	if r.progress != nil {
		r.progress.Finish()
	}
}

// FinishLine formats a finished test, e.g. "PASSED  com.acme.FooTest#works in 12 ms"
func FinishLine(rec domain.TestRunRecord) string {
	name := rec.Identity.ClassName + "#" + rec.Identity.TestName
	if rec.Identity.Parameters != "" {
		name += " " + rec.Identity.Parameters
	}
	return fmt.Sprintf("%-7s %s in %d ms", rec.Outcome, name, rec.DurationMillis)
}
