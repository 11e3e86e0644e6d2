package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"gsplit/internal/config"
	"gsplit/internal/domain"
	"gsplit/internal/parser"
	"gsplit/internal/storage"
)

const logExcerptLines = 20

// ErrorViewer displays the failures of the last run in an interactive TUI
type ErrorViewer struct {
	config  *config.Config
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(cfg *config.Config, st storage.Storage) *ErrorViewer {
	return &ErrorViewer{
		config:  cfg,
		storage: st,
	}
}

// View browses the failures of report. Toggling a failure as resolved is
// written back to the report file immediately.
func (ev *ErrorViewer) View(report *domain.RunReport) error {
	if len(report.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	b := newFailureBrowser(ev, report)
	if err := b.app.SetRoot(b.layout(), true).SetFocus(b.list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// failureBrowser holds the widgets of one viewer session
type failureBrowser struct {
	viewer *ErrorViewer
	report *domain.RunReport

	app     *tview.Application
	header  *tview.TextView
	list    *tview.List
	summary *tview.TextView
	details *tview.TextView
}

func newFailureBrowser(ev *ErrorViewer, report *domain.RunReport) *failureBrowser {
	b := &failureBrowser{
		viewer:  ev,
		report:  report,
		app:     tview.NewApplication(),
		header:  tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true),
		list:    tview.NewList().ShowSecondaryText(false).SetHighlightFullLine(true),
		summary: tview.NewTextView().SetDynamicColors(true).SetWrap(false),
		details: tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetWordWrap(true),
	}

	b.list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	for i := range report.Details {
		b.list.AddItem(b.itemText(i), "", 0, nil)
	}

	b.list.SetChangedFunc(func(int, string, string, rune) { b.showSelected() })
	b.list.SetInputCapture(b.onListKey)
	b.details.SetInputCapture(b.onDetailsKey)

	b.refreshHeader()
	b.showSelected()
	return b
}

// layout places the failure list on the left third and the selected
// failure on the right.
func (b *failureBrowser) layout() tview.Primitive {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.summary, 3, 0, false).
		AddItem(tview.NewFlex().
			AddItem(b.details, 0, 1, false).
			AddItem(tview.NewBox(), 2, 0, false), 0, 1, false)

	body := tview.NewFlex().
		AddItem(b.list, 0, 1, true).
		AddItem(right, 0, 2, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.header, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)
}

func (b *failureBrowser) onListKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEnter, tcell.KeyRight:
		b.app.SetFocus(b.details)
		return nil
	case tcell.KeyCtrlC:
		b.app.Stop()
		return nil
	case tcell.KeyRune:
		if r := event.Rune(); r == 'r' || r == 'R' {
			b.toggleResolved(b.list.GetCurrentItem())
			return nil
		}
	}
	return event
}

func (b *failureBrowser) onDetailsKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyLeft, tcell.KeyEsc:
		b.app.SetFocus(b.list)
		return nil
	case tcell.KeyCtrlC:
		b.app.Stop()
		return nil
	}
	return event
}

func (b *failureBrowser) toggleResolved(index int) {
	if index < 0 || index >= len(b.report.Details) {
		return
	}
	b.report.Details[index].Resolved = !b.report.Details[index].Resolved
	b.list.SetItemText(index, b.itemText(index), "")
	b.refreshHeader()
	if err := b.viewer.storage.SaveOutput(b.report); err != nil {
		b.header.SetText(fmt.Sprintf("[red]failed to save report: %v", err))
	}
}

func (b *failureBrowser) refreshHeader() {
	open := 0
	for _, d := range b.report.Details {
		if !d.Resolved {
			open++
		}
	}
	b.header.SetText(fmt.Sprintf(
		" %s: %d failure(s), %d unresolved | ↑↓ navigate, [yellow]R[white] resolve, → details, ← back, Ctrl+C exit ",
		b.report.Meta.RunID, len(b.report.Details), open))
}

func (b *failureBrowser) showSelected() {
	index := b.list.GetCurrentItem()
	if index < 0 || index >= len(b.report.Details) {
		return
	}
	failure := b.report.Details[index]
	b.summary.SetText(formatFailureStats(failure, index+1))
	b.details.SetText(b.viewer.formatFailureDetails(failure)).ScrollToBeginning()
}

func (b *failureBrowser) itemText(index int) string {
	name := displayName(b.report.Details[index], index+1)
	if b.report.Details[index].Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

// formatFailureDetails renders a failure with tview color tags
func (ev *ErrorViewer) formatFailureDetails(failure domain.TestFailure) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	if failure.Infra {
		fmt.Fprintf(w, "[red]✗ Worker %d did not run any test[white]\n\n", failure.WorkerID)
	} else {
		fmt.Fprintf(w, "[red]✗ Test: %s[white]\n\n", failure.TestName)
		field := func(label, value string) {
			if value != "" {
				fmt.Fprintf(w, "[cyan]%s:\t%s[white]\n", label, value)
			}
		}
		field("Class", failure.ClassName)
		field("Module", failure.ModulePath)
		field("Parameters", failure.Parameters)
		field("Duration", fmt.Sprintf("%d ms", failure.DurationMs))
		field("Worker", fmt.Sprint(failure.WorkerID))
		field("Build", failure.BuildID)
	}
	fmt.Fprintln(w)

	if failure.Message != "" {
		fmt.Fprintf(w, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}

	if failure.LogPath != "" {
		fmt.Fprintf(w, "[yellow]Build Log:[white]\n%s\n\n", ev.relative(failure.LogPath))
		if tail := logTail(failure.LogPath, failure.ClassName, logExcerptLines); len(tail) > 0 {
			fmt.Fprintln(w, "[yellow]Log Excerpt:[white]")
			for _, line := range tail {
				fmt.Fprintf(w, "  %s\n", tview.Escape(line))
			}
		}
	}

	w.Flush()
	return builder.String()
}

// formatFailureStats renders the one-line summary above the details
func formatFailureStats(failure domain.TestFailure, number int) string {
	if failure.Infra {
		return fmt.Sprintf("[cyan]worker:[white] [yellow]%d[white]\n", failure.WorkerID)
	}

	class := failure.ClassName
	if class == "" {
		class = "Unknown class"
	}
	return fmt.Sprintf("[cyan]test:[white] [yellow]%s[white]#[yellow]%s[white]\n", class, displayName(failure, number))
}

func (ev *ErrorViewer) relative(path string) string {
	rel, err := filepath.Rel(ev.config.GetProjectPath(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func displayName(failure domain.TestFailure, number int) string {
	name := failure.TestName
	if name == "" {
		name = fmt.Sprintf("Test %d", number)
	}
	if failure.Parameters != "" {
		name += " " + failure.Parameters
	}
	return name
}

// logTail returns up to n log lines mentioning match, or the last n lines of
// the log when match is empty or never seen. Event lines are skipped.
func logTail(path, match string, n int) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var all, matched []string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if strings.HasPrefix(line, parser.EventPrefix) {
			continue
		}
		all = append(all, line)
		if match != "" && strings.Contains(line, match) {
			matched = append(matched, line)
		}
	}
	lines := matched
	if len(lines) == 0 {
		lines = all
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
