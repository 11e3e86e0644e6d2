package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"gsplit/internal/batching"
	"gsplit/internal/config"
	"gsplit/internal/discovery"
	"gsplit/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	parser *discovery.Parser
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config, parser *discovery.Parser) *Formatter {
	return &Formatter{
		config: cfg,
		parser: parser,
	}
}

// PrintMetaStats reads and displays the statistics of the last run report
func (f *Formatter) PrintMetaStats() error {
	data, err := os.ReadFile(f.config.GetReportPath())
	if err != nil {
		return fmt.Errorf("failed to read report file: %w", err)
	}

	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return fmt.Errorf("failed to parse report: %w", err)
	}

	meta := report.Meta

	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                    Test Execution Statistics                  ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")
	row := func(label string, print func(format string, a ...interface{}), value interface{}, last bool) {
		fmt.Printf("│ %-31s │ ", label)
		print("%-27v │\n", value)
		if !last {
			fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	row("Total Tests", color.White, meta.TotalTests, false)
	row("Passed Tests", color.Green, meta.PassedTests, false)
	row("Failed Tests", color.Red, meta.FailedTests, false)
	row("Skipped Tests", color.Yellow, meta.SkippedTests, false)
	row("Workers", color.White, meta.Workers, false)
	if meta.InfraFailures > 0 {
		row("Failed Workers", color.Red, meta.InfraFailures, false)
	}
	if meta.FallbackUsed {
		row("Fallback Worker", color.Yellow, "used", false)
	}
	row("Duration", color.White, fmt.Sprintf("%.2fs", meta.DurationSeconds), false)
	row("Timestamp", color.White, meta.Timestamp, true)
	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Println()
	color.White("Test run complete: %d tests, %d passed, %d failed, %d skipped.",
		meta.TotalTests, meta.PassedTests, meta.FailedTests, meta.SkippedTests)
	if meta.Success {
		color.Green("✓ All tests passed!")
		return nil
	}
	if meta.FailedTests > 0 {
		color.Red("✗ %d test(s) failed", meta.FailedTests)
	}
	for _, w := range report.Workers {
		if !w.Succeeded && w.Tests == 0 {
			color.Red("✗ worker %d did not run any test: %s (log: %s)", w.WorkerID, w.Cause, w.LogPath)
		}
	}
	fmt.Println()
	printTree(failureTree(report.Details), "", true)
	return nil
}

// TreeNode represents a node in the module/class/test tree
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	IsTest   bool
}

// failureTree groups failed tests by module and class. Worker failures are
// not tests and are left out.
func failureTree(failures []domain.TestFailure) *TreeNode {
	root := &TreeNode{Children: make(map[string]*TreeNode)}
	child := func(parent *TreeNode, name string) *TreeNode {
		if parent.Children[name] == nil {
			parent.Children[name] = &TreeNode{Name: name, Children: make(map[string]*TreeNode)}
		}
		return parent.Children[name]
	}

	for _, failure := range failures {
		if failure.Infra {
			continue
		}
		module := failure.ModulePath
		if module == "" {
			module = ":"
		}
		name := failure.TestName
		if failure.Parameters != "" {
			name += " " + failure.Parameters
		}
		test := child(child(child(root, module), failure.ClassName), name)
		test.IsTest = true
	}
	return root
}

func printTree(node *TreeNode, prefix string, isRoot bool) {
	var keys []string
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		isLast := i == len(keys)-1

		connector := "├── "
		next := prefix + "│   "
		if isLast {
			connector = "└── "
			next = prefix + "    "
		}
		if isRoot {
			connector = ""
			next = ""
		}

		switch {
		case child.IsTest:
			color.Red("%s%s%s", prefix, connector, child.Name)
		case len(child.Children) > 0 && anyTest(child):
			color.Yellow("%s%s%s", prefix, connector, child.Name)
		default:
			color.Cyan("%s%s%s", prefix, connector, child.Name)
		}
		printTree(child, next, false)
	}
}

func anyTest(node *TreeNode) bool {
	for _, c := range node.Children {
		if c.IsTest {
			return true
		}
	}
	return false
}

// PrintPlan displays how tests would be split across workers
func (f *Formatter) PrintPlan(batches []domain.Batch, specs []domain.DispatchSpec, unknown []string) {
	color.Cyan("Execution plan: %d worker(s)\n", len(specs))

	for i, spec := range specs {
		var estimate int64
		var tests int
		if i < len(batches) {
			estimate = batches[i].EstimatedDurationMillis
			tests = len(batches[i].Tests)
		}

		header := fmt.Sprintf("worker %d  %-7s  %d class(es)  %d known test(s)  ~%s",
			spec.WorkerID, spec.FilterMode, len(spec.FilterClasses), tests, formatMillis(estimate))
		if spec.FilterMode == domain.FilterExclude {
			header = fmt.Sprintf("worker %d  %-7s  everything except %d class(es)  %d known test(s)  ~%s",
				spec.WorkerID, spec.FilterMode, len(spec.FilterClasses), tests, formatMillis(estimate))
		}
		color.White("%s", header)

		if spec.FilterMode == domain.FilterInclude {
			for j, class := range spec.FilterClasses {
				if j == len(spec.FilterClasses)-1 {
					color.Cyan("  └── %s", class)
				} else {
					color.Cyan("  ├── %s", class)
				}
			}
		}
	}

	if len(unknown) > 0 {
		fmt.Println()
		color.Yellow("%d test class(es) without history will run on the last worker:", len(unknown))
		for _, class := range unknown {
			color.Yellow("  %s", class)
		}
	}
}

// PrintHistory displays stored runs per test. pattern filters by class name.
func (f *Formatter) PrintHistory(history domain.History, pattern string) {
	estimates := batching.Estimate(history)

	classes := make(map[string]bool)
	for id := range history {
		classes[id.ClassName] = true
	}
	var names []string
	for c := range classes {
		names = append(names, c)
	}
	keep := make(map[string]bool)
	for _, c := range discovery.NewFilter().FilterByName(names, pattern) {
		keep[c] = true
	}

	var shown int
	for _, id := range history.Identities() {
		if !keep[id.ClassName] {
			continue
		}
		shown++
		runs := history[id]

		var outcomes []string
		for _, r := range runs {
			switch r.Outcome {
			case domain.OutcomePassed:
				outcomes = append(outcomes, color.GreenString("P"))
			case domain.OutcomeFailed:
				outcomes = append(outcomes, color.RedString("F"))
			default:
				outcomes = append(outcomes, color.YellowString("S"))
			}
		}

		fmt.Printf("%-60s %10s %3d  %s\n", truncate(id.String(), 60), formatMillis(estimates[id]), len(runs), strings.Join(outcomes, ""))
	}

	fmt.Println()
	color.Green("%d test(s), %d run(s) stored", shown, history.RecordCount())
}

// CountTestCases returns the total number of test cases across the given test files.
func (f *Formatter) CountTestCases(tests []string) (int, error) {
	var total int
	for _, test := range tests {
		cases, err := f.parser.FindTestCases(test)
		if err != nil {
			return 0, err
		}
		total += len(cases)
	}
	return total, nil
}

// PrintTestList prints a list of test classes, optionally with test cases.
// failedClasses is optional; if set, classes in this set are marked with [F] in red (from last run).
// knownClasses is optional; if set, classes missing from it are marked [new].
func (f *Formatter) PrintTestList(tests []string, showTestCases bool, failedClasses, knownClasses map[string]struct{}) error {
	if showTestCases {
		color.Green("Found %d test class(es) with test cases:\n", len(tests))
	} else {
		color.Green("Found %d test class(es):\n", len(tests))
	}

	projectPath := f.config.GetProjectPath()
	for i, test := range tests {
		className, err := f.parser.ClassName(test)
		if err != nil {
			color.Red("Error reading test file %s: %v", test, err)
			continue
		}

		failMarker := ""
		if _, ok := failedClasses[className]; ok {
			failMarker = " " + color.RedString("[F]")
		}
		if knownClasses != nil {
			if _, ok := knownClasses[className]; !ok {
				failMarker += " " + color.YellowString("[new]")
			}
		}

		isLastFile := i == len(tests)-1
		module := discovery.ModulePath(projectPath, test)
		if isLastFile {
			color.Cyan("└── %s %s%s", className, color.WhiteString("(%s)", module), failMarker)
		} else {
			color.Cyan("├── %s %s%s", className, color.WhiteString("(%s)", module), failMarker)
		}

		if !showTestCases {
			continue
		}

		indent := "│   "
		if isLastFile {
			indent = "    "
		}
		testCases, err := f.parser.FindTestCases(test)
		if err != nil {
			color.Red("Error reading test file %s: %v", test, err)
			continue
		}
		if len(testCases) == 0 {
			fmt.Printf("%s└── %s\n", indent, color.RedString("(no test cases found)"))
		}
		for j, testCase := range testCases {
			branch := "├── "
			if j == len(testCases)-1 {
				branch = "└── "
			}
			fmt.Printf("%s%s%s\n", indent, branch, color.YellowString(testCase))
		}
		if !isLastFile {
			fmt.Println()
		}
	}

	return nil
}

func formatMillis(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "…" + s[len(s)-n+1:]
}
