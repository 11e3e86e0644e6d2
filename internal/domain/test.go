package domain

import (
	"fmt"
	"sort"
)

// Outcome is the status of a single test execution
type Outcome string

const (
	OutcomePassed  Outcome = "PASSED"
	OutcomeFailed  Outcome = "FAILED"
	OutcomeSkipped Outcome = "SKIPPED"
)

// TestIdentity identifies one test case across runs.
// It is comparable and used directly as a map key.
type TestIdentity struct {
	ModulePath string `json:"modulePath"` // Gradle project path, e.g. ":core:moduleA"
	ClassName  string `json:"className"`  // Fully qualified class name
	TestName   string `json:"testName"`   // Test method name
	Parameters string `json:"parameters,omitempty"`
}

// String renders the identity as module:Class#test[params]
func (id TestIdentity) String() string {
	s := fmt.Sprintf("%s#%s", id.ClassName, id.TestName)
	if id.ModulePath != "" {
		s = id.ModulePath + " " + s
	}
	if id.Parameters != "" {
		s += "[" + id.Parameters + "]"
	}
	return s
}

// Less orders identities by module, class, test and parameters.
func (id TestIdentity) Less(other TestIdentity) bool {
	if id.ModulePath != other.ModulePath {
		return id.ModulePath < other.ModulePath
	}
	if id.ClassName != other.ClassName {
		return id.ClassName < other.ClassName
	}
	if id.TestName != other.TestName {
		return id.TestName < other.TestName
	}
	return id.Parameters < other.Parameters
}

// TestRunRecord is one observed execution of a test
type TestRunRecord struct {
	Identity         TestIdentity
	BuildID          string
	DurationMillis   int64
	Outcome          Outcome
	FinishedAtMillis int64
}

// History maps each test to its past executions, oldest first
type History map[TestIdentity][]TestRunRecord

// Identities returns the keys of h in a stable order.
func (h History) Identities() []TestIdentity {
	ids := make([]TestIdentity, 0, len(h))
	for id := range h {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// RecordCount returns the total number of records across all tests
func (h History) RecordCount() int {
	n := 0
	for _, runs := range h {
		n += len(runs)
	}
	return n
}

// TestEventKind distinguishes live progress notifications
type TestEventKind int

const (
	TestStarted TestEventKind = iota
	TestFinished
)

// TestEvent is a live notification emitted by a backend while it runs.
// Record is only set for TestFinished.
type TestEvent struct {
	Kind     TestEventKind
	WorkerID int
	Identity TestIdentity
	Record   *TestRunRecord
}
