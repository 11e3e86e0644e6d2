package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestTestIdentity_String(t *testing.T) {
	tests := []struct {
		name     string
		id       TestIdentity
		expected string
	}{
		{"plain", TestIdentity{ClassName: "com.acme.FooTest", TestName: "works"}, "com.acme.FooTest#works"},
		{"module", TestIdentity{ModulePath: ":app", ClassName: "FooTest", TestName: "works"}, ":app FooTest#works"},
		{"parameters", TestIdentity{ClassName: "FooTest", TestName: "works", Parameters: "1, 2"}, "FooTest#works[1, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestHistory_IdentitiesAreSorted(t *testing.T) {
	a := TestIdentity{ModulePath: ":a", ClassName: "Z", TestName: "z"}
	b := TestIdentity{ModulePath: ":b", ClassName: "A", TestName: "a"}
	c := TestIdentity{ModulePath: ":b", ClassName: "A", TestName: "a", Parameters: "1"}
	h := History{c: nil, b: {{}}, a: {{}, {}}}

	expected := []TestIdentity{a, b, c}
	if got := h.Identities(); !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
	if h.RecordCount() != 3 {
		t.Errorf("expected 3 records, got %d", h.RecordCount())
	}
}

func TestBatch_ClassNames(t *testing.T) {
	b := Batch{Tests: []TestIdentity{
		{ClassName: "B", TestName: "1"},
		{ClassName: "A", TestName: "1"},
		{ClassName: "B", TestName: "2"},
	}}
	if got := b.ClassNames(); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Errorf("unexpected class names %v", got)
	}
	if got := (Batch{}).ClassNames(); len(got) != 0 {
		t.Errorf("expected no class names, got %v", got)
	}
}

func TestFilterMode_String(t *testing.T) {
	if FilterNone.String() != "none" || FilterInclude.String() != "include" || FilterExclude.String() != "exclude" {
		t.Error("unexpected filter mode names")
	}
}

func TestRunOutcome(t *testing.T) {
	id := TestIdentity{ClassName: "FooTest", TestName: "works"}
	outcome := RunOutcome{Workers: []WorkerOutcome{
		{WorkerID: 0, Succeeded: true, Records: []TestRunRecord{{Identity: id, Outcome: OutcomePassed}}},
		{WorkerID: 1, Succeeded: false, Records: []TestRunRecord{{Identity: id, Outcome: OutcomeFailed}, {Identity: id, Outcome: OutcomeSkipped}}},
		{WorkerID: 2, Succeeded: false, Cause: errors.New("boom")},
		{WorkerID: 3, Succeeded: true, Fallback: true},
	}}

	if outcome.Success() {
		t.Error("expected unsuccessful run")
	}
	if len(outcome.Records()) != 3 {
		t.Errorf("expected 3 records, got %d", len(outcome.Records()))
	}
	infra := outcome.InfraFailures()
	if len(infra) != 1 || infra[0].WorkerID != 2 {
		t.Errorf("expected worker 2 as only infra failure, got %v", infra)
	}
	if !outcome.FallbackUsed() {
		t.Error("expected fallback to be reported")
	}

	counts := outcome.Counts()
	if counts != (OutcomeCounts{Total: 3, Passed: 1, Failed: 1, Skipped: 1}) {
		t.Errorf("unexpected counts %+v", counts)
	}

	ok := RunOutcome{Workers: []WorkerOutcome{{Succeeded: true}}}
	if !ok.Success() || ok.FallbackUsed() {
		t.Error("expected successful run without fallback")
	}
}

func TestWorkerOutcome_IsInfraFailure(t *testing.T) {
	tests := []struct {
		name     string
		outcome  WorkerOutcome
		expected bool
	}{
		{"succeeded", WorkerOutcome{Succeeded: true}, false},
		{"failed with records", WorkerOutcome{Records: []TestRunRecord{{}}}, false},
		{"failed without records", WorkerOutcome{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.IsInfraFailure(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
