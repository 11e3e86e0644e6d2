package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"gsplit/internal/domain"
)

// EventPrefix marks lines written by the init script.
const EventPrefix = "##gsplit "

// gradleEvent is the payload the init script prints after EventPrefix
type gradleEvent struct {
	Event     string `json:"event"` // "started" or "finished"
	Module    string `json:"module"`
	Class     string `json:"class"`
	Test      string `json:"test"`
	Params    string `json:"params"`
	Result    string `json:"result"` // SUCCESS, FAILURE or SKIPPED
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
}

// GradleEventParser parses the event lines printed by the gsplit init script
type GradleEventParser struct{}

// NewGradleEventParser creates a new GradleEventParser
func NewGradleEventParser() *GradleEventParser {
	return &GradleEventParser{}
}

// ParseLine parses one line of build output.
// Lines without the event prefix are ignored; a prefixed line that cannot be
// decoded is an error.
func (p *GradleEventParser) ParseLine(line string) (domain.TestEvent, bool, error) {
	idx := strings.Index(line, EventPrefix)
	if idx < 0 {
		return domain.TestEvent{}, false, nil
	}
	payload := strings.TrimSpace(line[idx+len(EventPrefix):])

	var ev gradleEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return domain.TestEvent{}, false, fmt.Errorf("parse test event: %w", err)
	}
	if ev.Class == "" || ev.Test == "" {
		return domain.TestEvent{}, false, fmt.Errorf("parse test event: missing class or test name in %q", payload)
	}

	id := domain.TestIdentity{
		ModulePath: ev.Module,
		ClassName:  ev.Class,
		TestName:   ev.Test,
		Parameters: ev.Params,
	}

	switch ev.Event {
	case "started":
		return domain.TestEvent{Kind: domain.TestStarted, Identity: id}, true, nil
	case "finished":
		duration := ev.EndTime - ev.StartTime
		if duration < 0 {
			duration = 0
		}
		return domain.TestEvent{
			Kind:     domain.TestFinished,
			Identity: id,
			Record: &domain.TestRunRecord{
				Identity:         id,
				DurationMillis:   duration,
				Outcome:          outcome(ev.Result),
				FinishedAtMillis: ev.EndTime,
			},
		}, true, nil
	default:
		return domain.TestEvent{}, false, fmt.Errorf("parse test event: unknown event %q", ev.Event)
	}
}

func outcome(result string) domain.Outcome {
	switch strings.ToUpper(result) {
	case "SUCCESS", "PASSED":
		return domain.OutcomePassed
	case "SKIPPED":
		return domain.OutcomeSkipped
	default:
		return domain.OutcomeFailed
	}
}
