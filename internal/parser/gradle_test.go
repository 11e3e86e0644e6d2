package parser

import (
	"testing"

	"gsplit/internal/domain"
)

func TestGradleEventParser_ParseLine(t *testing.T) {
	p := NewGradleEventParser()
	alpha := domain.TestIdentity{ModulePath: ":app", ClassName: "com.example.AlphaTest", TestName: "works"}

	tests := []struct {
		name       string
		line       string
		wantOK     bool
		wantErr    bool
		wantKind   domain.TestEventKind
		wantID     domain.TestIdentity
		wantResult domain.Outcome
		wantMs     int64
	}{
		{
			name:   "plain build output",
			line:   "> Task :app:compileJava",
			wantOK: false,
		},
		{
			name:     "started",
			line:     `##gsplit {"event":"started","module":":app","class":"com.example.AlphaTest","test":"works"}`,
			wantOK:   true,
			wantKind: domain.TestStarted,
			wantID:   alpha,
		},
		{
			name:       "finished success",
			line:       `##gsplit {"event":"finished","module":":app","class":"com.example.AlphaTest","test":"works","result":"SUCCESS","startTime":1000,"endTime":1250}`,
			wantOK:     true,
			wantKind:   domain.TestFinished,
			wantID:     alpha,
			wantResult: domain.OutcomePassed,
			wantMs:     250,
		},
		{
			name:       "finished failure with prefix noise",
			line:       `worker-1 | ##gsplit {"event":"finished","module":":app","class":"com.example.AlphaTest","test":"works","result":"FAILURE","startTime":5,"endTime":6}`,
			wantOK:     true,
			wantKind:   domain.TestFinished,
			wantID:     alpha,
			wantResult: domain.OutcomeFailed,
			wantMs:     1,
		},
		{
			name:       "skipped with parameters",
			line:       `##gsplit {"event":"finished","module":":lib","class":"com.example.P","test":"sum(int)","params":"[2] 3","result":"SKIPPED","startTime":9,"endTime":9}`,
			wantOK:     true,
			wantKind:   domain.TestFinished,
			wantID:     domain.TestIdentity{ModulePath: ":lib", ClassName: "com.example.P", TestName: "sum(int)", Parameters: "[2] 3"},
			wantResult: domain.OutcomeSkipped,
		},
		{
			name:    "broken json",
			line:    `##gsplit {"event":`,
			wantErr: true,
		},
		{
			name:    "unknown event",
			line:    `##gsplit {"event":"paused","class":"A","test":"b"}`,
			wantErr: true,
		},
		{
			name:    "missing class",
			line:    `##gsplit {"event":"started","test":"b"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok, err := p.ParseLine(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got event %+v", ev)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if !ok {
				return
			}
			if ev.Kind != tt.wantKind {
				t.Errorf("expected kind %v, got %v", tt.wantKind, ev.Kind)
			}
			if ev.Identity != tt.wantID {
				t.Errorf("expected identity %+v, got %+v", tt.wantID, ev.Identity)
			}
			if tt.wantKind == domain.TestFinished {
				if ev.Record == nil {
					t.Fatal("expected a record for a finished event")
				}
				if ev.Record.Outcome != tt.wantResult {
					t.Errorf("expected outcome %s, got %s", tt.wantResult, ev.Record.Outcome)
				}
				if ev.Record.DurationMillis != tt.wantMs {
					t.Errorf("expected %d ms, got %d", tt.wantMs, ev.Record.DurationMillis)
				}
			} else if ev.Record != nil {
				t.Error("started events carry no record")
			}
		})
	}
}
