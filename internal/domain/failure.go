package domain

// TestFailure represents a failed test case or a worker that could not run
type TestFailure struct {
	ModulePath string `json:"module_path,omitempty"`
	ClassName  string `json:"class_name"`
	TestName   string `json:"test_name"`
	Parameters string `json:"parameters,omitempty"`
	WorkerID   int    `json:"worker_id"`
	BuildID    string `json:"build_id,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
	LogPath    string `json:"log_path,omitempty"`
	Infra      bool   `json:"infra,omitempty"`    // Worker failed before running tests
	Resolved   bool   `json:"resolved,omitempty"` // Track if test case is marked as resolved
}
