package domain

// Batch is a group of whole test classes assigned to one worker
type Batch struct {
	Tests                   []TestIdentity
	EstimatedDurationMillis int64
}

// ClassNames returns the distinct class names of the batch in first-seen order
func (b Batch) ClassNames() []string {
	seen := make(map[string]bool, len(b.Tests))
	var classes []string
	for _, id := range b.Tests {
		if seen[id.ClassName] {
			continue
		}
		seen[id.ClassName] = true
		classes = append(classes, id.ClassName)
	}
	return classes
}

// FilterMode selects how a worker applies its class list
type FilterMode int

const (
	// FilterNone runs every test of the requested tasks
	FilterNone FilterMode = iota
	// FilterInclude runs exactly the listed classes
	FilterInclude
	// FilterExclude runs everything except the listed classes
	FilterExclude
)

func (m FilterMode) String() string {
	switch m {
	case FilterInclude:
		return "include"
	case FilterExclude:
		return "exclude"
	default:
		return "none"
	}
}

// DispatchSpec describes one invocation of the execution backend.
// Paths are per-worker so concurrent workers never share files.
type DispatchSpec struct {
	WorkerID      int
	ProjectPath   string
	Tasks         []string
	FilterMode    FilterMode
	FilterClasses []string
	FilterFile    string // where the class list is written, empty for FilterNone
	LogPath       string
	ScratchDir    string
	Args          []string // extra build arguments
}
