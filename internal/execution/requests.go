package execution

import (
	"fmt"
	"path/filepath"
	"sort"

	"gsplit/internal/domain"
)

// RequestContext carries the per-run values every dispatch spec is built from
type RequestContext struct {
	ProjectPath string
	Tasks       []string
	LogDir      string
	FilterDir   string
	ScratchDir  string
	Args        []string
}

// BuildSpecs turns batches into dispatch specs.
//
// Every batch but the last runs its own classes in include mode. The last
// worker runs in exclude mode, skipping everything the others include, so
// tests missing from history are still executed.
func BuildSpecs(batches []domain.Batch, rc RequestContext) []domain.DispatchSpec {
	var specs []domain.DispatchSpec
	excluded := make(map[string]bool)

	for i := 0; i < len(batches)-1; i++ {
		classes := batches[i].ClassNames()
		for _, c := range classes {
			excluded[c] = true
		}
		specs = append(specs, newSpec(i, domain.FilterInclude, classes, rc))
	}

	last := len(batches) - 1
	if last < 0 {
		last = 0
	}
	exclusions := make([]string, 0, len(excluded))
	for c := range excluded {
		exclusions = append(exclusions, c)
	}
	specs = append(specs, newSpec(last, domain.FilterExclude, exclusions, rc))
	return specs
}

func newSpec(id int, mode domain.FilterMode, classes []string, rc RequestContext) domain.DispatchSpec {
	sorted := append([]string(nil), classes...)
	sort.Strings(sorted)

	suffix := "incl"
	if mode == domain.FilterExclude {
		suffix = "excl"
	}
	return domain.DispatchSpec{
		WorkerID:      id,
		ProjectPath:   rc.ProjectPath,
		Tasks:         append([]string(nil), rc.Tasks...),
		FilterMode:    mode,
		FilterClasses: sorted,
		FilterFile:    filepath.Join(rc.FilterDir, fmt.Sprintf("tests-%d-%s.txt", id, suffix)),
		LogPath:       filepath.Join(rc.LogDir, fmt.Sprintf("gradle-%d.log", id)),
		ScratchDir:    rc.ScratchDir,
		Args:          append([]string(nil), rc.Args...),
	}
}

// FallbackSpec builds the single unfiltered recovery spec covering every task
// requested by specs.
func FallbackSpec(specs []domain.DispatchSpec, rc RequestContext) domain.DispatchSpec {
	seen := make(map[string]bool)
	var tasks []string
	for _, s := range specs {
		for _, t := range s.Tasks {
			if !seen[t] {
				seen[t] = true
				tasks = append(tasks, t)
			}
		}
	}
	return domain.DispatchSpec{
		WorkerID:    len(specs),
		ProjectPath: rc.ProjectPath,
		Tasks:       tasks,
		FilterMode:  domain.FilterNone,
		LogPath:     filepath.Join(rc.LogDir, "gradle-fallback.log"),
		ScratchDir:  rc.ScratchDir,
		Args:        append([]string(nil), rc.Args...),
	}
}
