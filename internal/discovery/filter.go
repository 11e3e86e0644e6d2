package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters test classes by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters fully qualified class names using wildcard matching.
// Patterns are matched against the simple class name and the full name, so
// both "*UserTest" and "com.acme.*" work. A pattern without wildcards is a
// substring match.
func (f *Filter) FilterByName(classes []string, pattern string) []string {
	if pattern == "" {
		return classes
	}

	var filtered []string
	for _, class := range classes {
		if matches(pattern, class) {
			filtered = append(filtered, class)
		}
	}
	return filtered
}

func matches(pattern, class string) bool {
	simple := class
	if i := strings.LastIndex(class, "."); i >= 0 {
		simple = class[i+1:]
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(class, pattern)
	}

	for _, name := range []string{simple, class} {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
