package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TestSuffixes are the file name endings of test classes
var TestSuffixes = []string{"Test.java", "Tests.java", "Test.kt", "Tests.kt"}

// Scanner scans a Gradle project for test source files
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all test source files below root. Only files inside a source
// set whose name contains "test" (src/test, src/integrationTest, ...) count.
func (s *Scanner) Scan(root string) ([]string, error) {
	var testfiles []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (.git, .gradle, .idea)
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if isTestFile(d.Name()) && inTestSourceSet(root, path) {
			testfiles = append(testfiles, path)
		}
		return nil
	})

	return testfiles, err
}

func isTestFile(name string) bool {
	for _, suffix := range TestSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func inTestSourceSet(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "src" && strings.Contains(strings.ToLower(parts[i+1]), "test") {
			return true
		}
	}
	return false
}

// ModulePath returns the Gradle project path owning a source file, such as
// ":core:moduleA" for core/moduleA/src/test/java/Foo.java. Files of the root
// project yield ":".
func ModulePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ":"
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i, part := range parts {
		if part == "src" {
			return ":" + strings.Join(parts[:i], ":")
		}
	}
	return ":"
}
