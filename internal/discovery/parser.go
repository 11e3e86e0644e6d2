package discovery

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	packagePattern = regexp.MustCompile(`^\s*package\s+([\w.]+)`)

	// @Test, @ParameterizedTest, @org.junit.jupiter.api.Test, ...
	testAnnotationPattern = regexp.MustCompile(`@(?:[\w]+\.)*(?:Test|ParameterizedTest|RepeatedTest|TestFactory|TestTemplate)\b`)
	annotationPattern     = regexp.MustCompile(`@[\w.]+(?:\([^)]*\))?`)

	// fun `does a thing`() / fun doesAThing()
	kotlinFunPattern = regexp.MustCompile("^\\s*(?:(?:public|protected|private|internal|open|override|suspend)\\s+)*fun\\s+(?:<[^>]+>\\s+)?(?:`([^`]+)`|(\\w+))\\s*\\(")
	// public void doesAThing()
	javaMethodPattern = regexp.MustCompile(`^\s*(?:(?:public|protected|private|static|final|synchronized)\s+)*(?:<[^>]+>\s+)?[\w.<>\[\]?, ]+?\s+(\w+)\s*\(`)
)

// Parser parses test source files to extract class names and test cases
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// ClassName returns the fully qualified class name declared by a test file,
// assuming the class is named after the file.
func (p *Parser) ClassName(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	defer f.Close()

	simple := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := packagePattern.FindStringSubmatch(scanner.Text()); m != nil {
			return strings.TrimSuffix(m[1], ";") + "." + simple, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	return simple, nil
}

// FindTestCases finds all JUnit test methods in a Java or Kotlin file
func (p *Parser) FindTestCases(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	testCasesMap := make(map[string]bool) // Use map to avoid duplicates
	pending := false
	for _, line := range strings.Split(string(content), "\n") {
		if testAnnotationPattern.MatchString(line) {
			pending = true
		}
		if !pending {
			continue
		}

		rest := strings.TrimSpace(annotationPattern.ReplaceAllString(line, ""))
		if rest == "" || strings.HasPrefix(rest, "//") || strings.HasPrefix(rest, "*") || strings.HasPrefix(rest, "/*") {
			continue
		}
		if name := methodName(rest); name != "" {
			testCasesMap[name] = true
		}
		pending = false
	}

	var testCases []string
	for testCase := range testCasesMap {
		testCases = append(testCases, testCase)
	}
	sort.Strings(testCases)

	return testCases, nil
}

func methodName(line string) string {
	if m := kotlinFunPattern.FindStringSubmatch(line); m != nil {
		if m[1] != "" {
			return m[1]
		}
		return m[2]
	}
	if m := javaMethodPattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}
