package parser

import "gsplit/internal/domain"

// Parser turns build output lines into test events
type Parser interface {
	// ParseLine returns the event carried by line, if any.
	ParseLine(line string) (domain.TestEvent, bool, error)
}
