// Package source reads batches of raw notification text from exported files.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than .txt, .json and .pdf.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrNoMessages is returned when a file holds no message text at all.
	ErrNoMessages = errors.New("no messages found")
)

// ReadMessages loads the messages in path, choosing the reader by extension:
//
//	.txt  one message per non-empty line
//	.json an array of strings, or {"messages": [...]}
//	.pdf  a printed inbox export, split at confirmation codes
func ReadMessages(path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file %s: %w", path, err)
	}

	var (
		messages []string
		err      error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".sms":
		messages, err = readText(path)
	case ".json":
		messages, err = readJSON(path)
	case ".pdf":
		messages, err = readPDF(path)
	default:
		return nil, fmt.Errorf("%w %q: expected .txt, .json or .pdf", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoMessages)
	}
	return messages, nil
}
