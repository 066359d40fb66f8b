package loader

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultContentFile is looked up in the working directory when no body
// file is configured.
const DefaultContentFile = "SHEET.md"

// ErrNotFound is returned when the body file does not exist
var ErrNotFound = errors.New("sheet content not found")

// DefaultContent is shown when no body file exists
const DefaultContent = `# Sticky sheet

Drag the handle, flick with the arrow keys or the mouse wheel, and let go
to rest at the nearest stop.

- **click** at the first stop to advance
- **f** freezes and unfreezes the sheet
- **q** slides the sheet away and quits
`

// LoadContent reads the sheet body from dir/SHEET.md. An empty dir means the
// current working directory.
func LoadContent(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
	}
	return LoadContentFromFile(filepath.Join(dir, DefaultContentFile))
}

// LoadContentFromFile reads the sheet body from a specific markdown file.
// Line endings are normalized and trailing blank lines dropped.
func LoadContentFromFile(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("%w at %s", ErrNotFound, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open content file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	// Allow long lines (tables, embedded links)
	const maxCapacity = 1024 * 1024
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxCapacity)

	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading content file: %w", err)
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n"), nil
}

// LoadContentOrDefault loads path, or DefaultContent when path is empty or
// missing. Other read errors are returned with the default body.
func LoadContentOrDefault(path string) (string, error) {
	if path == "" {
		body, err := LoadContent("")
		if errors.Is(err, ErrNotFound) {
			return DefaultContent, nil
		}
		if err != nil {
			return DefaultContent, err
		}
		return body, nil
	}

	body, err := LoadContentFromFile(path)
	if errors.Is(err, ErrNotFound) {
		return DefaultContent, nil
	}
	if err != nil {
		return DefaultContent, err
	}
	return body, nil
}
