package feed

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// maxLineBytes bounds a single feed line. Lines beyond this are feed bugs.
const maxLineBytes = 1 << 20

// FileSource reads trade events from a JSONL file in line order.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed feed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// ReadAll reads every line of the feed. Blank lines are skipped; malformed
// lines come back as items with Err set, in their original position.
func (s *FileSource) ReadAll(ctx context.Context) ([]*Item, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()

	var items []*Item

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		ev, err := parseLine([]byte(text), line)
		if err != nil {
			items = append(items, &Item{Line: line, Err: err})
			continue
		}
		items = append(items, &Item{Event: ev, Line: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	return items, nil
}
