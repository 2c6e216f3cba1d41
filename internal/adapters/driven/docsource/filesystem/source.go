// Package filesystem provides a document source backed by a local
// corpus folder. Text files are read whole; tabular files are parsed
// and flattened to a bounded textual representation.
package filesystem

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/complia-labs/complia-cli/internal/core/domain"
	"github.com/complia-labs/complia-cli/internal/core/ports/driven"
	"github.com/complia-labs/complia-cli/internal/logger"
)

// Ensure Source implements the interfaces.
var (
	_ driven.DocumentSource  = (*Source)(nil)
	_ driven.WatchableSource = (*Source)(nil)
)

// DefaultMaxRows caps how many CSV rows are flattened to text, bounding
// the embedding cost of large tables.
const DefaultMaxRows = 200

// Source reads documents from a single folder. Entries with a text
// extension are read whole; entries with a tabular extension are parsed
// into rows and truncated before flattening. Everything else is
// silently skipped.
type Source struct {
	dir     string
	maxRows int
}

// Option configures the source.
type Option func(*Source)

// WithMaxRows sets the tabular row cap.
func WithMaxRows(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxRows = n
		}
	}
}

// New creates a filesystem document source for the given folder.
func New(dir string, opts ...Option) (*Source, error) {
	if dir == "" {
		return nil, fmt.Errorf("filesystem: corpus directory is required")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus directory: %w", err)
	}

	s := &Source{dir: abs, maxRows: DefaultMaxRows}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the corpus directory.
func (s *Source) Dir() string { return s.dir }

// List returns the names of supported files in the folder, sorted.
func (s *Source) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supported(entry.Name()) {
			names = append(names, entry.Name())
		} else {
			logger.Debug("Skipping unsupported file: %s", entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

// Read loads one document by file name.
func (s *Source) Read(_ context.Context, id string) (domain.Document, error) {
	if filepath.Base(id) != id {
		return domain.Document{}, fmt.Errorf("%w: document id %q", domain.ErrInvalidInput, id)
	}

	path := filepath.Join(s.dir, id)

	var content string
	var err error
	switch {
	case isTabular(id):
		content, err = s.readTabular(path)
	case isText(id):
		content, err = readText(path)
	default:
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, id)
	}
	if err != nil {
		return domain.Document{}, err
	}

	return domain.Document{ID: id, Path: path, Content: content}, nil
}

// Watch emits the name of each supported file that changes in the
// corpus folder until ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	changes := make(chan string)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				name := filepath.Base(event.Name)
				if !supported(name) {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case changes <- name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Corpus watcher error: %v", err)
			}
		}
	}()

	return changes, nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return string(data), nil
}

// readTabular parses a CSV file and flattens up to maxRows data rows
// into "header: value" lines, one line per row.
func (s *Source) readTabular(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	var b strings.Builder
	rows := 0
	for rows < s.maxRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}

		fields := make([]string, 0, len(record))
		for i, value := range record {
			name := fmt.Sprintf("col%d", i+1)
			if i < len(header) {
				name = strings.TrimSpace(header[i])
			}
			fields = append(fields, name+": "+strings.TrimSpace(value))
		}
		b.WriteString(strings.Join(fields, "; "))
		b.WriteString("\n")
		rows++
	}

	return b.String(), nil
}

func supported(name string) bool {
	return isText(name) || isTabular(name)
}

func isText(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".txt")
}

func isTabular(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
