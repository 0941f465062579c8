package ignorelist

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Config holds configuration for the flat-file ignore list
type Config struct {
	// Path to the ignore list file, one lowercase name per line
	Path string

	// Logger for parse warnings
	Logger *zap.Logger
}

// flatFileRepository implements the Repository interface on a flat file
type flatFileRepository struct {
	path   string
	logger *zap.Logger

	mu    sync.RWMutex
	names map[string]struct{}
}

// NewFlatFile creates a new flat-file ignore list repository
func NewFlatFile(cfg *Config) (*flatFileRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Path == "" {
		return nil, errors.New("path cannot be empty")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &flatFileRepository{
		path:   cfg.Path,
		logger: cfg.Logger,
		names:  make(map[string]struct{}),
	}, nil
}

// Load replaces the in-memory set with the persisted contents. A missing
// file is an empty list. Lines with extra fields are skipped with a warning.
func (r *flatFileRepository) Load(_ context.Context) error {
	names := make(map[string]struct{})

	file, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.mu.Lock()
			r.names = names
			r.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to open ignore list %q: %w", r.path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.ContainsAny(text, " \t") {
			r.logger.Warn("skipping malformed ignore list line",
				zap.String("path", r.path),
				zap.Int("line", line))
			continue
		}
		names[strings.ToLower(text)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read ignore list %q: %w", r.path, err)
	}

	r.mu.Lock()
	r.names = names
	r.mu.Unlock()

	return nil
}

// Contains reports whether a name is on the list
func (r *flatFileRepository) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.names[strings.ToLower(name)]
	return ok
}

// Add puts a name on the list and persists it immediately
func (r *flatFileRepository) Add(_ context.Context, name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return errors.New("name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[name]; ok {
		return nil
	}

	r.names[name] = struct{}{}
	return r.persistLocked()
}

// Remove takes a name off the list and persists it immediately
func (r *flatFileRepository) Remove(_ context.Context, name string) error {
	name = strings.ToLower(strings.TrimSpace(name))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[name]; !ok {
		return nil
	}

	delete(r.names, name)
	return r.persistLocked()
}

// Names returns the current list, sorted
func (r *flatFileRepository) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// persistLocked writes the set to a temp file and renames it into place.
// Callers must hold the write lock.
func (r *flatFileRepository) persistLocked() error {
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".ignorelist-*")
	if err != nil {
		return fmt.Errorf("failed to create temp ignore list file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := bufio.NewWriter(tmp)
	for _, name := range names {
		if _, err := fmt.Fprintln(writer, name); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write ignore list entry: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush ignore list: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync ignore list: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close ignore list: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace ignore list %q: %w", r.path, err)
	}

	return nil
}
