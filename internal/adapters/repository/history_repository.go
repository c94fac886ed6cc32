package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

// FileHistoryRepository keeps finished export runs in a JSON manifest,
// newest first, trimmed to a fixed number of entries
type FileHistoryRepository struct {
	manifestPath string
	limit        int
	mu           sync.Mutex
	cache        []domain.ExportResult
	loaded       bool
}

func NewFileHistoryRepository(manifestPath string, limit int) *FileHistoryRepository {
	return &FileHistoryRepository{
		manifestPath: manifestPath,
		limit:        limit,
	}
}

// load reads the manifest once; callers hold the lock
func (r *FileHistoryRepository) load() error {
	if r.loaded {
		return nil
	}

	data, err := os.ReadFile(r.manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			r.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read export history: %w", err)
	}

	var results []domain.ExportResult
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("failed to parse export history: %w", err)
	}
	r.cache = results
	r.loaded = true
	return nil
}

// Append records a finished run
func (r *FileHistoryRepository) Append(ctx context.Context, result domain.ExportResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return err
	}

	r.cache = append([]domain.ExportResult{result}, r.cache...)
	if r.limit > 0 && len(r.cache) > r.limit {
		r.cache = r.cache[:r.limit]
	}

	return r.flush()
}

// List returns runs newest first
func (r *FileHistoryRepository) List(ctx context.Context) ([]domain.ExportResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	return append([]domain.ExportResult(nil), r.cache...), nil
}

// Get finds a run by id or unique id prefix
func (r *FileHistoryRepository) Get(ctx context.Context, id string) (*domain.ExportResult, error) {
	results, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var match *domain.ExportResult
	for i := range results {
		if results[i].ID == id {
			return &results[i], nil
		}
		if id != "" && strings.HasPrefix(results[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("export id %q is ambiguous", id)
			}
			match = &results[i]
		}
	}
	if match == nil {
		return nil, os.ErrNotExist
	}
	return match, nil
}

// flush writes cache to disk; callers hold the lock
func (r *FileHistoryRepository) flush() error {
	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.manifestPath), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	return os.WriteFile(r.manifestPath, data, 0644)
}
