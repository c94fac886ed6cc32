package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/internal/core/ports"
)

// MockSurface is a surface that returns fixed bytes
type MockSurface struct {
	Data []byte
	Err  error

	// Block makes Encode wait until the channel is closed or ctx is done
	Block chan struct{}

	mu      sync.Mutex
	calls   int
	lastOpt domain.EncodeOptions
}

// Encode returns the configured payload
func (s *MockSurface) Encode(ctx context.Context, opts domain.EncodeOptions) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	s.lastOpt = opts
	s.mu.Unlock()

	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.Data, s.Err
}

// Calls returns how many times Encode was invoked
func (s *MockSurface) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// LastOptions returns the options of the last Encode call
func (s *MockSurface) LastOptions() domain.EncodeOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOpt
}

// MockSurfaceLocator maps viewport ids to surfaces
type MockSurfaceLocator struct {
	mu       sync.Mutex
	surfaces map[string]*MockSurface
	lookups  []string
}

// NewMockSurfaceLocator creates a locator without surfaces
func NewMockSurfaceLocator() *MockSurfaceLocator {
	return &MockSurfaceLocator{surfaces: make(map[string]*MockSurface)}
}

// Add registers a surface for a viewport
func (l *MockSurfaceLocator) Add(viewportID string, s *MockSurface) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.surfaces[viewportID] = s
}

// Locate returns the registered surface
func (l *MockSurfaceLocator) Locate(ctx context.Context, viewportID string) (ports.Surface, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lookups = append(l.lookups, viewportID)

	s, ok := l.surfaces[viewportID]
	if !ok {
		return nil, fmt.Errorf("viewport %s: %w", viewportID, domain.ErrCaptureSurfaceNotFound)
	}
	return s, nil
}

// Lookups returns the viewport ids that were looked up
func (l *MockSurfaceLocator) Lookups() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lookups...)
}
