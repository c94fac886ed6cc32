package mocks

import (
	"sync"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

// MockViewer is an in-memory implementation of ViewportGridService and
// DisplaySetService for testing
type MockViewer struct {
	mu          sync.RWMutex
	activeID    string
	state       *domain.GridState
	displaySets map[string]*domain.DisplaySet

	// StateCalls counts State() invocations
	StateCalls int
}

// NewMockViewer creates an empty viewer without an active viewport or state
func NewMockViewer() *MockViewer {
	return &MockViewer{
		displaySets: make(map[string]*domain.DisplaySet),
	}
}

// SetActiveViewport sets the focused viewport id ("" clears it)
func (m *MockViewer) SetActiveViewport(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeID = id
}

// SetState replaces the grid state (nil makes it unavailable)
func (m *MockViewer) SetState(state *domain.GridState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

// AddDisplaySet registers a display set under its uid
func (m *MockViewer) AddDisplaySet(ds *domain.DisplaySet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.displaySets[ds.DisplaySetInstanceUID] = ds
}

// ActiveViewportID returns the focused viewport id
func (m *MockViewer) ActiveViewportID() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeID, m.activeID != ""
}

// State returns the grid state
func (m *MockViewer) State() (*domain.GridState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StateCalls++
	return m.state, m.state != nil
}

// DisplaySetByUID looks up a display set
func (m *MockViewer) DisplaySetByUID(uid string) (*domain.DisplaySet, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ds, ok := m.displaySets[uid]
	return ds, ok
}
