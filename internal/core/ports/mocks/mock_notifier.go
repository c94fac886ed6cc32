package mocks

import (
	"context"
	"sync"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

// MockNotifier records notifications in order
type MockNotifier struct {
	mu    sync.Mutex
	shown []domain.Notification
}

// NewMockNotifier creates an empty notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Show records the notification
func (n *MockNotifier) Show(notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shown = append(n.shown, notification)
}

// Shown returns all recorded notifications
func (n *MockNotifier) Shown() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.shown...)
}

// OfType returns recorded notifications of one type
func (n *MockNotifier) OfType(t domain.NotificationType) []domain.Notification {
	var out []domain.Notification
	for _, s := range n.Shown() {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// MockHistoryRepository keeps export results in memory
type MockHistoryRepository struct {
	mu      sync.Mutex
	results []domain.ExportResult
}

// NewMockHistoryRepository creates an empty repository
func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{}
}

// Append records a result
func (r *MockHistoryRepository) Append(ctx context.Context, result domain.ExportResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append([]domain.ExportResult{result}, r.results...)
	return nil
}

// List returns results newest first
func (r *MockHistoryRepository) List(ctx context.Context) ([]domain.ExportResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ExportResult(nil), r.results...), nil
}
