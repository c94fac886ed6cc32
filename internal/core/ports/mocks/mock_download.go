package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

// MockBlobStore keeps payloads in memory and counts revocations
type MockBlobStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	next    int
	revokes map[string]int

	CreateErr error
}

// NewMockBlobStore creates an empty store
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		blobs:   make(map[string][]byte),
		revokes: make(map[string]int),
	}
}

// Create stores the payload
func (s *MockBlobStore) Create(ctx context.Context, payload []byte, mimeType string) (domain.BlobHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return domain.BlobHandle{}, s.CreateErr
	}

	s.next++
	id := fmt.Sprintf("blob-%d", s.next)
	s.blobs[id] = append([]byte(nil), payload...)
	return domain.BlobHandle{ID: id, MimeType: mimeType, Size: len(payload), Location: "mem://" + id}, nil
}

// Revoke releases the payload
func (s *MockBlobStore) Revoke(handle domain.BlobHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revokes[handle.ID]++
	delete(s.blobs, handle.ID)
	return nil
}

// Payload returns a live payload
func (s *MockBlobStore) Payload(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[id]
	return b, ok
}

// Live returns the number of payloads not yet revoked
func (s *MockBlobStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// Revocations returns how many times each handle was revoked
func (s *MockBlobStore) Revocations() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.revokes))
	for k, v := range s.revokes {
		out[k] = v
	}
	return out
}

// SavedFile is a payload captured by MockDownloadTrigger
type SavedFile struct {
	Filename string
	Data     []byte
}

// MockDownloadTrigger captures saved payloads from a MockBlobStore
type MockDownloadTrigger struct {
	mu    sync.Mutex
	store *MockBlobStore
	saved []SavedFile

	Err error
}

// NewMockDownloadTrigger creates a trigger reading from store
func NewMockDownloadTrigger(store *MockBlobStore) *MockDownloadTrigger {
	return &MockDownloadTrigger{store: store}
}

// Save copies the referenced payload
func (d *MockDownloadTrigger) Save(ctx context.Context, handle domain.BlobHandle, filename string) (string, error) {
	if d.Err != nil {
		return "", d.Err
	}
	data, ok := d.store.Payload(handle.ID)
	if !ok {
		return "", fmt.Errorf("blob %s already released", handle.ID)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.saved = append(d.saved, SavedFile{Filename: filename, Data: data})
	return "/downloads/" + filename, nil
}

// Saved returns everything saved so far
func (d *MockDownloadTrigger) Saved() []SavedFile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]SavedFile(nil), d.saved...)
}
