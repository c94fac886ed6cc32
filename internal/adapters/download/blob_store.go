package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

var extensions = map[string]string{
	domain.MimeZip:  ".zip",
	domain.MimeJPEG: ".jpg",
}

// FileBlobStore keeps transient payloads as files in a cache directory.
// A handle stays valid until it is revoked.
type FileBlobStore struct {
	dir  string
	mu   sync.Mutex
	live map[string]string
}

// NewFileBlobStore creates a store writing into dir
func NewFileBlobStore(dir string) *FileBlobStore {
	return &FileBlobStore{
		dir:  dir,
		live: make(map[string]string),
	}
}

// Create writes the payload under a fresh random name
func (s *FileBlobStore) Create(ctx context.Context, payload []byte, mimeType string) (domain.BlobHandle, error) {
	if err := ctx.Err(); err != nil {
		return domain.BlobHandle{}, err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return domain.BlobHandle{}, fmt.Errorf("failed to create blob directory: %w", err)
	}

	id := uuid.NewString()
	path := filepath.Join(s.dir, "blob-"+id+extensions[mimeType])
	if err := os.WriteFile(path, payload, 0600); err != nil {
		return domain.BlobHandle{}, fmt.Errorf("failed to write blob: %w", err)
	}

	s.mu.Lock()
	s.live[id] = path
	s.mu.Unlock()

	return domain.BlobHandle{
		ID:       id,
		MimeType: mimeType,
		Size:     len(payload),
		Location: path,
	}, nil
}

// Revoke deletes the payload. Revoking twice is harmless.
func (s *FileBlobStore) Revoke(handle domain.BlobHandle) error {
	s.mu.Lock()
	path, ok := s.live[handle.ID]
	delete(s.live, handle.ID)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release blob %s: %w", handle.ID, err)
	}
	return nil
}

// Live returns the number of handles not yet revoked
func (s *FileBlobStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}
