package ports

import (
	"context"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

// Notifier defines the port for user-facing notifications (fire and forget)
type Notifier interface {
	Show(n domain.Notification)
}

// ViewportGridService defines the port for reading the host's viewport grid
type ViewportGridService interface {
	// ActiveViewportID returns the id of the focused viewport, if any
	ActiveViewportID() (string, bool)

	// State returns the current grid state, if available
	State() (*domain.GridState, bool)
}

// DisplaySetService defines the port for display set lookup
type DisplaySetService interface {
	// DisplaySetByUID returns the display set with the given identifier, if any
	DisplaySetByUID(uid string) (*domain.DisplaySet, bool)
}

// Surface is the drawable area a viewport renders into
type Surface interface {
	// Encode encodes the current contents of the surface.
	// It may block until the encoding completes.
	Encode(ctx context.Context, opts domain.EncodeOptions) ([]byte, error)
}

// SurfaceLocator defines the port for finding the rendering surface of a viewport
type SurfaceLocator interface {
	// Locate returns the surface of the viewport, or an error wrapping
	// domain.ErrCaptureSurfaceNotFound when there is none
	Locate(ctx context.Context, viewportID string) (Surface, error)
}

// BlobStore defines the port for transient payload references
type BlobStore interface {
	// Create registers the payload and returns a transient handle to it
	Create(ctx context.Context, payload []byte, mimeType string) (domain.BlobHandle, error)

	// Revoke releases the handle. Callers revoke each handle exactly once.
	Revoke(handle domain.BlobHandle) error
}

// DownloadTrigger defines the port for the host's file-save mechanism
type DownloadTrigger interface {
	// Save initiates a user-facing save of the referenced payload
	Save(ctx context.Context, handle domain.BlobHandle, filename string) (string, error)
}

// HistoryRepository defines the port for persisting finished export runs
type HistoryRepository interface {
	// Append records a finished run
	Append(ctx context.Context, result domain.ExportResult) error

	// List returns recorded runs, newest first
	List(ctx context.Context) ([]domain.ExportResult, error)
}
