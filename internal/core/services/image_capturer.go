package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/internal/core/ports"
)

// ImageCapturer encodes the rendering surface of a viewport into a JPEG
type ImageCapturer struct {
	locator ports.SurfaceLocator
	timeout time.Duration // 0 waits until the surface answers
}

// NewImageCapturer creates a new image capturer
func NewImageCapturer(locator ports.SurfaceLocator, timeout time.Duration) *ImageCapturer {
	return &ImageCapturer{
		locator: locator,
		timeout: timeout,
	}
}

type encodeResult struct {
	data []byte
	err  error
}

// Capture locates the viewport's surface and waits for it to encode
func (c *ImageCapturer) Capture(ctx context.Context, viewportID string) (*domain.CapturedImage, error) {
	surface, err := c.locator.Locate(ctx, viewportID)
	if err != nil {
		return nil, err
	}
	if surface == nil {
		return nil, fmt.Errorf("viewport %s: %w", viewportID, domain.ErrCaptureSurfaceNotFound)
	}

	opts := domain.EncodeOptions{MimeType: domain.MimeJPEG, Quality: domain.JPEGQuality}

	encodeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so the encoder never blocks after we stop waiting
	done := make(chan encodeResult, 1)
	go func() {
		data, err := surface.Encode(encodeCtx, opts)
		done <- encodeResult{data: data, err: err}
	}()

	var timeout <-chan time.Time
	if c.timeout > 0 {
		timer := time.NewTimer(c.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case res := <-done:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if res.err != nil {
			return nil, fmt.Errorf("viewport %s: %w: %v", viewportID, domain.ErrCaptureEncodingFailed, res.err)
		}
		if len(res.data) == 0 {
			return nil, fmt.Errorf("viewport %s: %w", viewportID, domain.ErrCaptureEncodingFailed)
		}
		return &domain.CapturedImage{
			Data:     res.data,
			MimeType: opts.MimeType,
			Quality:  opts.Quality,
		}, nil
	case <-timeout:
		return nil, fmt.Errorf("viewport %s after %s: %w", viewportID, c.timeout, domain.ErrCaptureTimedOut)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
