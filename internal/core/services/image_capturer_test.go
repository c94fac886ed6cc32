package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/internal/core/ports/mocks"
)

func TestImageCapturer_Capture(t *testing.T) {
	tests := []struct {
		name      string
		surface   *mocks.MockSurface
		viewport  string
		timeout   time.Duration
		condition domain.Condition
	}{
		{
			name:     "encodes surface",
			surface:  &mocks.MockSurface{Data: []byte{0xFF, 0xD8, 0xFF}},
			viewport: testViewportID,
		},
		{
			name:      "surface missing",
			surface:   &mocks.MockSurface{Data: []byte{1}},
			viewport:  "other-viewport",
			condition: domain.ConditionCaptureSurfaceNotFound,
		},
		{
			name:      "encoder returns nothing",
			surface:   &mocks.MockSurface{},
			viewport:  testViewportID,
			condition: domain.ConditionCaptureEncodingFailed,
		},
		{
			name:      "encoder errors",
			surface:   &mocks.MockSurface{Err: errors.New("tainted canvas")},
			viewport:  testViewportID,
			condition: domain.ConditionCaptureEncodingFailed,
		},
		{
			name:      "encoder never answers",
			surface:   &mocks.MockSurface{Data: []byte{1}, Block: make(chan struct{})},
			viewport:  testViewportID,
			timeout:   20 * time.Millisecond,
			condition: domain.ConditionCaptureTimedOut,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator := mocks.NewMockSurfaceLocator()
			locator.Add(testViewportID, tt.surface)
			capturer := NewImageCapturer(locator, tt.timeout)

			img, err := capturer.Capture(context.Background(), tt.viewport)
			if tt.condition != domain.ConditionNone {
				require.Error(t, err)
				assert.Nil(t, img)
				assert.Equal(t, tt.condition, domain.ConditionOf(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.surface.Data, img.Data)
			assert.Equal(t, domain.MimeJPEG, img.MimeType)
			assert.Equal(t, 0.9, img.Quality)
			assert.Equal(t, domain.EncodeOptions{MimeType: domain.MimeJPEG, Quality: 0.9}, tt.surface.LastOptions())
		})
	}
}

func TestImageCapturer_ContextCancelled(t *testing.T) {
	locator := mocks.NewMockSurfaceLocator()
	locator.Add(testViewportID, &mocks.MockSurface{Data: []byte{1}, Block: make(chan struct{})})
	capturer := NewImageCapturer(locator, 0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := capturer.Capture(ctx, testViewportID)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
