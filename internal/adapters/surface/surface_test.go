package surface

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

const testDocument = `<!doctype html>
<html><body>
  <div class="grid">
    <div data-viewport-uid="viewport-1">
      <div class="overlay"><span>DOE^JOHN</span></div>
      <canvas data-src="surfaces/viewport-1.png"></canvas>
      <canvas data-src="surfaces/ignored.png"></canvas>
    </div>
    <div data-viewport-uid="viewport-2"><p>loading</p></div>
    <div data-viewport-uid="viewport-3"><canvas></canvas></div>
  </div>
  <canvas data-src="surfaces/outside.png"></canvas>
</body></html>`

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 60), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func newTestDocument(t *testing.T) *DocumentLocator {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "document.html"), []byte(testDocument), 0644))
	writePNG(t, filepath.Join(root, "surfaces", "viewport-1.png"))
	return NewDocumentLocator(filepath.Join(root, "document.html"))
}

func TestSelector(t *testing.T) {
	assert.Equal(t, `[data-viewport-uid="viewport-1"] canvas`, Selector("viewport-1"))
}

func TestDocumentLocator_Locate(t *testing.T) {
	locator := newTestDocument(t)

	s, err := locator.Locate(context.Background(), "viewport-1")
	require.NoError(t, err)
	raster, ok := s.(*Raster)
	require.True(t, ok)
	assert.Equal(t, "viewport-1.png", filepath.Base(raster.Path()))

	// a host without a canvas is not a surface
	_, err = locator.Locate(context.Background(), "viewport-2")
	assert.ErrorIs(t, err, domain.ErrCaptureSurfaceNotFound)

	_, err = locator.Locate(context.Background(), "viewport-9")
	assert.ErrorIs(t, err, domain.ErrCaptureSurfaceNotFound)
}

func TestDocumentLocator_MissingDocument(t *testing.T) {
	locator := NewDocumentLocator(filepath.Join(t.TempDir(), "document.html"))

	_, err := locator.Locate(context.Background(), "viewport-1")
	assert.Equal(t, domain.ConditionCaptureSurfaceNotFound, domain.ConditionOf(err))
}

func TestDocumentLocator_Surfaces(t *testing.T) {
	infos, err := newTestDocument(t).Surfaces(context.Background())
	require.NoError(t, err)

	require.Len(t, infos, 2)
	assert.Equal(t, "viewport-1", infos[0].ViewportID)
	assert.Equal(t, "viewport-3", infos[1].ViewportID)
	assert.Empty(t, infos[1].Source)
}

func TestRaster_Encode(t *testing.T) {
	locator := newTestDocument(t)
	s, err := locator.Locate(context.Background(), "viewport-1")
	require.NoError(t, err)

	data, err := s.Encode(context.Background(), domain.EncodeOptions{MimeType: domain.MimeJPEG, Quality: 0.9})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
}

func TestRaster_EncodeFailures(t *testing.T) {
	locator := newTestDocument(t)
	jpegOpts := domain.EncodeOptions{MimeType: domain.MimeJPEG, Quality: 0.9}

	// canvas without a source, like a tainted canvas
	s, err := locator.Locate(context.Background(), "viewport-3")
	require.NoError(t, err)
	_, err = s.Encode(context.Background(), jpegOpts)
	assert.Error(t, err)

	_, err = NewRaster(filepath.Join(t.TempDir(), "missing.png")).Encode(context.Background(), jpegOpts)
	assert.Error(t, err)

	s, err = locator.Locate(context.Background(), "viewport-1")
	require.NoError(t, err)
	_, err = s.Encode(context.Background(), domain.EncodeOptions{MimeType: "image/webp", Quality: 0.9})
	assert.Error(t, err)
}

func TestQuality(t *testing.T) {
	tests := []struct {
		input    float64
		expected int
	}{
		{0.9, 90},
		{0.95, 95},
		{1, 100},
		{2, 100},
		{0, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Quality(tt.input), "Quality(%v)", tt.input)
	}
}
