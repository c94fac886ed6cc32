package surface

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

// Raster is a surface backed by an image file
type Raster struct {
	path string
}

// NewRaster creates a surface over the image at path
func NewRaster(path string) *Raster {
	return &Raster{path: path}
}

// Path returns the backing image file
func (r *Raster) Path() string {
	return r.path
}

// Encode decodes the backing image and re-encodes it as requested.
// Only JPEG output is supported.
func (r *Raster) Encode(ctx context.Context, opts domain.EncodeOptions) ([]byte, error) {
	if opts.MimeType != domain.MimeJPEG {
		return nil, fmt.Errorf("unsupported output type %q", opts.MimeType)
	}
	if r.path == "" {
		return nil, fmt.Errorf("surface has no backing image")
	}

	img, err := Decode(r.path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: Quality(opts.Quality)}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads a png, jpeg or gif file
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open surface image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode surface image: %w", err)
	}
	return img, nil
}

// Quality maps a 0..1 encoder quality to the 1..100 jpeg scale
func Quality(q float64) int {
	v := int(math.Round(q * 100))
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}

// flatten composites transparent pixels onto black, which is what a
// canvas export to JPEG produces
func flatten(img image.Image) image.Image {
	switch img.(type) {
	case *image.YCbCr, *image.Gray:
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.Black, image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
