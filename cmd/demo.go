package cmd

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/kamal-hamza/zx-cli/internal/adapters/session"
	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

const demoDocument = `<!doctype html>
<html>
<head><title>Viewer</title></head>
<body>
  <div class="viewport-grid">
    <div class="viewport" data-viewport-uid="viewport-1">
      <div class="overlay">DOE^JOHN</div>
      <canvas class="cornerstone-canvas" data-src="surfaces/viewport-1.png"></canvas>
    </div>
    <div class="viewport" data-viewport-uid="viewport-2">
      <canvas class="cornerstone-canvas" data-src="surfaces/viewport-2.png"></canvas>
    </div>
  </div>
</body>
</html>
`

// writeDemoSession lays out a two-viewport session in dir. Instance
// metadata uses the tag/vr form the viewer writes.
func writeDemoSession(dir string) error {
	store := session.NewStore(dir)

	sets := []*domain.DisplaySet{
		{
			DisplaySetInstanceUID: "1.2.826.0.1.3680043.8.498.1001",
			StudyInstanceUID:      "1.2.826.0.1.3680043.8.498.1",
			SeriesInstanceUID:     "1.2.826.0.1.3680043.8.498.1.1",
			Modality:              "CT",
			SeriesDescription:     "AXIAL 5mm",
			Instances: []domain.Metadata{
				demoInstance("DOE^JOHN", "20230101", "1.2.826.0.1.3680043.8.498.1", "CT", "AXIAL 5mm"),
			},
		},
		{
			DisplaySetInstanceUID: "1.2.826.0.1.3680043.8.498.2002",
			StudyInstanceUID:      "1.2.826.0.1.3680043.8.498.2",
			Modality:              "MR",
			SeriesDescription:     "T2 SAG",
			Instances: []domain.Metadata{
				demoInstance("ROE^JANE^M", "20240315", "1.2.826.0.1.3680043.8.498.2", "MR", "T2 SAG"),
			},
		},
	}
	for _, ds := range sets {
		if err := store.SaveDisplaySet(ds); err != nil {
			return err
		}
	}

	state := &domain.GridState{
		ActiveViewportID: "viewport-1",
		Viewports: []domain.Viewport{
			{
				ViewportID:             "viewport-1",
				DisplaySetInstanceUIDs: []string{sets[0].DisplaySetInstanceUID},
			},
			{
				ViewportID: "viewport-2",
				ViewportOptions: &domain.ViewportOptions{
					DisplaySetInstanceUIDs: []string{sets[1].DisplaySetInstanceUID},
				},
			},
		},
	}
	if err := store.SaveState(state); err != nil {
		return err
	}

	if err := os.WriteFile(store.DocumentPath(), []byte(demoDocument), 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	surfaces := filepath.Join(dir, session.SurfacesDir)
	if err := os.MkdirAll(surfaces, 0755); err != nil {
		return fmt.Errorf("failed to create surfaces directory: %w", err)
	}
	if err := writeDemoSurface(filepath.Join(surfaces, "viewport-1.png"), 256, 256, 0); err != nil {
		return err
	}
	return writeDemoSurface(filepath.Join(surfaces, "viewport-2.png"), 192, 256, 1)
}

func demoInstance(patient, date, study, modality, series string) domain.Metadata {
	return domain.Metadata{
		"00100010": map[string]any{"vr": "PN", "Value": []any{map[string]any{"Alphabetic": patient}}},
		"00080020": map[string]any{"vr": "DA", "Value": []any{date}},
		"0020000D": map[string]any{"vr": "UI", "Value": []any{study}},
		"00080060": map[string]any{"vr": "CS", "Value": []any{modality}},
		"0008103E": map[string]any{"vr": "LO", "Value": []any{series}},
	}
}

// writeDemoSurface draws a grayscale disc, the way a slice looks in a
// viewport, with a little transparency at the border
func writeDemoSurface(path string, w, h, variant int) error {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := w/2, h/2
	r := min(w, h) * 2 / 5
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := x-cx, y-cy
			d2 := dx*dx + dy*dy
			switch {
			case d2 <= r*r:
				v := uint8(255 - 200*d2/(r*r))
				if variant == 1 && (x/16+y/16)%2 == 0 {
					v /= 2
				}
				img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
			case x < 4 || y < 4 || x >= w-4 || y >= h-4:
				img.Set(x, y, color.NRGBA{A: 0})
			default:
				img.Set(x, y, color.NRGBA{R: 8, G: 8, B: 8, A: 255})
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create surface: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode surface: %w", err)
	}
	return nil
}
