package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/zx-cli/internal/adapters/archive"
)

var previewCmd = &cobra.Command{
	Use:   "preview [archive.zip]",
	Short: "Show the captured image of an export in the terminal",
	Long: `Render the image.jpg of an export archive with half-block characters.

Without an argument the most recent successful export is shown.
Press q or Esc to quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	path, err := resolveArchivePath(args)
	if err != nil {
		return err
	}

	a, err := archive.Open(path)
	if err != nil {
		return err
	}
	if len(a.Image) == 0 {
		return fmt.Errorf("%s has no image entry", path)
	}

	img, err := jpeg.Decode(bytes.NewReader(a.Image))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	view, err := NewImagePreview(img, path)
	if err != nil {
		return err
	}
	return view.Run()
}

// ImagePreview draws an image on a tcell screen, two pixels per cell
type ImagePreview struct {
	img    image.Image
	title  string
	screen tcell.Screen
	width  int
	height int
}

// NewImagePreview creates a new preview on the terminal screen
func NewImagePreview(img image.Image, title string) (*ImagePreview, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}

	width, height := screen.Size()

	return &ImagePreview{
		img:    img,
		title:  title,
		screen: screen,
		width:  width,
		height: height,
	}, nil
}

// Run shows the preview until the user quits
func (v *ImagePreview) Run() error {
	defer v.screen.Fini()

	v.screen.Clear()
	v.render()

	for {
		ev := v.screen.PollEvent()

		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.width, v.height = ev.Size()
			v.screen.Sync()
			v.render()

		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}
		}
	}
}

func (v *ImagePreview) render() {
	v.screen.Clear()

	header := fmt.Sprintf("%s  (%dx%d)", v.title, v.img.Bounds().Dx(), v.img.Bounds().Dy())
	v.drawText(0, 0, header, tcell.StyleDefault.Bold(true).Foreground(tcell.ColorPurple))
	v.drawText(0, v.height-1, "q: quit", tcell.StyleDefault.Foreground(tcell.ColorGray))

	cols, rows := fitCells(v.img.Bounds(), v.width, v.height-2)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := sampleCell(v.img, col, row*2, cols, rows*2)
			bottom := sampleCell(v.img, col, row*2+1, cols, rows*2)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			v.screen.SetContent(col, row+1, '▀', nil, style)
		}
	}

	v.screen.Show()
}

func (v *ImagePreview) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= v.width {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// fitCells scales the image into maxCols x maxRows cells, keeping the
// aspect ratio. Each cell covers one pixel column and two pixel rows.
func fitCells(bounds image.Rectangle, maxCols, maxRows int) (int, int) {
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}

	cols := maxCols
	rows := (h * cols) / (w * 2)
	if rows > maxRows {
		rows = maxRows
		cols = (w * rows * 2) / h
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// sampleCell picks the nearest source pixel for position (x, y) of a
// cols x pixelRows grid
func sampleCell(img image.Image, x, y, cols, pixelRows int) tcell.Color {
	b := img.Bounds()
	sx := b.Min.X + x*b.Dx()/cols
	sy := b.Min.Y + y*b.Dy()/pixelRows
	r, g, bl, _ := img.At(sx, sy).RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(bl>>8))
}
