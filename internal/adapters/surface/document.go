package surface

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/internal/core/ports"
)

const (
	// ViewportAttr marks the element that hosts a viewport
	ViewportAttr = "data-viewport-uid"
	// SourceAttr points a canvas at the raster holding its pixels
	SourceAttr = "data-src"
)

// Selector is the viewport-scoped lookup the locator performs
func Selector(viewportID string) string {
	return fmt.Sprintf(`[%s="%s"] canvas`, ViewportAttr, viewportID)
}

// Info describes one drawable surface found in the document
type Info struct {
	ViewportID string
	Source     string
}

// DocumentLocator finds viewport surfaces in a snapshot of the rendered
// viewer document. Raster paths are resolved against the document directory.
type DocumentLocator struct {
	path string
}

// NewDocumentLocator creates a locator over the document at path
func NewDocumentLocator(path string) *DocumentLocator {
	return &DocumentLocator{path: path}
}

// Locate returns the first canvas inside the element whose viewport
// attribute equals viewportID
func (l *DocumentLocator) Locate(ctx context.Context, viewportID string) (ports.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := l.parse()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", Selector(viewportID), domain.ErrCaptureSurfaceNotFound, err)
	}

	for _, host := range findAll(doc, func(n *html.Node) bool {
		v, ok := attr(n, ViewportAttr)
		return ok && v == viewportID
	}) {
		if canvas := findFirst(host, isCanvas); canvas != nil {
			src, _ := attr(canvas, SourceAttr)
			return NewRaster(l.resolve(src)), nil
		}
	}

	return nil, fmt.Errorf("%s: %w", Selector(viewportID), domain.ErrCaptureSurfaceNotFound)
}

// Surfaces lists every viewport that hosts a canvas, in document order
func (l *DocumentLocator) Surfaces(ctx context.Context) ([]Info, error) {
	doc, err := l.parse()
	if err != nil {
		return nil, err
	}

	var out []Info
	seen := make(map[string]bool)
	for _, host := range findAll(doc, func(n *html.Node) bool {
		_, ok := attr(n, ViewportAttr)
		return ok
	}) {
		id, _ := attr(host, ViewportAttr)
		if seen[id] {
			continue
		}
		canvas := findFirst(host, isCanvas)
		if canvas == nil {
			continue
		}
		seen[id] = true
		src, _ := attr(canvas, SourceAttr)
		out = append(out, Info{ViewportID: id, Source: l.resolve(src)})
	}
	return out, nil
}

func (l *DocumentLocator) parse() (*html.Node, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

func (l *DocumentLocator) resolve(src string) string {
	src = strings.TrimSpace(src)
	if src == "" || filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(filepath.Dir(l.path), filepath.FromSlash(src))
}

func isCanvas(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Canvas
}

func attr(n *html.Node, key string) (string, bool) {
	if n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// findAll walks the tree in document order
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// findFirst returns the first strict descendant matching
func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}
