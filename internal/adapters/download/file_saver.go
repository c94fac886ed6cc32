package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

// ErrNoOutputDir is returned when no download directory is configured
var ErrNoOutputDir = errors.New("no output directory configured")

// maxCollisions bounds the " (n)" suffix search
const maxCollisions = 1000

// FileSaver plays the role of a browser download: it copies a blob into
// the output directory under the suggested name
type FileSaver struct {
	dir       string
	overwrite bool
}

// NewFileSaver creates a saver writing into dir. Unless overwrite is set,
// an existing file is kept and the new one gets a " (n)" suffix.
func NewFileSaver(dir string, overwrite bool) *FileSaver {
	return &FileSaver{
		dir:       dir,
		overwrite: overwrite,
	}
}

// Save copies the blob and returns the path written
func (f *FileSaver) Save(ctx context.Context, handle domain.BlobHandle, filename string) (string, error) {
	if f.dir == "" {
		return "", ErrNoOutputDir
	}
	filename = SafeName(filename)
	if filename == "" || filename == "." || filename == ".." {
		return "", fmt.Errorf("invalid download name %q", filename)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := os.Open(handle.Location)
	if err != nil {
		return "", fmt.Errorf("blob %s is not readable: %w", handle.ID, err)
	}
	defer src.Close()

	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, ".zx-download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create download file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write download: %w", err)
	}

	target := filepath.Join(f.dir, filename)
	if f.overwrite {
		if err := os.Rename(tmpName, target); err != nil {
			return "", fmt.Errorf("failed to save %s: %w", filename, err)
		}
		return target, nil
	}

	// Link fails when the name is taken, so a concurrent save never clobbers
	for n := 0; n < maxCollisions; n++ {
		candidate := filepath.Join(f.dir, NumberedName(filename, n))
		err := os.Link(tmpName, candidate)
		if err == nil {
			return candidate, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("failed to save %s: %w", filename, err)
		}
	}
	return "", fmt.Errorf("failed to save %s: too many files with the same name", filename)
}

// SafeName replaces path separators the way a browser download does, so a
// name such as "report_A_2023/01/01.zip" stays inside the output directory
func SafeName(name string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}

// NumberedName returns name for n == 0, else name with " (n)" before the extension
func NumberedName(name string, n int) string {
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n, ext)
}
