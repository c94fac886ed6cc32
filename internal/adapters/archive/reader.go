package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

// maxEntrySize bounds how much of a single entry is read into memory
const maxEntrySize = 256 << 20

// EntryInfo describes one zip entry
type EntryInfo struct {
	Name           string
	Method         uint16
	Size           uint64
	CompressedSize uint64
}

// MethodName returns a readable compression method name
func (e EntryInfo) MethodName() string {
	switch e.Method {
	case zip.Store:
		return "store"
	case zip.Deflate:
		return "deflate"
	}
	return fmt.Sprintf("method %d", e.Method)
}

// Archive is a read back export archive
type Archive struct {
	Path        string
	Entries     []EntryInfo
	Image       []byte
	RawMetadata []byte
	Metadata    *domain.ArchiveMetadata
}

// Open reads an export archive from disk
func Open(path string) (*Archive, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	a, err := read(&r.Reader)
	if err != nil {
		return nil, err
	}
	a.Path = path
	return a, nil
}

// Read parses an export archive held in memory
func Read(payload []byte) (*Archive, error) {
	r, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	return read(r)
}

func read(r *zip.Reader) (*Archive, error) {
	a := &Archive{Entries: make([]EntryInfo, 0, len(r.File))}

	for _, f := range r.File {
		a.Entries = append(a.Entries, EntryInfo{
			Name:           f.Name,
			Method:         f.Method,
			Size:           f.UncompressedSize64,
			CompressedSize: f.CompressedSize64,
		})

		switch f.Name {
		case domain.ImageEntryName:
			data, err := readEntry(f)
			if err != nil {
				return nil, err
			}
			a.Image = data
		case domain.MetadataEntryName:
			data, err := readEntry(f)
			if err != nil {
				return nil, err
			}
			a.RawMetadata = data

			var meta domain.ArchiveMetadata
			if err := json.Unmarshal(data, &meta); err != nil {
				return nil, fmt.Errorf("invalid %s: %w", domain.MetadataEntryName, err)
			}
			a.Metadata = &meta
		}
	}
	return a, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("%s is larger than %d bytes", f.Name, maxEntrySize)
	}
	return data, nil
}

// Problems lists every way the archive differs from the export layout:
// exactly image.jpg then metadata.json, with every metadata field set
func (a *Archive) Problems() []string {
	var problems []string

	expected := []string{domain.ImageEntryName, domain.MetadataEntryName}
	if len(a.Entries) != len(expected) {
		problems = append(problems, fmt.Sprintf("expected %d entries, found %d", len(expected), len(a.Entries)))
	}
	for i, name := range expected {
		if i < len(a.Entries) && a.Entries[i].Name != name {
			problems = append(problems, fmt.Sprintf("entry %d is %q, expected %q", i+1, a.Entries[i].Name, name))
		}
	}

	if len(a.Image) == 0 {
		problems = append(problems, "image entry is missing or empty")
	} else if !bytes.HasPrefix(a.Image, []byte{0xFF, 0xD8}) {
		problems = append(problems, "image entry is not a JPEG")
	}

	if a.Metadata == nil {
		return append(problems, "metadata entry is missing")
	}
	required := []struct{ field, value string }{
		{"PatientName", a.Metadata.PatientName},
		{"StudyDate", a.Metadata.StudyDate},
		{"DisplaySetInstanceUID", a.Metadata.DisplaySetInstanceUID},
		{"ExportTimestamp", a.Metadata.ExportTimestamp},
	}
	for _, r := range required {
		if r.value == "" {
			problems = append(problems, r.field+" is empty")
		}
	}
	return problems
}
