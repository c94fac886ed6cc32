package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

// TimestampLayout is ISO-8601 UTC with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ArchiveFields are the values written to metadata.json
type ArchiveFields struct {
	Patient               domain.PatientIdentity
	StudyDate             domain.StudyDate
	StudyInstanceUID      string
	DisplaySetInstanceUID string
}

// ArchiveBuilder packs the captured image and its metadata into a zip
type ArchiveBuilder struct {
	now  func() time.Time
	pack func(entries []domain.ArchiveEntry, modified time.Time) ([]byte, error)
}

// NewArchiveBuilder creates a builder stamping archives with now()
func NewArchiveBuilder(now func() time.Time) *ArchiveBuilder {
	if now == nil {
		now = time.Now
	}
	return &ArchiveBuilder{
		now:  now,
		pack: packZip,
	}
}

// Build assembles image.jpg and metadata.json, in that order
func (b *ArchiveBuilder) Build(ctx context.Context, img *domain.CapturedImage, fields ArchiveFields) (*domain.ArchiveManifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img == nil || len(img.Data) == 0 {
		return nil, fmt.Errorf("no image to pack: %w", domain.ErrArchiveGenerationFailed)
	}

	// Stamped here, not when the export started
	builtAt := b.now().UTC()

	meta, err := encodeMetadata(domain.ArchiveMetadata{
		PatientName:           fields.Patient.Name,
		StudyDate:             fields.StudyDate.Value,
		StudyInstanceUID:      fields.StudyInstanceUID,
		DisplaySetInstanceUID: fields.DisplaySetInstanceUID,
		ExportTimestamp:       builtAt.Format(TimestampLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArchiveGenerationFailed, err)
	}

	entries := []domain.ArchiveEntry{
		{Name: domain.ImageEntryName, Data: img.Data},
		{Name: domain.MetadataEntryName, Data: meta},
	}

	payload, err := b.pack(entries, builtAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArchiveGenerationFailed, err)
	}

	return &domain.ArchiveManifest{
		Entries: entries,
		Payload: payload,
	}, nil
}

// encodeMetadata renders metadata.json with two-space indentation
func encodeMetadata(meta domain.ArchiveMetadata) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func packZip(entries []domain.ArchiveEntry, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, entry := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     entry.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", entry.Name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("write %s: %w", entry.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
