package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/internal/core/ports"
)

// Delivery hands archive payloads to the host's save mechanism
type Delivery struct {
	blobs   ports.BlobStore
	trigger ports.DownloadTrigger
}

// NewDelivery creates a new delivery orchestrator
func NewDelivery(blobs ports.BlobStore, trigger ports.DownloadTrigger) *Delivery {
	return &Delivery{
		blobs:   blobs,
		trigger: trigger,
	}
}

// SanitizeName replaces every rune that is not an ASCII letter or digit with '_'
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, name)
}

// Filename returns report_<sanitized patient>_<study date>.zip.
// The study date is used verbatim.
func Filename(patient domain.PatientIdentity, date domain.StudyDate) string {
	return fmt.Sprintf("%s_%s_%s.zip", domain.ArchivePrefix, SanitizeName(patient.Name), date.Value)
}

// Deliver saves the archive payload under the computed filename.
// The transient handle is released exactly once, whatever happens.
func (d *Delivery) Deliver(ctx context.Context, manifest *domain.ArchiveManifest, patient domain.PatientIdentity, date domain.StudyDate) (*domain.Delivery, error) {
	if d.blobs == nil || d.trigger == nil {
		return nil, domain.ErrDeliveryUnavailable
	}
	if manifest == nil || len(manifest.Payload) == 0 {
		return nil, fmt.Errorf("empty archive: %w", domain.ErrDeliveryUnavailable)
	}

	filename := Filename(patient, date)

	handle, err := d.blobs.Create(ctx, manifest.Payload, domain.MimeZip)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDeliveryUnavailable, err)
	}
	defer d.blobs.Revoke(handle)

	savedPath, err := d.trigger.Save(ctx, handle, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDeliveryUnavailable, err)
	}

	return &domain.Delivery{
		Filename:  filename,
		SavedPath: savedPath,
		Size:      len(manifest.Payload),
	}, nil
}
