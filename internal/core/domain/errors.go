package domain

import "errors"

// Condition names a failure in the export taxonomy
type Condition string

const (
	ConditionNone                    Condition = ""
	ConditionExportInProgress        Condition = "ExportInProgress"
	ConditionNoActiveViewport        Condition = "NoActiveViewport"
	ConditionInvalidViewportState    Condition = "InvalidViewportState"
	ConditionNoDisplaySetsInViewport Condition = "NoDisplaySetsInViewport"
	ConditionDisplaySetNotFound      Condition = "DisplaySetNotFound"
	ConditionCaptureSurfaceNotFound  Condition = "CaptureSurfaceNotFound"
	ConditionCaptureEncodingFailed   Condition = "CaptureEncodingFailed"
	ConditionCaptureTimedOut         Condition = "CaptureTimedOut"
	ConditionArchiveGenerationFailed Condition = "ArchiveGenerationFailed"
	ConditionDeliveryUnavailable     Condition = "DeliveryUnavailable"
	ConditionUnknown                 Condition = "Unknown"
)

var (
	ErrExportInProgress        = errors.New("an export is already in progress")
	ErrNoActiveViewport        = errors.New("no active viewport")
	ErrInvalidViewportState    = errors.New("viewport state is unavailable")
	ErrNoDisplaySetsInViewport = errors.New("viewport has no display sets")
	ErrDisplaySetNotFound      = errors.New("display set not found")
	ErrCaptureSurfaceNotFound  = errors.New("rendering surface not found")
	ErrCaptureEncodingFailed   = errors.New("surface encoding produced no data")
	ErrCaptureTimedOut         = errors.New("surface encoding timed out")
	ErrArchiveGenerationFailed = errors.New("archive generation failed")
	ErrDeliveryUnavailable     = errors.New("save mechanism unavailable")
)

var conditions = []struct {
	err       error
	condition Condition
	message   string
}{
	{ErrExportInProgress, ConditionExportInProgress, "An export is already running. Please wait for it to finish."},
	{ErrNoActiveViewport, ConditionNoActiveViewport, "No active viewport found. Select a viewport and try again."},
	{ErrInvalidViewportState, ConditionInvalidViewportState, "The viewport state could not be read."},
	{ErrNoDisplaySetsInViewport, ConditionNoDisplaySetsInViewport, "The active viewport does not show any images."},
	{ErrDisplaySetNotFound, ConditionDisplaySetNotFound, "The images shown in the active viewport could not be found."},
	{ErrCaptureSurfaceNotFound, ConditionCaptureSurfaceNotFound, "Could not find the rendered image of the active viewport."},
	{ErrCaptureEncodingFailed, ConditionCaptureEncodingFailed, "Failed to capture the viewport image."},
	{ErrCaptureTimedOut, ConditionCaptureTimedOut, "Capturing the viewport image took too long."},
	{ErrArchiveGenerationFailed, ConditionArchiveGenerationFailed, "Failed to create the zip archive."},
	{ErrDeliveryUnavailable, ConditionDeliveryUnavailable, "Saving files is not available."},
}

// ConditionOf classifies an error into the export taxonomy
func ConditionOf(err error) Condition {
	if err == nil {
		return ConditionNone
	}
	for _, c := range conditions {
		if errors.Is(err, c.err) {
			return c.condition
		}
	}
	return ConditionUnknown
}

// Describe returns the user-facing sentence for a condition
func (c Condition) Describe() string {
	for _, entry := range conditions {
		if entry.condition == c {
			return entry.message
		}
	}
	if c == ConditionNone {
		return ""
	}
	return "The export failed unexpectedly."
}
