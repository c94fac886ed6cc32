package domain

import "time"

// Phase is a state of the export state machine
type Phase string

const (
	PhaseInit               Phase = "Init"
	PhaseResolvingContext   Phase = "ResolvingContext"
	PhaseExtractingMetadata Phase = "ExtractingMetadata"
	PhaseCapturingImage     Phase = "CapturingImage"
	PhaseBuildingArchive    Phase = "BuildingArchive"
	PhaseDelivering         Phase = "Delivering"
	PhaseSucceeded          Phase = "Succeeded"
	PhaseFailed             Phase = "Failed"
)

// Terminal reports whether no transition leaves the phase
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// Progress returns the user-facing description shown when the phase begins
func (p Phase) Progress() string {
	switch p {
	case PhaseResolvingContext:
		return "Resolving active viewport..."
	case PhaseExtractingMetadata:
		return "Extracting metadata..."
	case PhaseCapturingImage:
		return "Capturing viewport image..."
	case PhaseBuildingArchive:
		return "Creating archive..."
	case PhaseDelivering:
		return "Saving archive..."
	}
	return ""
}

// Status is the outcome of an export run
type Status string

const (
	StatusSucceeded Status = "Succeeded"
	StatusFailed    Status = "Failed"
)

// ExportResult is the terminal record of one export run
type ExportResult struct {
	ID         string    `json:"id"`
	Status     Status    `json:"status"`
	Phase      Phase     `json:"phase,omitempty"` // failing phase
	Condition  Condition `json:"condition,omitempty"`
	Message    string    `json:"message"`
	Filename   string    `json:"filename,omitempty"`
	SavedPath  string    `json:"saved_path,omitempty"`
	Trace      []Phase   `json:"trace"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Succeeded reports whether the run delivered an archive
func (r *ExportResult) Succeeded() bool {
	return r != nil && r.Status == StatusSucceeded
}

// NotificationType is the severity of a notification
type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
)

// Notification is a fire-and-forget message for the user
type Notification struct {
	Title    string
	Message  string
	Type     NotificationType
	Duration time.Duration
}
