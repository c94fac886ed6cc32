package domain

const (
	ImageEntryName    = "image.jpg"
	MetadataEntryName = "metadata.json"

	MimeJPEG      = "image/jpeg"
	MimeZip       = "application/zip"
	JPEGQuality   = 0.9
	ArchivePrefix = "report"
)

// EncodeOptions describes how a rendering surface should be encoded
type EncodeOptions struct {
	MimeType string
	Quality  float64 // 0..1
}

// CapturedImage is a rendered snapshot of a viewport
type CapturedImage struct {
	Data     []byte
	MimeType string
	Quality  float64
}

// ArchiveEntry is a single named file inside the archive
type ArchiveEntry struct {
	Name string
	Data []byte
}

// ArchiveManifest is the deliverable: the ordered entries plus the packed payload
type ArchiveManifest struct {
	Entries []ArchiveEntry
	Payload []byte
}

// ArchiveMetadata is the content of metadata.json. Field order is part of the format.
type ArchiveMetadata struct {
	PatientName           string `json:"PatientName"`
	StudyDate             string `json:"StudyDate"`
	StudyInstanceUID      string `json:"StudyInstanceUID"`
	DisplaySetInstanceUID string `json:"DisplaySetInstanceUID"`
	ExportTimestamp       string `json:"ExportTimestamp"`
}

// BlobHandle is a transient reference to an in-flight payload
type BlobHandle struct {
	ID       string
	MimeType string
	Size     int
	Location string // adapter specific (temp file path, memory key, ...)
}

// Delivery describes a payload that has been handed to the save mechanism
type Delivery struct {
	Filename  string
	SavedPath string
	Size      int
}
