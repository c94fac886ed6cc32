package services

import "github.com/kamal-hamza/zx-cli/internal/core/domain"

// StudyDateExtractor resolves the study date of an export context
type StudyDateExtractor struct{}

// NewStudyDateExtractor creates a new study date extractor
func NewStudyDateExtractor() *StudyDateExtractor {
	return &StudyDateExtractor{}
}

// Extract reads StudyDate from the first instance, then from the display
// set's representative instance, and defaults to Unknown_Date
func (e *StudyDateExtractor) Extract(first domain.Metadata, displaySet *domain.DisplaySet) domain.StudyDate {
	if date, ok := first.String("StudyDate"); ok {
		return domain.StudyDate{Value: date}
	}
	if displaySet != nil {
		if date, ok := displaySet.Instance.String("StudyDate"); ok {
			return domain.StudyDate{Value: date}
		}
	}
	return domain.StudyDate{Value: domain.UnknownDate, Defaulted: true}
}
