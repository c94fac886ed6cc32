package domain

import "strings"

const (
	UnknownPatient = "Unknown_Patient"
	UnknownDate    = "Unknown_Date"

	// PlaceholderText is what a generic object prints as when it has no
	// meaningful string form. It never counts as a name.
	PlaceholderText = "[object Object]"
)

// NameSource records which tier of the fallback chain produced a patient name
type NameSource string

const (
	NameFromString  NameSource = "string"
	NameFromJSON    NameSource = "json"
	NameFromIndex   NameSource = "index"
	NameFromDefault NameSource = "default"
)

// PatientIdentity is the canonical patient label
type PatientIdentity struct {
	Name   string
	Source NameSource
}

// StudyDate is the canonical study date label
type StudyDate struct {
	Value     string
	Defaulted bool
}

// JSONValuer is implemented by values that can convert themselves to a
// JSON-compatible representation (string, map[string]any, []any, ...)
type JSONValuer interface {
	JSONValue() (any, error)
}

// Indexer is implemented by array-like values
type Indexer interface {
	At(i int) (any, bool)
}

// PersonName is one component group of a DICOM PN value
type PersonName struct {
	Alphabetic  string `json:"Alphabetic,omitempty"`
	Ideographic string `json:"Ideographic,omitempty"`
	Phonetic    string `json:"Phonetic,omitempty"`
}

// Fields returns the person name as a plain object
func (p PersonName) Fields() map[string]any {
	out := map[string]any{}
	if p.Alphabetic != "" {
		out["Alphabetic"] = p.Alphabetic
	}
	if p.Ideographic != "" {
		out["Ideographic"] = p.Ideographic
	}
	if p.Phonetic != "" {
		out["Phonetic"] = p.Phonetic
	}
	return out
}

// PatientName is a (possibly multi-valued) person name attribute.
// It exposes string conversion, JSON conversion and indexed access.
type PatientName []PersonName

// String joins the alphabetic components with the DICOM value separator.
// A name without any alphabetic component prints as the placeholder text.
func (n PatientName) String() string {
	parts := make([]string, 0, len(n))
	for _, p := range n {
		if p.Alphabetic != "" {
			parts = append(parts, p.Alphabetic)
		}
	}
	if len(parts) == 0 {
		return PlaceholderText
	}
	return strings.Join(parts, `\`)
}

// JSONValue returns the single component as an object, or all of them as a list
func (n PatientName) JSONValue() (any, error) {
	switch len(n) {
	case 0:
		return nil, nil
	case 1:
		return n[0].Fields(), nil
	}
	out := make([]any, len(n))
	for i, p := range n {
		out[i] = p.Fields()
	}
	return out, nil
}

// At returns component i as a plain object
func (n PatientName) At(i int) (any, bool) {
	if i < 0 || i >= len(n) {
		return nil, false
	}
	return n[i].Fields(), true
}
