package services

import (
	"errors"
	"fmt"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

var errNoName = errors.New("no usable name")

// nameProbe inspects a patient name value and returns a candidate name
type nameProbe struct {
	source domain.NameSource
	probe  func(v any) (string, error)
}

// IdentityExtractor resolves a human-readable patient name through a fixed,
// priority-ordered list of probes. The first acceptable result wins.
type IdentityExtractor struct {
	probes []nameProbe
}

// NewIdentityExtractor creates an extractor with the standard probe order:
// string conversion, JSON conversion, indexed access
func NewIdentityExtractor() *IdentityExtractor {
	return &IdentityExtractor{
		probes: []nameProbe{
			{source: domain.NameFromString, probe: probeString},
			{source: domain.NameFromJSON, probe: probeJSON},
			{source: domain.NameFromIndex, probe: probeIndex},
		},
	}
}

// Extract returns the patient identity for the instance metadata. It never
// fails: when no probe yields a name the identity is Unknown_Patient.
func (e *IdentityExtractor) Extract(meta domain.Metadata) domain.PatientIdentity {
	value, ok := meta.Value("PatientName")
	if ok {
		for _, p := range e.probes {
			name, err := runProbe(p.probe, value)
			if err != nil {
				continue
			}
			return domain.PatientIdentity{Name: name, Source: p.source}
		}
	}
	return domain.PatientIdentity{Name: domain.UnknownPatient, Source: domain.NameFromDefault}
}

// runProbe converts a panic inside a probe into an ordinary miss
func runProbe(probe func(any) (string, error), v any) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			name, err = "", fmt.Errorf("probe panicked: %v", r)
		}
	}()

	name, err = probe(v)
	if err == nil && name == "" {
		err = errNoName
	}
	return name, err
}

// probeString rejects the generic placeholder text a proxy object converts to.
// Later tiers take any non-empty string.
func probeString(v any) (string, error) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		return "", errNoName
	}
	if s == domain.PlaceholderText {
		return "", errNoName
	}
	return s, nil
}

func probeJSON(v any) (string, error) {
	j, ok := v.(domain.JSONValuer)
	if !ok {
		return "", errNoName
	}
	out, err := j.JSONValue()
	if err != nil {
		return "", err
	}
	if s, ok := out.(string); ok && s != "" {
		return s, nil
	}
	return field(out, "Alphabetic")
}

func probeIndex(v any) (string, error) {
	var first any
	switch t := v.(type) {
	case domain.Indexer:
		el, ok := t.At(0)
		if !ok {
			return "", errNoName
		}
		first = el
	case []any:
		if len(t) == 0 {
			return "", errNoName
		}
		first = t[0]
	case []string:
		if len(t) == 0 {
			return "", errNoName
		}
		first = t[0]
	default:
		return "", errNoName
	}

	if s, ok := first.(string); ok {
		return s, nil
	}
	if name, err := field(first, "Alphabetic"); err == nil && name != "" {
		return name, nil
	}
	return field(first, "value")
}

// field reads a string field from an object-like value
func field(v any, key string) (string, error) {
	switch t := v.(type) {
	case map[string]any:
		if s, ok := t[key].(string); ok {
			return s, nil
		}
	case map[string]string:
		if s, ok := t[key]; ok {
			return s, nil
		}
	case domain.PersonName:
		if key == "Alphabetic" {
			return t.Alphabetic, nil
		}
	}
	return "", errNoName
}
