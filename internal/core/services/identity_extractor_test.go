package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

// proxyName imitates a viewer-provided name object with every capability
type proxyName struct {
	str     string
	json    any
	jsonErr error
	items   []any
	panics  bool
}

func (p proxyName) String() string {
	if p.panics {
		panic("string conversion exploded")
	}
	return p.str
}

func (p proxyName) JSONValue() (any, error) { return p.json, p.jsonErr }

func (p proxyName) At(i int) (any, bool) {
	if i >= len(p.items) {
		return nil, false
	}
	return p.items[i], true
}

// stringOnly exposes nothing but string conversion
type stringOnly string

func (s stringOnly) String() string { return string(s) }

func TestIdentityExtractor_Extract(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
		source   domain.NameSource
	}{
		{
			name:     "plain string",
			value:    "DOE^JOHN",
			expected: "DOE^JOHN",
			source:   domain.NameFromString,
		},
		{
			name:     "stringer",
			value:    stringOnly("DOE^JANE"),
			expected: "DOE^JANE",
			source:   domain.NameFromString,
		},
		{
			name:     "placeholder string falls through to json object",
			value:    proxyName{str: "[object Object]", json: map[string]any{"Alphabetic": "Jane^Roe"}},
			expected: "Jane^Roe",
			source:   domain.NameFromJSON,
		},
		{
			name:     "empty string falls through to json string",
			value:    proxyName{str: "", json: "ROE^JANE"},
			expected: "ROE^JANE",
			source:   domain.NameFromJSON,
		},
		{
			name:     "json tier takes the placeholder text verbatim",
			value:    proxyName{str: "[object Object]", json: "[object Object]"},
			expected: "[object Object]",
			source:   domain.NameFromJSON,
		},
		{
			name:     "json error falls through to index string",
			value:    proxyName{str: "[object Object]", jsonErr: errors.New("cyclic"), items: []any{"SMITH^ANNA"}},
			expected: "SMITH^ANNA",
			source:   domain.NameFromIndex,
		},
		{
			name:     "index alphabetic",
			value:    []any{map[string]any{"Alphabetic": "LEE^KIM"}},
			expected: "LEE^KIM",
			source:   domain.NameFromIndex,
		},
		{
			name:     "index value field",
			value:    []any{map[string]any{"value": "PARK^MIN"}},
			expected: "PARK^MIN",
			source:   domain.NameFromIndex,
		},
		{
			name:     "panicking string tier is a miss",
			value:    proxyName{panics: true, json: map[string]any{"Alphabetic": "SAFE^NAME"}},
			expected: "SAFE^NAME",
			source:   domain.NameFromJSON,
		},
		{
			name:     "patient name value",
			value:    domain.PatientName{{Alphabetic: "DOE^JOHN"}},
			expected: "DOE^JOHN",
			source:   domain.NameFromString,
		},
		{
			name:     "patient name without alphabetic component",
			value:    domain.PatientName{{Ideographic: "山田"}},
			expected: domain.UnknownPatient,
			source:   domain.NameFromDefault,
		},
		{
			name:     "no usable tier",
			value:    proxyName{str: "[object Object]", json: map[string]any{"Other": 1}, items: []any{42}},
			expected: domain.UnknownPatient,
			source:   domain.NameFromDefault,
		},
		{
			name:     "plain object has no capabilities",
			value:    map[string]any{"Alphabetic": "HIDDEN^NAME"},
			expected: domain.UnknownPatient,
			source:   domain.NameFromDefault,
		},
		{
			name:     "number",
			value:    12,
			expected: domain.UnknownPatient,
			source:   domain.NameFromDefault,
		},
	}

	extractor := NewIdentityExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.Extract(domain.Metadata{"PatientName": tt.value})
			assert.Equal(t, tt.expected, got.Name)
			assert.Equal(t, tt.source, got.Source)
		})
	}
}

func TestIdentityExtractor_MissingField(t *testing.T) {
	extractor := NewIdentityExtractor()

	for _, meta := range []domain.Metadata{nil, {}, {"PatientName": nil}} {
		got := extractor.Extract(meta)
		assert.Equal(t, domain.UnknownPatient, got.Name)
		assert.Equal(t, domain.NameFromDefault, got.Source)
	}
}

func TestStudyDateExtractor_Extract(t *testing.T) {
	extractor := NewStudyDateExtractor()

	got := extractor.Extract(domain.Metadata{"StudyDate": "20230101"}, &domain.DisplaySet{
		Instance: domain.Metadata{"StudyDate": "19990101"},
	})
	assert.Equal(t, domain.StudyDate{Value: "20230101"}, got)

	got = extractor.Extract(domain.Metadata{}, &domain.DisplaySet{
		Instance: domain.Metadata{"StudyDate": "19990101"},
	})
	assert.Equal(t, domain.StudyDate{Value: "19990101"}, got)

	got = extractor.Extract(domain.Metadata{"StudyDate": ""}, nil)
	assert.Equal(t, domain.UnknownDate, got.Value)
	assert.True(t, got.Defaulted)

	got = extractor.Extract(nil, &domain.DisplaySet{})
	assert.Equal(t, domain.UnknownDate, got.Value)
}
