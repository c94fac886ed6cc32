package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

// Keywords maps the DICOM tags the exporter cares about to their keywords.
// Tags not listed here are kept under their tag number.
var Keywords = map[string]string{
	"00080018": "SOPInstanceUID",
	"00080020": "StudyDate",
	"00080060": "Modality",
	"00081030": "StudyDescription",
	"0008103E": "SeriesDescription",
	"00100010": "PatientName",
	"00100020": "PatientID",
	"0020000D": "StudyInstanceUID",
	"0020000E": "SeriesInstanceUID",
}

var reTag = regexp.MustCompile(`^[0-9A-Fa-f]{8}$`)

// ParseError represents a malformed attribute
type ParseError struct {
	Key     string
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}

// ParseResult contains the normalized metadata with detailed problem reports
type ParseResult struct {
	Metadata domain.Metadata
	Errors   []ParseError
	Warnings []string
}

// Parser normalizes instance metadata written either in naturalized form
// ("PatientName": "DOE^JOHN") or in the DICOM JSON model
// ("00100010": {"vr": "PN", "Value": [{"Alphabetic": "DOE^JOHN"}]})
type Parser struct {
	strict bool
}

// NewParser creates a new metadata parser. A strict parser reports malformed
// attributes as errors instead of warnings.
func NewParser(strict bool) *Parser {
	return &Parser{
		strict: strict,
	}
}

// Parse decodes a JSON object and normalizes it
func (p *Parser) Parse(data []byte) (*ParseResult, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode instance metadata: %w", err)
	}
	return p.Normalize(raw)
}

// Normalize converts an already decoded object
func (p *Parser) Normalize(raw map[string]any) (*ParseResult, error) {
	result := &ParseResult{
		Metadata: domain.Metadata{},
		Errors:   []ParseError{},
		Warnings: []string{},
	}

	// Sorted so warnings come out in a stable order
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]

		if reTag.MatchString(key) {
			name, v, err := p.attribute(key, value)
			if err != nil {
				p.report(result, *err)
				continue
			}
			if v == nil {
				continue
			}
			// A naturalized key wins over the tag form of the same attribute
			if _, exists := raw[name]; exists && name != key {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: shadowed by %s", key, name))
				continue
			}
			result.Metadata[name] = v
			continue
		}

		result.Metadata[key] = naturalized(key, value)
	}

	if len(result.Errors) > 0 {
		return result, fmt.Errorf("normalizing failed with %d errors", len(result.Errors))
	}

	return result, nil
}

func (p *Parser) report(result *ParseResult, err ParseError) {
	if p.strict {
		result.Errors = append(result.Errors, err)
		return
	}
	result.Warnings = append(result.Warnings, err.Error())
}

// attribute unwraps one DICOM JSON attribute. A nil value with no error means
// the attribute is present but empty.
func (p *Parser) attribute(tag string, value any) (string, any, *ParseError) {
	tag = strings.ToUpper(tag)
	name := tag
	if kw, ok := Keywords[tag]; ok {
		name = kw
	}

	attr, ok := value.(map[string]any)
	if !ok {
		return name, nil, &ParseError{Key: tag, Message: "attribute is not an object"}
	}
	vr, _ := attr["vr"].(string)
	if vr == "" {
		return name, nil, &ParseError{Key: tag, Message: "missing value representation"}
	}

	values, present := attr["Value"]
	if !present {
		return name, nil, nil
	}
	list, ok := values.([]any)
	if !ok {
		return name, nil, &ParseError{Key: tag, Message: "Value is not a list"}
	}
	if len(list) == 0 {
		return name, nil, nil
	}

	if vr == "PN" {
		pn, ok := ParsePersonName(list)
		if !ok {
			return name, nil, &ParseError{Key: tag, Message: "malformed person name"}
		}
		return name, pn, nil
	}

	if len(list) == 1 {
		return name, scalar(list[0]), nil
	}
	out := make([]any, len(list))
	for i, v := range list {
		out[i] = scalar(v)
	}
	return name, out, nil
}

// naturalized keeps a value verbatim, except that object-shaped person names
// are turned into domain.PatientName
func naturalized(key string, value any) any {
	if key != "PatientName" {
		return value
	}
	switch value.(type) {
	case map[string]any, []any:
		if pn, ok := ParsePersonName(value); ok {
			return pn
		}
	}
	return value
}

// scalar converts json.Number back to a plain string, which is how
// viewers hand out numeric-looking attributes such as dates
func scalar(v any) any {
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	return v
}

// ParsePersonName accepts a single person name object or a list of them.
// Plain strings inside a list are taken as the alphabetic group.
func ParsePersonName(v any) (domain.PatientName, bool) {
	switch t := v.(type) {
	case map[string]any:
		pn, ok := personName(t)
		if !ok {
			return nil, false
		}
		return domain.PatientName{pn}, true
	case []any:
		out := make(domain.PatientName, 0, len(t))
		for _, item := range t {
			switch it := item.(type) {
			case map[string]any:
				pn, ok := personName(it)
				if !ok {
					return nil, false
				}
				out = append(out, pn)
			case string:
				out = append(out, domain.PersonName{Alphabetic: it})
			default:
				return nil, false
			}
		}
		return out, len(out) > 0
	}
	return nil, false
}

func personName(m map[string]any) (domain.PersonName, bool) {
	var pn domain.PersonName
	found := false
	for field, dst := range map[string]*string{
		"Alphabetic":  &pn.Alphabetic,
		"Ideographic": &pn.Ideographic,
		"Phonetic":    &pn.Phonetic,
	} {
		raw, ok := m[field]
		if !ok {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return domain.PersonName{}, false
		}
		*dst = s
		found = true
	}
	return pn, found
}

// Extract is a convenience function for lenient parsing
func Extract(data []byte) (domain.Metadata, error) {
	result, err := NewParser(false).Parse(data)
	if err != nil {
		return nil, err
	}
	return result.Metadata, nil
}

// ExtractStrict is a convenience function for strict parsing
func ExtractStrict(data []byte) (domain.Metadata, error) {
	result, err := NewParser(true).Parse(data)
	if err != nil {
		return nil, err
	}
	return result.Metadata, nil
}

// Format renders metadata as an indented JSON document with sorted keys.
// Person names are written in their DICOM JSON object form.
func Format(m domain.Metadata) (string, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if jv, ok := v.(domain.JSONValuer); ok {
			converted, err := jv.JSONValue()
			if err != nil {
				return "", fmt.Errorf("%s: %w", k, err)
			}
			out[k] = converted
			continue
		}
		out[k] = v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return buf.String(), nil
}
