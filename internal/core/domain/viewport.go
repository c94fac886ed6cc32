package domain

import "fmt"

// Metadata is the loosely structured key/value mapping of a single instance.
// Values come straight from the viewer and their shape is not guaranteed.
type Metadata map[string]any

// Value returns the raw value stored under key
func (m Metadata) Value(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the value under key when it is a non-empty string
// (or something that prints as one, such as json.Number)
func (m Metadata) String(key string) (string, bool) {
	v, ok := m.Value(key)
	if !ok {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		return "", false
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// ViewportOptions holds the secondary options block of a viewport
type ViewportOptions struct {
	DisplaySetInstanceUIDs []string `yaml:"displaySetInstanceUIDs,omitempty"`
}

// Viewport is a single slot of the viewport grid
type Viewport struct {
	ViewportID             string           `yaml:"viewportId"`
	DisplaySetInstanceUIDs []string         `yaml:"displaySetInstanceUIDs,omitempty"`
	ViewportOptions        *ViewportOptions `yaml:"viewportOptions,omitempty"`
}

// DisplaySetUIDs returns the display set identifiers of the viewport.
// The direct list wins; the nested options list is only consulted when
// the direct list is absent or empty.
func (v Viewport) DisplaySetUIDs() ([]string, bool) {
	if len(v.DisplaySetInstanceUIDs) > 0 {
		return v.DisplaySetInstanceUIDs, true
	}
	if v.ViewportOptions != nil && len(v.ViewportOptions.DisplaySetInstanceUIDs) > 0 {
		return v.ViewportOptions.DisplaySetInstanceUIDs, true
	}
	return nil, false
}

// GridState is the host's description of which display sets occupy which viewport
type GridState struct {
	ActiveViewportID string     `yaml:"activeViewportId,omitempty"`
	Viewports        []Viewport `yaml:"viewports"`
}

// Viewport looks up a viewport by id
func (g *GridState) Viewport(id string) (Viewport, bool) {
	if g == nil {
		return Viewport{}, false
	}
	for _, vp := range g.Viewports {
		if vp.ViewportID == id {
			return vp, true
		}
	}
	return Viewport{}, false
}

// DisplaySet groups the instances presented together in one viewport
type DisplaySet struct {
	DisplaySetInstanceUID string     `json:"displaySetInstanceUID"`
	StudyInstanceUID      string     `json:"StudyInstanceUID,omitempty"`
	SeriesInstanceUID     string     `json:"SeriesInstanceUID,omitempty"`
	Modality              string     `json:"Modality,omitempty"`
	SeriesDescription     string     `json:"SeriesDescription,omitempty"`
	Instance              Metadata   `json:"instance,omitempty"` // representative instance
	Instances             []Metadata `json:"instances,omitempty"`
}

// FirstInstance returns the metadata of the first instance, or an empty mapping
func (d *DisplaySet) FirstInstance() Metadata {
	if d == nil || len(d.Instances) == 0 || d.Instances[0] == nil {
		return Metadata{}
	}
	return d.Instances[0]
}

// ExportContext is the resolved subject of one export run
type ExportContext struct {
	ActiveViewportID      string
	DisplaySetInstanceUID string
	StudyInstanceUID      string
	FirstInstance         Metadata
	DisplaySet            *DisplaySet
}
