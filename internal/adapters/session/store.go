package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/pkg/metadata"
)

const (
	StateFile      = "session.yaml"
	DisplaySetsDir = "displaysets"
	DocumentFile   = "document.html"
	SurfacesDir    = "surfaces"
)

// Store exposes a session directory written by the viewer as the viewport
// grid and display set services
type Store struct {
	root   string
	parser *metadata.Parser
}

// NewStore creates a store over the session directory at root
func NewStore(root string) *Store {
	return &Store{
		root:   root,
		parser: metadata.NewParser(false),
	}
}

// Root returns the session directory
func (s *Store) Root() string {
	return s.root
}

// DocumentPath returns the path of the rendered document snapshot
func (s *Store) DocumentPath() string {
	return filepath.Join(s.root, DocumentFile)
}

// Exists reports whether the directory holds a session
func (s *Store) Exists() bool {
	_, err := os.Stat(filepath.Join(s.root, StateFile))
	return err == nil
}

// LoadState reads and decodes session.yaml
func (s *Store) LoadState() (*domain.GridState, error) {
	data, err := os.ReadFile(filepath.Join(s.root, StateFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	var state domain.GridState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session state: %w", err)
	}
	return &state, nil
}

// ActiveViewportID returns the focused viewport recorded by the viewer
func (s *Store) ActiveViewportID() (string, bool) {
	state, ok := s.State()
	if !ok {
		return "", false
	}
	return state.ActiveViewportID, state.ActiveViewportID != ""
}

// State returns the grid state. A missing session is unremarkable, an
// unreadable one is logged as a warning since callers only see false.
func (s *Store) State() (*domain.GridState, bool) {
	state, err := s.LoadState()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.L().Debug("session state unavailable", helpers.String("root", s.root), helpers.Error(err))
		} else {
			logger.L().Warning("session state is unreadable", helpers.String("root", s.root), helpers.Error(err))
		}
		return nil, false
	}
	return state, true
}

// SaveState writes session.yaml atomically
func (s *Store) SaveState(state *domain.GridState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	return writeAtomic(filepath.Join(s.root, StateFile), data)
}

// SetActiveViewport moves the focus to an existing viewport
func (s *Store) SetActiveViewport(id string) error {
	state, err := s.LoadState()
	if err != nil {
		return err
	}
	if _, ok := state.Viewport(id); !ok {
		return fmt.Errorf("viewport %q is not part of the session", id)
	}

	state.ActiveViewportID = id
	return s.SaveState(state)
}

// displaySetFile is the on-disk shape of a display set. Instance metadata
// stays raw until it went through the normalizer.
type displaySetFile struct {
	DisplaySetInstanceUID string           `json:"displaySetInstanceUID"`
	StudyInstanceUID      string           `json:"StudyInstanceUID,omitempty"`
	SeriesInstanceUID     string           `json:"SeriesInstanceUID,omitempty"`
	Modality              string           `json:"Modality,omitempty"`
	SeriesDescription     string           `json:"SeriesDescription,omitempty"`
	Instance              map[string]any   `json:"instance,omitempty"`
	Instances             []map[string]any `json:"instances,omitempty"`
}

// DisplaySetByUID looks up a display set, first by file name, then by content
func (s *Store) DisplaySetByUID(uid string) (*domain.DisplaySet, bool) {
	if uid == "" || strings.ContainsAny(uid, `/\`) || strings.Contains(uid, "..") {
		return nil, false
	}

	ds, err := s.loadDisplaySet(filepath.Join(s.root, DisplaySetsDir, uid+".json"))
	if err == nil && ds.DisplaySetInstanceUID == uid {
		return ds, true
	}

	all, err := s.DisplaySets(context.Background())
	if err != nil {
		return nil, false
	}
	for _, ds := range all {
		if ds.DisplaySetInstanceUID == uid {
			return ds, true
		}
	}
	return nil, false
}

// DisplaySets returns every readable display set of the session, sorted by uid
func (s *Store) DisplaySets(ctx context.Context) ([]*domain.DisplaySet, error) {
	dir := filepath.Join(s.root, DisplaySetsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.DisplaySet{}, nil
		}
		return nil, fmt.Errorf("failed to read display sets: %w", err)
	}

	out := make([]*domain.DisplaySet, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		ds, err := s.loadDisplaySet(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.L().Ctx(ctx).Warning("skipping display set", helpers.String("file", entry.Name()), helpers.Error(err))
			continue
		}
		out = append(out, ds)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplaySetInstanceUID < out[j].DisplaySetInstanceUID
	})
	return out, nil
}

// SaveDisplaySet writes a display set file from raw instance metadata
func (s *Store) SaveDisplaySet(ds *domain.DisplaySet) error {
	if ds.DisplaySetInstanceUID == "" {
		return fmt.Errorf("display set has no uid")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("failed to marshal display set: %w", err)
	}

	dir := filepath.Join(s.root, DisplaySetsDir)
	return writeAtomic(filepath.Join(dir, ds.DisplaySetInstanceUID+".json"), buf.Bytes())
}

func (s *Store) loadDisplaySet(path string) (*domain.DisplaySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw displaySetFile
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	ds := &domain.DisplaySet{
		DisplaySetInstanceUID: raw.DisplaySetInstanceUID,
		StudyInstanceUID:      raw.StudyInstanceUID,
		SeriesInstanceUID:     raw.SeriesInstanceUID,
		Modality:              raw.Modality,
		SeriesDescription:     raw.SeriesDescription,
		Instances:             make([]domain.Metadata, 0, len(raw.Instances)),
	}

	if raw.Instance != nil {
		ds.Instance = s.normalize(raw.DisplaySetInstanceUID, raw.Instance)
	}
	for _, inst := range raw.Instances {
		ds.Instances = append(ds.Instances, s.normalize(raw.DisplaySetInstanceUID, inst))
	}
	return ds, nil
}

// normalize never fails: the parser is lenient and only collects warnings
func (s *Store) normalize(uid string, raw map[string]any) domain.Metadata {
	result, err := s.parser.Normalize(raw)
	if err != nil {
		logger.L().Warning("instance metadata rejected", helpers.String("displaySet", uid), helpers.Error(err))
	}
	for _, w := range result.Warnings {
		logger.L().Debug("instance metadata", helpers.String("displaySet", uid), helpers.String("warning", w))
	}
	return result.Metadata
}

// writeAtomic writes via a temp file in the target directory so a reader
// never sees a half-written file
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
