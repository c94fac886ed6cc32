package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

const sessionYAML = `activeViewportId: viewport-1
viewports:
  - viewportId: viewport-1
    displaySetInstanceUIDs: [ds-1]
  - viewportId: viewport-2
    viewportOptions:
      displaySetInstanceUIDs: [ds-2]
`

const displaySetJSON = `{
  "displaySetInstanceUID": "ds-1",
  "StudyInstanceUID": "1.2.3",
  "instances": [
    {
      "00100010": {"vr": "PN", "Value": [{"Alphabetic": "DOE^JOHN"}]},
      "00080020": {"vr": "DA", "Value": ["20230101"]}
    },
    {"PatientName": "SECOND"}
  ]
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestSession(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, StateFile), sessionYAML)
	writeFile(t, filepath.Join(root, DisplaySetsDir, "ds-1.json"), displaySetJSON)
	return NewStore(root)
}

func TestStore_GridState(t *testing.T) {
	store := newTestSession(t)

	id, ok := store.ActiveViewportID()
	require.True(t, ok)
	assert.Equal(t, "viewport-1", id)

	state, ok := store.State()
	require.True(t, ok)
	require.Len(t, state.Viewports, 2)

	vp, ok := state.Viewport("viewport-2")
	require.True(t, ok)
	uids, ok := vp.DisplaySetUIDs()
	require.True(t, ok)
	assert.Equal(t, []string{"ds-2"}, uids)
}

func TestStore_MissingSession(t *testing.T) {
	store := NewStore(t.TempDir())

	_, ok := store.ActiveViewportID()
	assert.False(t, ok)
	_, ok = store.State()
	assert.False(t, ok)
	assert.False(t, store.Exists())
}

func TestStore_CorruptSession(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, StateFile), "activeViewportId: [unterminated\n")
	store := NewStore(root)

	_, err := store.LoadState()
	require.Error(t, err)
	assert.NotErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to parse session state")

	assert.True(t, store.Exists())
	_, ok := store.ActiveViewportID()
	assert.False(t, ok)
	_, ok = store.State()
	assert.False(t, ok)
}

func TestStore_EmptyActiveViewport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, StateFile), "viewports: []\n")

	_, ok := NewStore(root).ActiveViewportID()
	assert.False(t, ok)
}

func TestStore_DisplaySetByUID(t *testing.T) {
	store := newTestSession(t)

	ds, ok := store.DisplaySetByUID("ds-1")
	require.True(t, ok)
	assert.Equal(t, "1.2.3", ds.StudyInstanceUID)
	require.Len(t, ds.Instances, 2)

	first := ds.FirstInstance()
	assert.Equal(t, domain.PatientName{{Alphabetic: "DOE^JOHN"}}, first["PatientName"])
	date, ok := first.String("StudyDate")
	require.True(t, ok)
	assert.Equal(t, "20230101", date)

	_, ok = store.DisplaySetByUID("ds-2")
	assert.False(t, ok)
	_, ok = store.DisplaySetByUID("../ds-1")
	assert.False(t, ok)
}

func TestStore_DisplaySetFoundByContent(t *testing.T) {
	store := newTestSession(t)
	writeFile(t, filepath.Join(store.Root(), DisplaySetsDir, "series-7.json"), `{"displaySetInstanceUID": "1.2.840.7"}`)

	ds, ok := store.DisplaySetByUID("1.2.840.7")
	require.True(t, ok)
	assert.Empty(t, ds.FirstInstance())
}

func TestStore_DisplaySetsSkipsBrokenFiles(t *testing.T) {
	store := newTestSession(t)
	writeFile(t, filepath.Join(store.Root(), DisplaySetsDir, "broken.json"), `{not json`)
	writeFile(t, filepath.Join(store.Root(), DisplaySetsDir, "readme.txt"), `ignored`)

	all, err := store.DisplaySets(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "ds-1", all[0].DisplaySetInstanceUID)
}

func TestStore_SetActiveViewport(t *testing.T) {
	store := newTestSession(t)

	require.NoError(t, store.SetActiveViewport("viewport-2"))
	id, ok := store.ActiveViewportID()
	require.True(t, ok)
	assert.Equal(t, "viewport-2", id)

	err := store.SetActiveViewport("viewport-9")
	assert.Error(t, err)
	id, _ = store.ActiveViewportID()
	assert.Equal(t, "viewport-2", id)

	// no temp files are left next to the state
	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".session.yaml.")
	}
}

func TestStore_SaveDisplaySetRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.SaveDisplaySet(&domain.DisplaySet{
		DisplaySetInstanceUID: "ds-9",
		Instances: []domain.Metadata{
			{"PatientName": domain.PatientName{{Alphabetic: "ROE^JANE"}}, "StudyDate": "20240202"},
		},
	}))

	ds, ok := store.DisplaySetByUID("ds-9")
	require.True(t, ok)
	assert.Equal(t, domain.PatientName{{Alphabetic: "ROE^JANE"}}, ds.FirstInstance()["PatientName"])

	assert.Error(t, store.SaveDisplaySet(&domain.DisplaySet{}))
}
