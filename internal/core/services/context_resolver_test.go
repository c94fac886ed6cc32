package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/internal/core/ports/mocks"
)

const (
	testViewportID = "viewport-1"
	testDisplaySet = "ds-1.2.3"
	testStudyUID   = "1.2.840.113619.2.55.3"
)

func newTestViewer() *mocks.MockViewer {
	viewer := mocks.NewMockViewer()
	viewer.SetActiveViewport(testViewportID)
	viewer.SetState(&domain.GridState{
		ActiveViewportID: testViewportID,
		Viewports: []domain.Viewport{
			{ViewportID: testViewportID, DisplaySetInstanceUIDs: []string{testDisplaySet, "ds-ignored"}},
		},
	})
	viewer.AddDisplaySet(&domain.DisplaySet{
		DisplaySetInstanceUID: testDisplaySet,
		StudyInstanceUID:      testStudyUID,
		Instances: []domain.Metadata{
			{"PatientName": "DOE^JOHN", "StudyDate": "20230101"},
			{"PatientName": "SECOND^INSTANCE"},
		},
	})
	return viewer
}

func TestContextResolver_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(v *mocks.MockViewer)
		condition domain.Condition
	}{
		{
			name:  "resolves first display set",
			setup: func(v *mocks.MockViewer) {},
		},
		{
			name:      "no active viewport",
			setup:     func(v *mocks.MockViewer) { v.SetActiveViewport("") },
			condition: domain.ConditionNoActiveViewport,
		},
		{
			name:      "state unavailable",
			setup:     func(v *mocks.MockViewer) { v.SetState(nil) },
			condition: domain.ConditionInvalidViewportState,
		},
		{
			name:      "active viewport missing from state",
			setup:     func(v *mocks.MockViewer) { v.SetActiveViewport("viewport-9") },
			condition: domain.ConditionInvalidViewportState,
		},
		{
			name: "viewport without display sets",
			setup: func(v *mocks.MockViewer) {
				v.SetState(&domain.GridState{Viewports: []domain.Viewport{{ViewportID: testViewportID}}})
			},
			condition: domain.ConditionNoDisplaySetsInViewport,
		},
		{
			name: "unknown display set",
			setup: func(v *mocks.MockViewer) {
				v.SetState(&domain.GridState{Viewports: []domain.Viewport{
					{ViewportID: testViewportID, DisplaySetInstanceUIDs: []string{"missing"}},
				}})
			},
			condition: domain.ConditionDisplaySetNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viewer := newTestViewer()
			tt.setup(viewer)
			resolver := NewContextResolver(viewer, viewer)

			got, err := resolver.Resolve(context.Background())
			if tt.condition != domain.ConditionNone {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.Equal(t, tt.condition, domain.ConditionOf(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, testViewportID, got.ActiveViewportID)
			assert.Equal(t, testDisplaySet, got.DisplaySetInstanceUID)
			assert.Equal(t, testStudyUID, got.StudyInstanceUID)
			assert.Equal(t, "DOE^JOHN", got.FirstInstance["PatientName"])
		})
	}
}

func TestContextResolver_NestedDisplaySetList(t *testing.T) {
	viewer := newTestViewer()
	viewer.SetState(&domain.GridState{Viewports: []domain.Viewport{{
		ViewportID:      testViewportID,
		ViewportOptions: &domain.ViewportOptions{DisplaySetInstanceUIDs: []string{testDisplaySet}},
	}}})

	got, err := NewContextResolver(viewer, viewer).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testDisplaySet, got.DisplaySetInstanceUID)
}

func TestContextResolver_StudyUIDFromInstance(t *testing.T) {
	viewer := newTestViewer()
	viewer.AddDisplaySet(&domain.DisplaySet{
		DisplaySetInstanceUID: testDisplaySet,
		Instances:             []domain.Metadata{{"StudyInstanceUID": "1.2.3.4"}},
	})

	got, err := NewContextResolver(viewer, viewer).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", got.StudyInstanceUID)
}

func TestContextResolver_EmptyDisplaySet(t *testing.T) {
	viewer := newTestViewer()
	viewer.AddDisplaySet(&domain.DisplaySet{DisplaySetInstanceUID: testDisplaySet})

	got, err := NewContextResolver(viewer, viewer).Resolve(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got.FirstInstance)
	assert.Empty(t, got.FirstInstance)
}
