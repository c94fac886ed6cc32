package services

import (
	"context"
	"fmt"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/internal/core/ports"
)

// ContextResolver resolves the active viewport, its display set and the
// first instance's metadata
type ContextResolver struct {
	grid        ports.ViewportGridService
	displaySets ports.DisplaySetService
}

// NewContextResolver creates a new context resolver
func NewContextResolver(grid ports.ViewportGridService, displaySets ports.DisplaySetService) *ContextResolver {
	return &ContextResolver{
		grid:        grid,
		displaySets: displaySets,
	}
}

// Resolve builds the export context. It only reads from its collaborators.
func (r *ContextResolver) Resolve(ctx context.Context) (*domain.ExportContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Active viewport
	viewportID, ok := r.grid.ActiveViewportID()
	if !ok || viewportID == "" {
		return nil, domain.ErrNoActiveViewport
	}

	// 2. Grid state
	state, ok := r.grid.State()
	if !ok || state == nil {
		return nil, domain.ErrInvalidViewportState
	}
	viewport, ok := state.Viewport(viewportID)
	if !ok {
		return nil, fmt.Errorf("viewport %s missing from grid state: %w", viewportID, domain.ErrInvalidViewportState)
	}

	// 3. Display set identifiers (direct list, then viewport options)
	uids, ok := viewport.DisplaySetUIDs()
	if !ok {
		return nil, fmt.Errorf("viewport %s: %w", viewportID, domain.ErrNoDisplaySetsInViewport)
	}

	// 4. Only the first display set is exported
	uid := uids[0]
	displaySet, ok := r.displaySets.DisplaySetByUID(uid)
	if !ok || displaySet == nil {
		return nil, fmt.Errorf("display set %s: %w", uid, domain.ErrDisplaySetNotFound)
	}

	first := displaySet.FirstInstance()
	studyUID := displaySet.StudyInstanceUID
	if studyUID == "" {
		studyUID, _ = first.String("StudyInstanceUID")
	}

	return &domain.ExportContext{
		ActiveViewportID:      viewportID,
		DisplaySetInstanceUID: uid,
		StudyInstanceUID:      studyUID,
		FirstInstance:         first,
		DisplaySet:            displaySet,
	}, nil
}
