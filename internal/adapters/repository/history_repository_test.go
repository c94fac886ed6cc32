package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

func testResult(id string, status domain.Status) domain.ExportResult {
	return domain.ExportResult{
		ID:         id,
		Status:     status,
		Filename:   "report_DOE_JOHN_20230101.zip",
		Trace:      []domain.Phase{domain.PhaseInit, domain.PhaseResolvingContext},
		StartedAt:  time.Date(2024, 3, 9, 13, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 3, 9, 13, 0, 1, 0, time.UTC),
	}
}

func TestFileHistoryRepository_AppendAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "history.json")
	repo := NewFileHistoryRepository(path, 10)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testResult("aaa-1", domain.StatusSucceeded)))
	require.NoError(t, repo.Append(ctx, testResult("bbb-2", domain.StatusFailed)))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bbb-2", list[0].ID)
	assert.Equal(t, "aaa-1", list[1].ID)

	// a fresh repository reads what was flushed
	reloaded, err := NewFileHistoryRepository(path, 10).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, list, reloaded)
}

func TestFileHistoryRepository_Limit(t *testing.T) {
	repo := NewFileHistoryRepository(filepath.Join(t.TempDir(), "history.json"), 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, testResult(fmt.Sprintf("run-%d", i), domain.StatusSucceeded)))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "run-4", list[0].ID)
	assert.Equal(t, "run-2", list[2].ID)
}

func TestFileHistoryRepository_Get(t *testing.T) {
	repo := NewFileHistoryRepository(filepath.Join(t.TempDir(), "history.json"), 0)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, testResult("abc-123", domain.StatusSucceeded)))
	require.NoError(t, repo.Append(ctx, testResult("abd-456", domain.StatusFailed)))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", got.ID)

	_, err = repo.Get(ctx, "ab")
	assert.Error(t, err)

	_, err = repo.Get(ctx, "zzz")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileHistoryRepository_CorruptManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	_, err := NewFileHistoryRepository(path, 0).List(context.Background())
	assert.Error(t, err)
}
