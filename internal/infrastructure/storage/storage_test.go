package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eutectic-bot/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesUserWithDefaults(t *testing.T) {
	defaults := entity.UserSettings{ExportFormat: entity.FormatTIFF, MinRegionSize: 50, Polarity: entity.PolarityBright}
	repo := NewMemoryUserRepositoryWithDefaults(defaults)
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entity.StateMainMenu, user.State)
	assert.Equal(t, defaults, user.Settings)
}

func TestMemoryUserRepository_SaveAndUpdateState(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)

	user.Settings.MinRegionSize = 42
	require.NoError(t, repo.Save(ctx, user))

	require.NoError(t, repo.UpdateState(ctx, 1, entity.StateAwaitingImage))

	got, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Settings.MinRegionSize)
	assert.Equal(t, entity.StateAwaitingImage, got.State)

	// Изменения копии без Save не попадают в хранилище.
	got.Settings.MinRegionSize = 7
	again, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 42, again.Settings.MinRegionSize)
}

func TestFileArtifactStore_SaveArtifactAndReport(t *testing.T) {
	dir := t.TempDir()
	store := NewFileArtifactStore(dir)
	ctx := context.Background()

	path, err := store.SaveArtifact(ctx, "task-1", entity.Artifact{Name: "cleaned_binary", Format: entity.FormatPNG, Data: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "task-1", "cleaned_binary.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	report := entity.AnalysisReport{ID: "task-1", Width: 10, Height: 10, FractionBefore: 0.5, FractionAfter: 0.25}
	_, err = store.SaveReport(ctx, "task-1", report)
	require.NoError(t, err)

	rc, err := store.Open("task-1", reportFileName)
	require.NoError(t, err)
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	require.NoError(t, err)

	var got entity.AnalysisReport
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, report, got)
}

func TestFileArtifactStore_RejectsTraversal(t *testing.T) {
	store := NewFileArtifactStore(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "../x", `a\b`} {
		_, err := store.SaveArtifact(ctx, id, entity.Artifact{Name: "original", Format: entity.FormatPNG})
		require.Error(t, err, id)
	}
}

type failingCloseFile struct {
	bytes.Buffer
}

func (f *failingCloseFile) Close() error {
	return errors.New("disk full")
}

func TestFileArtifactStore_ReturnsCloseError(t *testing.T) {
	store := NewFileArtifactStore(t.TempDir())
	store.create = func(path string) (io.WriteCloser, error) {
		return &failingCloseFile{}, nil
	}

	_, err := store.SaveArtifact(context.Background(), "task-2", entity.Artifact{Name: "otsu_thresh", Format: entity.FormatPNG, Data: []byte("png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	_, err = store.SaveReport(context.Background(), "task-2", entity.AnalysisReport{ID: "task-2"})
	require.Error(t, err)
}
