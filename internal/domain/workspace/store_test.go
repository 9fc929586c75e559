package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zebras-launcher/backend/internal/shared/types"
)

func sampleWorkspace(id string) types.Workspace {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return types.Workspace{
		ID:           id,
		Name:         "Workspace " + id,
		RootPath:     "/srv/" + id,
		Folders:      []string{"/srv/" + id + "/apps"},
		CreatedAt:    now,
		LastModified: now,
		Projects: []types.Project{
			{ID: "p1", Name: "web", Port: 8000, IsValid: true, Version: types.ConfigV3},
			{ID: "p2", Name: "old", Port: 8001, IsValid: false, Version: types.ConfigV2},
		},
		Settings: types.DefaultWorkspaceSettings(),
	}
}

func TestStoreSaveLoad(t *testing.T) {
	store := NewStore(t.TempDir())
	ws := sampleWorkspace("ws1")

	require.NoError(t, store.Save(ws))

	got, err := store.Get("ws1")
	require.NoError(t, err)
	assert.Equal(t, ws.Name, got.Name)
	assert.Equal(t, ws.Projects, got.Projects)
	assert.Equal(t, types.PortSequential, got.Settings.PortStrategy)
	assert.True(t, ws.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, store.Delete("ws1"))
	_, err = store.Get("ws1")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, store.Delete("ws1"))
}

func TestStoreSaveRequiresID(t *testing.T) {
	assert.Error(t, NewStore(t.TempDir()).Save(types.Workspace{}))
}

func TestStoreLoadCorrupt(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path("bad")), 0o755))
	require.NoError(t, os.WriteFile(store.Path("bad"), []byte("{not json"), 0o644))

	_, err := store.Get("bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrNotFound)
}

func TestStoreLoadProjectsFallsBackToIndexPath(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	// Legacy location recorded in the index
	legacy := filepath.Join(dir, "legacy", "ws2.json")
	legacyStore := &Store{dir: filepath.Dir(legacy)}
	require.NoError(t, legacyStore.Save(sampleWorkspace("ws2")))

	projects, err := store.LoadProjects(types.WorkspaceRef{ID: "ws2", ConfigPath: legacy})
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	// Canonical file wins once present
	canonical := sampleWorkspace("ws2")
	canonical.Projects = canonical.Projects[:1]
	require.NoError(t, store.Save(canonical))

	projects, err = store.LoadProjects(types.WorkspaceRef{ID: "ws2", ConfigPath: legacy})
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}
