package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
	"github.com/noar-utils/snapshooter/internal/infrastructure/paths"
	"github.com/noar-utils/snapshooter/internal/infrastructure/prefstore"
)

func TestStateService_DeleteAllData(t *testing.T) {
	base := t.TempDir()
	persistent := filepath.Join(base, "save")
	data := filepath.Join(base, "install")
	require.NoError(t, os.MkdirAll(filepath.Join(persistent, "slots"), 0755))
	require.NoError(t, os.MkdirAll(data, 0755))

	live := prefstore.NewMemoryPreferences()
	require.NoError(t, live.SetInt("level", 3))

	ns := snapshot.Namespace{Company: "Noar", Product: "Game"}
	p := paths.NewUnityPaths("linux", base, ns, paths.Overrides{PersistentDataPath: persistent, DataPath: data})
	svc := NewStateService(p, live, nil)

	require.NoError(t, svc.DeleteAllData(context.Background()))

	assert.NoDirExists(t, persistent)
	assert.NoDirExists(t, data)
	assert.Empty(t, live.Snapshot())
	assert.Equal(t, 1, live.Saves())
}

func TestStateService_DeleteSaveDataWithoutDataPath(t *testing.T) {
	base := t.TempDir()
	ns := snapshot.Namespace{Company: "Noar", Product: "Game"}
	p := paths.NewUnityPaths("linux", base, ns, paths.Overrides{PersistentDataPath: filepath.Join(base, "missing")})
	svc := NewStateService(p, prefstore.NewMemoryPreferences(), nil)

	assert.NoError(t, svc.DeleteSaveData(context.Background()), "missing directories are not an error")
	assert.Empty(t, svc.Paths().Data)
	assert.Equal(t, filepath.Join(base, "Game_StateSnapshots"), svc.Paths().SnapshotRoot)
}
