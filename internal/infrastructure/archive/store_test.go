package archive

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
	"github.com/noar-utils/snapshooter/internal/core/testfixtures"
)

func TestStore_ListMissingRootIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "none"), nil)

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_AllocateWriteAndList(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "Game_StateSnapshots"), nil)

	for _, id := range []int64{300, 100, 200} {
		got, err := store.Allocate(id)
		require.NoError(t, err)
		require.Equal(t, id, got)
		require.DirExists(t, store.DataDir(id))

		rec := snapshot.NewRecord(id, store.Dir(id), time.UnixMilli(id), "snap", "")
		require.NoError(t, WriteRecord(store.Dir(id), rec))
	}

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []int64{100, 200, 300}, []int64{records[0].ID, records[1].ID, records[2].ID})
	assert.Equal(t, "snap", records[0].Name)
	assert.Equal(t, snapshot.NoData, records[0].Context)
	assert.Equal(t, store.Dir(100), records[0].Path)
}

func TestStore_AllocateBumpsOnCollision(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	first, err := store.Allocate(1000)
	require.NoError(t, err)
	second, err := store.Allocate(1000)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), first)
	assert.Equal(t, int64(1001), second)
}

func TestStore_ListDegradesOnBrokenMetadata(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, nil)

	_, err := store.Allocate(1)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(1), snapshot.ContextFileName), []byte("{not json"), 0644))

	_, err = store.Allocate(2) // no metadata at all
	require.NoError(t, err)

	_, err = store.Allocate(3)
	require.NoError(t, err)
	require.NoError(t, WriteRecord(store.Dir(3), snapshot.NewRecord(3, store.Dir(3), time.Now(), "good", "ctx")))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "not-a-snapshot"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "StateSnapshot_4"), []byte("file"), 0644))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 3)

	for _, r := range records[:2] {
		assert.Equal(t, snapshot.NoData, r.Name)
		assert.Equal(t, "01/01/0001 00:00", r.Date)
		assert.Equal(t, store.Dir(r.ID), r.Path)
	}
	assert.Equal(t, "good", records[2].Name)
	assert.Equal(t, "ctx", records[2].Context)
}

func TestRecordFile_FieldNames(t *testing.T) {
	dir := t.TempDir()
	rec := snapshot.Record{ID: 5, Context: "c", Name: "n", Date: "01/02/2024 10:00", Path: "/p"}
	require.NoError(t, WriteRecord(dir, rec))

	data, err := os.ReadFile(filepath.Join(dir, snapshot.ContextFileName))
	require.NoError(t, err)
	assert.JSONEq(t, `{"context":"c","name":"n","date":"01/02/2024 10:00","path":"/p"}`, string(data))

	got, err := ReadRecord(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ID, "the identifier is not stored in the file")
	assert.Equal(t, "n", got.Name)
}

func TestPreferencesFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	source := testfixtures.SampleStore()

	assert.False(t, HasPreferences(dir))
	require.NoError(t, WritePreferences(dir, source))
	assert.True(t, HasPreferences(dir))

	got, err := ReadPreferences(dir)
	require.NoError(t, err)
	assert.True(t, source.Equal(got))
}

func TestPreferencesFile_RandomStores(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		dir := t.TempDir()
		source := testfixtures.RandomStore(rng, i)
		require.NoError(t, WritePreferences(dir, source))

		got, err := ReadPreferences(dir)
		require.NoError(t, err)
		assert.True(t, source.Equal(got), "store %d: got %v want %v", i, got, source)
	}
}

func TestStore_ListReadsBuiltRecords(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	rec := testfixtures.NewRecordBuilder().
		WithName("Boss fight").
		WithContext("right before the dragon").
		InRoot(store.Root()).
		Build()

	_, err := store.Allocate(rec.ID)
	require.NoError(t, err)
	require.NoError(t, WriteRecord(store.Dir(rec.ID), rec))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0])
}

func TestReadPreferences_Missing(t *testing.T) {
	_, err := ReadPreferences(t.TempDir())
	assert.ErrorIs(t, err, snapshot.ErrMissingPreferenceBackup)
}

func TestReadPreferences_LegacyNull(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshot.PreferencesBackupFile), []byte("null\n"), 0644))

	got, err := ReadPreferences(dir)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadRestorablePreferences(t *testing.T) {
	_, _, err := ReadRestorablePreferences(t.TempDir())
	assert.ErrorIs(t, err, snapshot.ErrMissingPreferenceBackup)

	dir := t.TempDir()
	backup := `{"level":3,"unity.cloud_userid":4604930618986332160}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshot.PreferencesBackupFile), []byte(backup), 0644))

	got, skipped, err := ReadRestorablePreferences(dir)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "level")
	assert.Contains(t, skipped, "unity.cloud_userid")

	_, err = ReadPreferences(dir)
	assert.Error(t, err)
}

func TestStore_RemoveAndRemoveAll(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	store := NewStore(root, nil)

	_, err := store.Allocate(1)
	require.NoError(t, err)
	_, err = store.Allocate(2)
	require.NoError(t, err)

	require.NoError(t, store.Remove(1))
	assert.False(t, store.Exists(1))
	assert.ErrorIs(t, store.Remove(1), snapshot.ErrSnapshotNotFound)

	require.NoError(t, store.RemoveAll())
	assert.NoDirExists(t, root)

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}
