package prefstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
)

type failingExtractor struct {
	err error
}

func (f failingExtractor) Platform() string { return "failing" }

func (f failingExtractor) Extract(context.Context, snapshot.Namespace) (prefs.Store, error) {
	return nil, f.err
}

func TestNewExtractor_SelectsByPlatform(t *testing.T) {
	home := t.TempDir()
	live := NewMemoryPreferences()

	darwin := NewExtractor(Options{GOOS: "darwin", HomeDir: home}, testNamespace, live)
	require.IsType(t, &PlistExtractor{}, darwin)
	assert.Equal(t, filepath.Join(home, "Library", "Preferences", "unity.Noar.Space Game.plist"),
		darwin.(*PlistExtractor).Path())

	windows := NewExtractor(Options{GOOS: "windows", Scope: ScopeEditor}, testNamespace, live)
	assert.IsType(t, &RegistryExtractor{}, windows)

	other := NewExtractor(Options{GOOS: "plan9"}, testNamespace, live)
	assert.IsType(t, UnsupportedExtractor{}, other)
}

func TestUnsupportedExtractor(t *testing.T) {
	store, err := UnsupportedExtractor{GOOS: "linux"}.Extract(context.Background(), testNamespace)
	assert.Nil(t, store)
	assert.ErrorIs(t, err, prefs.ErrPlatformUnsupported)
}

func TestExtractOrEmpty_NoStoreIsEmptyResult(t *testing.T) {
	for _, cause := range []error{prefs.ErrStoreNotFound, prefs.ErrPlatformUnsupported} {
		store, err := ExtractOrEmpty(context.Background(), failingExtractor{err: cause}, testNamespace)
		require.NotNil(t, store)
		assert.Empty(t, store)
		assert.ErrorIs(t, err, cause)
	}
}

func TestExtractOrEmpty_MissingPlistNamespace(t *testing.T) {
	extractor := NewExtractor(Options{GOOS: "darwin", HomeDir: t.TempDir()}, testNamespace, nil)

	store, err := ExtractOrEmpty(context.Background(), extractor, testNamespace)
	require.NotNil(t, store)
	assert.Empty(t, store)
	assert.ErrorIs(t, err, prefs.ErrStoreNotFound)
}

func TestExtractOrEmpty_OtherErrorsPropagate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	boom := errors.New("boom")
	store, err := ExtractOrEmpty(ctx, failingExtractor{err: boom}, testNamespace)
	assert.Nil(t, store)
	assert.ErrorIs(t, err, boom)
}

func TestNewLivePreferences_FallsBackToMemory(t *testing.T) {
	live, native, err := NewLivePreferences(Options{GOOS: "linux"}, testNamespace)
	require.NoError(t, err)
	assert.False(t, native)
	assert.IsType(t, &MemoryPreferences{}, live)

	live, native, err = NewLivePreferences(Options{GOOS: "darwin", HomeDir: t.TempDir()}, testNamespace)
	require.NoError(t, err)
	assert.True(t, native)
	assert.IsType(t, &PlistPreferences{}, live)

	// The registry key is not touched until a value is read or written.
	live, native, err = NewLivePreferences(Options{GOOS: "windows", Scope: ScopePlayer}, testNamespace)
	require.NoError(t, err)
	assert.True(t, native)
	require.IsType(t, &RegistryPreferences{}, live)
	assert.Nil(t, live.(*RegistryPreferences).key)
}
