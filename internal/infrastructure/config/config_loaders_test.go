package configinfra

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectSettingsAsset = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!129 &1
PlayerSettings:
  m_ObjectHideFlags: 0
  serializedVersion: 26
  productGUID: 6f3a0c2e1b6e4c2b9a1c9d0b6e3f1a22
  AndroidProfiler: 0
  defaultScreenOrientation: 4
  companyName: Noar Games
  productName: Space Game
  defaultCursor: {fileID: 0}
  cursorHotspot: {x: 0, y: 0}
`

func TestEnvLoader_ReadsPrefixedVariables(t *testing.T) {
	env := map[string]string{
		"SNAPSHOOTER_COMPANY":       "Noar",
		"SNAPSHOOTER_PRODUCT":       "Space Game",
		"SNAPSHOOTER_SNAPSHOT_ROOT": "/tmp/snaps",
		"SNAPSHOOTER_DEBUG":         "true",
		"SNAPSHOOTER_SCOPE":         "",
		"COMPANY":                   "ignored",
	}
	loader := NewEnvLoaderWith(func(k string) (string, bool) { v, ok := env[k]; return v, ok })

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Noar", snap["company"].Value)
	assert.Equal(t, "Space Game", snap["product"].Value)
	assert.Equal(t, "/tmp/snaps", snap["snapshot_root"].Value)
	assert.Equal(t, true, snap["debug"].Value)
	assert.Equal(t, "SNAPSHOOTER_COMPANY", snap["company"].SourcePath)
	assert.Equal(t, 2, snap["company"].Priority)
	assert.NotContains(t, snap, "scope", "empty variables are skipped")
}

func TestEnvLoader_SkipsMalformedBool(t *testing.T) {
	loader := NewEnvLoaderWith(func(k string) (string, bool) {
		if k == "SNAPSHOOTER_DEBUG" {
			return "sometimes", true
		}
		return "", false
	})
	assert.Empty(t, loader.LoadEnv())
}

func TestFileLoader_ProjectFileOverridesUserFile(t *testing.T) {
	workDir := t.TempDir()
	userDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(workDir, ".snapshooter.yaml"), []byte("company: Noar\nscope: player\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "config.json"), []byte(`{"company":"Other","product":"Space Game","debug":"true"}`), 0644))

	snap, err := NewFileLoaderWithDirs("", workDir, userDir).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Noar", snap["company"].Value)
	assert.Equal(t, 3, snap["company"].Priority)
	assert.Equal(t, "player", snap["scope"].Value)
	assert.Equal(t, "Space Game", snap["product"].Value)
	assert.Equal(t, 4, snap["product"].Priority)
	assert.Equal(t, true, snap["debug"].Value)
}

func TestFileLoader_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(explicit, []byte("product: Explicit\nsnapshot_root: $SNAPSHOOTER_TEST_ROOT/snaps\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".snapshooter.yaml"), []byte("product: Project\n"), 0644))
	t.Setenv("SNAPSHOOTER_TEST_ROOT", "/data")

	snap, err := NewFileLoaderWithDirs(explicit, dir, "").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Explicit", snap["product"].Value)
	assert.Equal(t, "/data/snaps", snap["snapshot_root"].Value)
	assert.Equal(t, explicit, snap["product"].SourcePath)
}

func TestFileLoader_MissingExplicitFileFails(t *testing.T) {
	_, err := NewFileLoaderWithDirs(filepath.Join(t.TempDir(), "nope.yaml"), "", "").Load(context.Background())
	assert.Error(t, err)
}

func TestFileLoader_MalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0644))

	_, err := NewFileLoaderWithDirs("", "", dir).Load(context.Background())
	assert.Error(t, err)
}

func TestFileLoader_NoFiles(t *testing.T) {
	snap, err := NewFileLoaderWithDirs("", t.TempDir(), t.TempDir()).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestParsePlayerSettings(t *testing.T) {
	company, product, err := ParsePlayerSettings([]byte(projectSettingsAsset))
	require.NoError(t, err)
	assert.Equal(t, "Noar Games", company)
	assert.Equal(t, "Space Game", product)

	_, _, err = ParsePlayerSettings([]byte("--- !u!1 &1\nGameObject:\n  m_Name: x\n"))
	assert.Error(t, err)
}

func TestProjectSettingsLoader(t *testing.T) {
	dir := t.TempDir()

	snap, err := NewProjectSettingsLoader(dir).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap, "not a Unity project")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ProjectSettings"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectSettingsFile), []byte(projectSettingsAsset), 0644))

	snap, err = NewProjectSettingsLoader(dir).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Noar Games", snap["company"].Value)
	assert.Equal(t, "Space Game", snap["product"].Value)
	assert.Equal(t, 5, snap["product"].Priority)
	assert.Equal(t, "project", snap["product"].Source)
}
