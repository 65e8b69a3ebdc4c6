package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func writeFile(t require.TestingT, path, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readTree(t require.TestingT, root string) map[string]string {
	tree := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if d.IsDir() {
			if rel != "." {
				tree[filepath.ToSlash(rel)+"/"] = ""
			}
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return tree
}

func TestCopyDirectory_MirrorsTree(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "Data")

	writeFile(t, filepath.Join(src, "save.dat"), "slot-1")
	writeFile(t, filepath.Join(src, "profiles", "kara.json"), `{"hp":3}`)
	require.NoError(t, os.MkdirAll(filepath.Join(src, "empty", "nested"), 0755))

	require.NoError(t, CopyDirectory(src, dst))

	assert.Equal(t, map[string]string{
		"save.dat":           "slot-1",
		"profiles/":          "",
		"profiles/kara.json": `{"hp":3}`,
		"empty/":             "",
		"empty/nested/":      "",
	}, readTree(t, dst))
}

func TestCopyDirectory_AdditiveOverwrite(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "save.dat"), "new")
	writeFile(t, filepath.Join(dst, "save.dat"), "old")
	writeFile(t, filepath.Join(dst, "stale.dat"), "left behind")

	require.NoError(t, CopyDirectory(src, dst))

	tree := readTree(t, dst)
	assert.Equal(t, "new", tree["save.dat"], "same-named files are overwritten")
	assert.Equal(t, "left behind", tree["stale.dat"], "files missing from the source are kept")
}

func TestCopyDirectory_MissingSource(t *testing.T) {
	err := CopyDirectory(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	assert.Error(t, err)
}

func TestCopyDirectory_RefusesDestinationInsideSource(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "save.dat"), "slot-1")

	for _, dst := range []string{src, filepath.Join(src, "snaps", "1")} {
		err := CopyDirectory(src, dst)
		assert.ErrorIs(t, err, ErrDestinationInsideSource, dst)
	}
	assert.NoDirExists(t, filepath.Join(src, "snaps"))
	assert.Equal(t, map[string]string{"save.dat": "slot-1"}, readTree(t, src))
}

func TestWithin(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "game")

	assert.True(t, Within(dir, dir))
	assert.True(t, Within(dir, filepath.Join(dir, "a", "b")))
	assert.True(t, Within(dir, filepath.Join(dir, "a", "..", "c")))
	assert.False(t, Within(dir, base))
	assert.False(t, Within(dir, filepath.Join(base, "game-snapshots")))
	assert.False(t, Within(dir, filepath.Join(base, "..game")))
}

func TestHasFiles(t *testing.T) {
	root := t.TempDir()

	has, err := HasFiles(filepath.Join(root, "missing"))
	require.NoError(t, err)
	assert.False(t, has, "missing directory has no files")

	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	has, err = HasFiles(root)
	require.NoError(t, err)
	assert.False(t, has, "directories alone do not count")

	writeFile(t, filepath.Join(root, "a", "b", "deep.txt"), "x")
	has, err = HasFiles(root)
	require.NoError(t, err)
	assert.True(t, has)
}

// TestCopyDirectory_PropertyBased_Idempotent copies the same tree twice and
// expects the destination to look as it did after the first copy.
func TestCopyDirectory_PropertyBased_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src, err := os.MkdirTemp("", "fsutil-src")
		require.NoError(rt, err)
		defer os.RemoveAll(src)
		dst, err := os.MkdirTemp("", "fsutil-dst")
		require.NoError(rt, err)
		defer os.RemoveAll(dst)

		dirs := rapid.SliceOfN(rapid.SampledFrom([]string{"", "a", "a/b", "c"}), 1, 6).Draw(rt, "dirs")
		for i, dir := range dirs {
			content := rapid.StringN(0, 16, -1).Draw(rt, "content")
			writeFile(rt, filepath.Join(src, dir, "f"+string(rune('0'+i))), content)
		}

		require.NoError(rt, CopyDirectory(src, dst))
		once := readTree(rt, dst)

		require.NoError(rt, CopyDirectory(src, dst))
		twice := readTree(rt, dst)

		require.Equal(rt, once, twice)
		require.Equal(rt, readTree(rt, src), once)
	})
}
