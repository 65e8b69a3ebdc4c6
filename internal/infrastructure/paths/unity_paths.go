package paths

import (
	"path/filepath"
	"strings"

	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
	coreports "github.com/noar-utils/snapshooter/internal/core/ports"
)

// Overrides replace the derived locations when non-empty
type Overrides struct {
	PersistentDataPath string
	DataPath           string
	SnapshotRoot       string
}

// UnityPaths resolves the directories of a Unity application
type UnityPaths struct {
	persistent string
	data       string
	root       string
}

// NewUnityPaths derives the engine's default locations for ns on goos,
// relative to homeDir, and applies the overrides.
func NewUnityPaths(goos, homeDir string, ns snapshot.Namespace, o Overrides) *UnityPaths {
	persistent := o.PersistentDataPath
	if persistent == "" {
		persistent = DefaultPersistentDataPath(goos, homeDir, ns)
	}

	root := o.SnapshotRoot
	if root == "" {
		root = DefaultSnapshotRoot(persistent, ns)
	}

	return &UnityPaths{persistent: persistent, data: o.DataPath, root: root}
}

// DefaultPersistentDataPath returns where the engine keeps save data
func DefaultPersistentDataPath(goos, homeDir string, ns snapshot.Namespace) string {
	switch goos {
	case "windows":
		return filepath.Join(homeDir, "AppData", "LocalLow", ns.Company, ns.Product)
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", ns.Company, ns.Product)
	default:
		return filepath.Join(homeDir, ".config", "unity3d", ns.Company, ns.Product)
	}
}

// DefaultSnapshotRoot places the archives next to the persistent data
// directory, in a folder named after the product without spaces.
func DefaultSnapshotRoot(persistent string, ns snapshot.Namespace) string {
	name := strings.ReplaceAll(ns.Product, " ", "") + snapshot.RootSuffix
	return filepath.Join(filepath.Dir(filepath.Clean(persistent)), name)
}

// PersistentDataPath returns the directory holding the save data
func (p *UnityPaths) PersistentDataPath() string { return p.persistent }

// DataPath returns the game data directory, empty unless overridden
func (p *UnityPaths) DataPath() string { return p.data }

// SnapshotRoot returns the directory that holds the archives
func (p *UnityPaths) SnapshotRoot() string { return p.root }

var _ coreports.PathProvider = (*UnityPaths)(nil)
