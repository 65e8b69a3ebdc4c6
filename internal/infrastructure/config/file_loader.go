package configinfra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	configdomain "github.com/noar-utils/snapshooter/internal/core/domain/config"
	configports "github.com/noar-utils/snapshooter/internal/core/ports/config"
)

// Config file names searched in each directory, in order
var configFileNames = []string{"config.yaml", "config.yml", "config.json"}

// Project file names searched in the working directory, in order
var projectFileNames = []string{".snapshooter.yaml", ".snapshooter.yml", ".snapshooter.json"}

// FileLoader reads saved configuration files. An explicit file or a project
// file in the working directory is priority 3; the user config file is
// priority 4.
type FileLoader struct {
	explicit string
	workDir  string
	userDir  string
}

// NewFileLoader creates a loader for the standard locations. When explicit is
// set, it replaces the project file and must exist.
func NewFileLoader(explicit string) *FileLoader {
	workDir, _ := os.Getwd()
	return &FileLoader{explicit: explicit, workDir: workDir, userDir: UserConfigDir()}
}

// NewFileLoaderWithDirs creates a loader searching the given directories
func NewFileLoaderWithDirs(explicit, workDir, userDir string) *FileLoader {
	return &FileLoader{explicit: explicit, workDir: workDir, userDir: userDir}
}

// Name identifies the loader in source metadata
func (l *FileLoader) Name() string { return "filesystem" }

// Load reads the user configuration file, if any
func (l *FileLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	snap := make(configdomain.Snapshot)

	if l.explicit != "" {
		if err := l.loadFile(l.explicit, snap, 3); err != nil {
			return snap, err
		}
	} else if path := findFirst(l.workDir, projectFileNames); path != "" {
		if err := l.loadFile(path, snap, 3); err != nil {
			return snap, err
		}
	}

	if path := findFirst(l.userDir, configFileNames); path != "" {
		if err := l.loadFile(path, snap, 4); err != nil {
			return snap, err
		}
	}

	return snap, nil
}

// UserConfigDir returns the directory holding the user config file
func UserConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "snapshooter")
}

// DefaultConfigPath returns the path the user config file is expected at
func DefaultConfigPath() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configFileNames[0])
}

func findFirst(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func (l *FileLoader) loadFile(path string, snap configdomain.Snapshot, priority int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	kv := map[string]interface{}{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &kv)
	default:
		err = yaml.Unmarshal(data, &kv)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	toEntry := func(field string, v interface{}) {
		snap.Set(field, v, "file", path, priority)
	}
	for _, field := range []string{"company", "product", "scope", "log_level"} {
		if v, ok := toString(kv[field]); ok && v != "" {
			toEntry(field, v)
		}
	}
	for _, field := range []string{"persistent_data_path", "data_path", "snapshot_root"} {
		if v, ok := toString(kv[field]); ok && v != "" {
			toEntry(field, expandPath(v))
		}
	}
	if v, ok := toBool(kv["debug"]); ok {
		toEntry("debug", v)
	}
	return nil
}

var _ configports.Loader = (*FileLoader)(nil)

func toString(x interface{}) (string, bool) {
	switch t := x.(type) {
	case string:
		return strings.TrimSpace(t), true
	case int, int64, float64:
		return fmt.Sprint(t), true
	}
	return "", false
}

func toBool(x interface{}) (bool, bool) {
	switch t := x.(type) {
	case bool:
		return t, true
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return b, true
		}
	}
	return false, false
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			path = strings.Replace(path, "~", homeDir, 1)
		}
	}

	return os.ExpandEnv(path)
}
