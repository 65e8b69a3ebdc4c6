package prefstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"

	"github.com/noar-utils/snapshooter/internal/application/ports"
	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
	coreports "github.com/noar-utils/snapshooter/internal/core/ports"
)

// PlistExtractor reads preferences from a property list file
type PlistExtractor struct {
	path   string
	logger ports.LoggingGateway
}

// NewPlistExtractor creates an extractor for the property list at path
func NewPlistExtractor(path string, logger ports.LoggingGateway) *PlistExtractor {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &PlistExtractor{path: path, logger: logger}
}

// Platform implements PreferenceExtractor
func (e *PlistExtractor) Platform() string {
	return "plist"
}

// Path returns the property list location
func (e *PlistExtractor) Path() string {
	return e.path
}

// Extract implements PreferenceExtractor. Keys are used as stored.
func (e *PlistExtractor) Extract(ctx context.Context, ns snapshot.Namespace) (prefs.Store, error) {
	dict, err := readPlist(e.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", prefs.ErrStoreNotFound, err)
	}

	store := prefs.NewStore()
	for key, raw := range dict {
		value, ok := fromPlist(raw)
		if !ok {
			e.logger.Log(ports.LogLevelDebug, "Skipping plist value of unsupported type",
				map[string]interface{}{"key": key, "type": fmt.Sprintf("%T", raw)})
			continue
		}
		store[key] = value
	}
	return store, nil
}

func readPlist(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var dict map[string]interface{}
	if _, err := plist.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if dict == nil {
		dict = make(map[string]interface{})
	}
	return dict, nil
}

// fromPlist converts a decoded plist value into a preference value
func fromPlist(raw interface{}) (prefs.Value, bool) {
	switch v := raw.(type) {
	case int64:
		return prefs.Int(int32(v)), true
	case uint64:
		return prefs.Int(int32(v)), true
	case int:
		return prefs.Int(int32(v)), true
	case int32:
		return prefs.Int(v), true
	case uint32:
		return prefs.Int(int32(v)), true
	case float64:
		return prefs.Float(float32(v)), true
	case float32:
		return prefs.Float(v), true
	case string:
		return prefs.Text(v), true
	case []byte:
		return prefs.Text(decodeText(v)), true
	case bool:
		if v {
			return prefs.Int(1), true
		}
		return prefs.Int(0), true
	default:
		return prefs.Value{}, false
	}
}

// PlistPreferences is the live preference API over a property list file.
// The file is read on first access and written back by Save.
type PlistPreferences struct {
	path   string
	dict   map[string]interface{}
	loaded bool
}

// NewPlistPreferences creates live preferences stored at path
func NewPlistPreferences(path string) *PlistPreferences {
	return &PlistPreferences{path: path}
}

func (p *PlistPreferences) load() map[string]interface{} {
	if !p.loaded {
		dict, err := readPlist(p.path)
		if err != nil {
			dict = make(map[string]interface{})
		}
		p.dict = dict
		p.loaded = true
	}
	return p.dict
}

// GetInt returns the integer at key, or def when missing or not an integer
func (p *PlistPreferences) GetInt(key string, def int32) int32 {
	switch p.load()[key].(type) {
	case int64, uint64, int, int32, uint32:
		v, _ := fromPlist(p.dict[key])
		i, _ := v.AsInt()
		return i
	}
	return def
}

// GetFloat returns the float at key, or def when missing or not a float
func (p *PlistPreferences) GetFloat(key string, def float32) float32 {
	switch v := p.load()[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	}
	return def
}

// GetString returns the string at key, or def when missing or not a string
func (p *PlistPreferences) GetString(key string, def string) string {
	if v, ok := p.load()[key].(string); ok {
		return v
	}
	return def
}

// SetInt stores an integer
func (p *PlistPreferences) SetInt(key string, value int32) error {
	p.load()[key] = int64(value)
	return nil
}

// SetFloat stores a float
func (p *PlistPreferences) SetFloat(key string, value float32) error {
	p.load()[key] = float64(value)
	return nil
}

// SetString stores a string
func (p *PlistPreferences) SetString(key string, value string) error {
	p.load()[key] = value
	return nil
}

// DeleteAll removes every key
func (p *PlistPreferences) DeleteAll() error {
	p.dict = make(map[string]interface{})
	p.loaded = true
	return nil
}

// Save writes the preferences as a binary property list
func (p *PlistPreferences) Save() error {
	data, err := plist.Marshal(p.load(), plist.BinaryFormat)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), strings.TrimSuffix(filepath.Base(p.path), ".plist")+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}

var (
	_ coreports.PreferenceExtractor = (*PlistExtractor)(nil)
	_ coreports.LivePreferences     = (*PlistPreferences)(nil)
)
