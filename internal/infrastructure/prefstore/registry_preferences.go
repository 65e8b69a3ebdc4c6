package prefstore

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
	coreports "github.com/noar-utils/snapshooter/internal/core/ports"
)

// RegistryPreferences is the live preference API over a registry key. Value
// names carry the engine's hash suffix. Integers are 4-byte DWORDs, floats
// are 8-byte doubles stored under the DWORD type and strings are NUL
// terminated binary blobs. The key is opened on first use and only created
// by the first write.
type RegistryPreferences struct {
	path string
	open RegistryKeyOpener
	key  RegistryKey
}

// NewRegistryPreferences creates preferences over the key at path. Nothing
// is opened until a value is read or written.
func NewRegistryPreferences(path string, open RegistryKeyOpener) *RegistryPreferences {
	return &RegistryPreferences{path: path, open: open}
}

// existing returns the opened key, or nil when it does not exist yet
func (r *RegistryPreferences) existing() (RegistryKey, error) {
	if r.key != nil {
		return r.key, nil
	}
	k, err := r.open(r.path, false)
	if err != nil {
		if errors.Is(err, prefs.ErrStoreNotFound) {
			return nil, nil
		}
		return nil, err
	}
	r.key = k
	return k, nil
}

func (r *RegistryPreferences) writable() (RegistryKey, error) {
	if r.key != nil {
		return r.key, nil
	}
	k, err := r.open(r.path, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open HKCU\\%s: %w", r.path, err)
	}
	r.key = k
	return k, nil
}

func (r *RegistryPreferences) read(key string) (RegistryValue, bool) {
	k, err := r.existing()
	if err != nil || k == nil {
		return RegistryValue{}, false
	}
	v, err := k.Value(HashedValueName(key))
	if err != nil {
		return RegistryValue{}, false
	}
	return v, true
}

func (r *RegistryPreferences) write(key string, v RegistryValue) error {
	k, err := r.writable()
	if err != nil {
		return err
	}
	return k.SetValue(HashedValueName(key), v)
}

// GetInt returns the integer at key, or def when missing or not a 4-byte DWORD
func (r *RegistryPreferences) GetInt(key string, def int32) int32 {
	v, ok := r.read(key)
	if !ok || v.Kind != RegistryDWord || len(v.Data) != 4 {
		return def
	}
	return int32(uint32(v.Uint()))
}

// GetFloat returns the float at key, or def when missing or not a float.
// QWORD doubles are accepted as well.
func (r *RegistryPreferences) GetFloat(key string, def float32) float32 {
	v, ok := r.read(key)
	if !ok || !v.IsWide() || (v.Kind != RegistryDWord && v.Kind != RegistryQWord) {
		return def
	}
	return float32(math.Float64frombits(v.Uint()))
}

// GetString returns the string at key, or def when missing or not a blob
func (r *RegistryPreferences) GetString(key string, def string) string {
	v, ok := r.read(key)
	if !ok || v.Kind != RegistryBinary {
		return def
	}
	return decodeText(v.Data)
}

// SetInt stores a 4-byte DWORD
func (r *RegistryPreferences) SetInt(key string, value int32) error {
	return r.write(key, DWordValue(uint32(value)))
}

// SetFloat stores the double bits of value under the DWORD type
func (r *RegistryPreferences) SetFloat(key string, value float32) error {
	return r.write(key, FloatValue(float64(value)))
}

// SetString stores a NUL terminated blob
func (r *RegistryPreferences) SetString(key string, value string) error {
	return r.write(key, BinaryValue(value))
}

// DeleteAll removes every value under the key. A missing key has nothing
// to delete.
func (r *RegistryPreferences) DeleteAll() error {
	k, err := r.existing()
	if err != nil {
		return fmt.Errorf("failed to open HKCU\\%s: %w", r.path, err)
	}
	if k == nil {
		return nil
	}

	names, err := k.ValueNames()
	if err != nil {
		return fmt.Errorf("failed to enumerate HKCU\\%s: %w", r.path, err)
	}

	var failed []string
	for _, name := range names {
		if err := k.DeleteValue(name); err != nil {
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to delete values: %s", strings.Join(failed, ", "))
	}
	return nil
}

// Save is a no-op: registry writes are applied immediately
func (r *RegistryPreferences) Save() error {
	return nil
}

// Close releases the key handle, if one was opened
func (r *RegistryPreferences) Close() error {
	if r.key == nil {
		return nil
	}
	err := r.key.Close()
	r.key = nil
	return err
}

var _ coreports.LivePreferences = (*RegistryPreferences)(nil)
