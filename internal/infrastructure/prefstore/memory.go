package prefstore

import (
	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
	coreports "github.com/noar-utils/snapshooter/internal/core/ports"
)

// MemoryPreferences keeps preferences in memory only. Save is a no-op.
type MemoryPreferences struct {
	values prefs.Store
	saves  int
}

// NewMemoryPreferences creates empty in-memory preferences
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{values: prefs.NewStore()}
}

// GetInt returns the integer at key, or def when missing or not an integer
func (m *MemoryPreferences) GetInt(key string, def int32) int32 {
	if v, ok := m.values[key].AsInt(); ok {
		return v
	}
	return def
}

// GetFloat returns the float at key, or def when missing or not a float
func (m *MemoryPreferences) GetFloat(key string, def float32) float32 {
	if v, ok := m.values[key].AsFloat(); ok {
		return v
	}
	return def
}

// GetString returns the string at key, or def when missing or not a string
func (m *MemoryPreferences) GetString(key string, def string) string {
	if v, ok := m.values[key].AsText(); ok {
		return v
	}
	return def
}

// SetInt stores an integer, replacing any value under key
func (m *MemoryPreferences) SetInt(key string, value int32) error {
	m.values[key] = prefs.Int(value)
	return nil
}

// SetFloat stores a float, replacing any value under key
func (m *MemoryPreferences) SetFloat(key string, value float32) error {
	m.values[key] = prefs.Float(value)
	return nil
}

// SetString stores a string, replacing any value under key
func (m *MemoryPreferences) SetString(key string, value string) error {
	m.values[key] = prefs.Text(value)
	return nil
}

// DeleteAll removes every key
func (m *MemoryPreferences) DeleteAll() error {
	m.values = prefs.NewStore()
	return nil
}

// Save counts the call and keeps the values
func (m *MemoryPreferences) Save() error {
	m.saves++
	return nil
}

// Snapshot returns a copy of the current values
func (m *MemoryPreferences) Snapshot() prefs.Store {
	out := make(prefs.Store, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Saves returns how many times Save was called
func (m *MemoryPreferences) Saves() int {
	return m.saves
}

var _ coreports.LivePreferences = (*MemoryPreferences)(nil)
