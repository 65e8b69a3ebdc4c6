package configdomain

import "sort"

// Entry represents a single configuration value with provenance and priority.
type Entry struct {
	Key        string
	Value      interface{}
	Source     string
	SourcePath string
	Priority   int
}

// Snapshot is a collection of config entries keyed by field name.
type Snapshot map[string]Entry

// Merge merges another snapshot into this one respecting priority
// (lower number indicates higher priority).
func (s Snapshot) Merge(other Snapshot) {
	for k, e := range other {
		if existing, ok := s[k]; !ok || e.Priority < existing.Priority {
			s[k] = e
		}
	}
}

// Set records a value unless a higher priority entry already holds the key
func (s Snapshot) Set(key string, value interface{}, source, sourcePath string, priority int) {
	s.Merge(Snapshot{key: {Key: key, Value: value, Source: source, SourcePath: sourcePath, Priority: priority}})
}

// Keys returns the field names in sorted order
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
