package testfixtures

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
)

// StoreBuilder provides a builder pattern for creating preference stores
type StoreBuilder struct {
	store prefs.Store
}

// NewStoreBuilder creates an empty StoreBuilder
func NewStoreBuilder() *StoreBuilder {
	return &StoreBuilder{store: prefs.NewStore()}
}

// WithInt sets an integer preference
func (b *StoreBuilder) WithInt(key string, v int32) *StoreBuilder {
	b.store[key] = prefs.Int(v)
	return b
}

// WithFloat sets a float preference
func (b *StoreBuilder) WithFloat(key string, v float32) *StoreBuilder {
	b.store[key] = prefs.Float(v)
	return b
}

// WithText sets a string preference
func (b *StoreBuilder) WithText(key, v string) *StoreBuilder {
	b.store[key] = prefs.Text(v)
	return b
}

// Build returns a copy of the store built so far
func (b *StoreBuilder) Build() prefs.Store {
	out := prefs.NewStore()
	for k, v := range b.store {
		out[k] = v
	}
	return out
}

// SampleStore is a small store with one value of each kind
func SampleStore() prefs.Store {
	return NewStoreBuilder().
		WithInt("level", 3).
		WithFloat("volume", 0.75).
		WithText("name", "Kara").
		Build()
}

// RandomStore creates a store of n random values
func RandomStore(rng *rand.Rand, n int) prefs.Store {
	b := NewStoreBuilder()
	for i := 0; i < n; i++ {
		key := "key_" + string(rune('a'+rng.Intn(26))) + string(rune('a'+i%26))
		switch rng.Intn(3) {
		case 0:
			b.WithInt(key, rng.Int31()-rng.Int31())
		case 1:
			b.WithFloat(key, rng.Float32()*1000)
		default:
			b.WithText(key, time.Unix(rng.Int63n(1<<31), 0).UTC().Format(time.RFC3339))
		}
	}
	return b.Build()
}

// RecordBuilder provides a builder pattern for creating snapshot metadata
type RecordBuilder struct {
	id        int64
	createdAt time.Time
	name      string
	context   string
	root      string
}

// NewRecordBuilder creates a RecordBuilder with sensible defaults
func NewRecordBuilder() *RecordBuilder {
	createdAt := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.Local)
	return &RecordBuilder{
		id:        createdAt.UnixMilli(),
		createdAt: createdAt,
		name:      "checkpoint",
	}
}

// WithCreatedAt sets the creation time and derives the id from it
func (b *RecordBuilder) WithCreatedAt(t time.Time) *RecordBuilder {
	b.createdAt = t
	b.id = t.UnixMilli()
	return b
}

// WithName sets the snapshot name
func (b *RecordBuilder) WithName(name string) *RecordBuilder {
	b.name = name
	return b
}

// WithContext sets the snapshot note
func (b *RecordBuilder) WithContext(context string) *RecordBuilder {
	b.context = context
	return b
}

// InRoot places the snapshot folder under root
func (b *RecordBuilder) InRoot(root string) *RecordBuilder {
	b.root = root
	return b
}

// Build creates the record
func (b *RecordBuilder) Build() snapshot.Record {
	path := ""
	if b.root != "" {
		path = filepath.Join(b.root, snapshot.FolderName(b.id))
	}
	return snapshot.NewRecord(b.id, path, b.createdAt, b.name, b.context)
}

// SaveTree writes files relative to dir, creating parent directories. Keys
// are slash separated paths.
func SaveTree(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

// ReadTree returns every file under dir keyed by slash separated path
func ReadTree(t testing.TB, dir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}
	return files
}

// ProjectSettings returns a ProjectSettings.asset document naming the
// application
func ProjectSettings(company, product string) string {
	return `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!129 &1
PlayerSettings:
  m_ObjectHideFlags: 0
  serializedVersion: 26
  productGUID: 6f3a0c2e1b6e4c2b9a1c9d0b6e3f1a22
  companyName: ` + company + `
  productName: ` + product + `
  defaultCursor: {fileID: 0}
`
}
