package ports

import (
	"context"

	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
)

// PreferenceExtractor reads the native preference store of one application
type PreferenceExtractor interface {
	// Extract returns a freshly built store. It fails with
	// prefs.ErrPlatformUnsupported or prefs.ErrStoreNotFound.
	Extract(ctx context.Context, ns snapshot.Namespace) (prefs.Store, error)

	// Platform names the native storage backing this extractor
	Platform() string
}

// LivePreferences is the running game's preference API
type LivePreferences interface {
	GetInt(key string, def int32) int32
	GetFloat(key string, def float32) float32
	GetString(key string, def string) string

	SetInt(key string, value int32) error
	SetFloat(key string, value float32) error
	SetString(key string, value string) error

	// DeleteAll removes every key
	DeleteAll() error

	// Save persists pending changes
	Save() error
}
