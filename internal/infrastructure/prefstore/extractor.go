package prefstore

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/noar-utils/snapshooter/internal/application/ports"
	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
	coreports "github.com/noar-utils/snapshooter/internal/core/ports"
)

// Options selects and configures the native preference backend
type Options struct {
	GOOS    string
	Scope   Scope
	HomeDir string
	Logger  ports.LoggingGateway
}

// PlistPath returns the property list holding the preferences of ns
func PlistPath(homeDir string, ns snapshot.Namespace) string {
	return filepath.Join(homeDir, "Library", "Preferences", "unity."+ns.Company+"."+ns.Product+".plist")
}

// NewExtractor returns the extractor for opts.GOOS. live backs the float
// disambiguation of registry values.
func NewExtractor(opts Options, ns snapshot.Namespace, live coreports.LivePreferences) coreports.PreferenceExtractor {
	switch opts.GOOS {
	case "darwin":
		return NewPlistExtractor(PlistPath(opts.HomeDir, ns), opts.Logger)
	case "windows":
		return NewRegistryExtractor(opts.Scope, openRegistry, NewLiveFloatCheck(live), opts.Logger)
	default:
		return UnsupportedExtractor{GOOS: opts.GOOS}
	}
}

// NewLivePreferences returns the live preference API for opts.GOOS. native
// is false when the platform has no native store and an in-memory store is
// returned instead.
func NewLivePreferences(opts Options, ns snapshot.Namespace) (live coreports.LivePreferences, native bool, err error) {
	switch opts.GOOS {
	case "darwin":
		return NewPlistPreferences(PlistPath(opts.HomeDir, ns)), true, nil
	case "windows":
		return NewRegistryPreferences(RegistryPath(opts.Scope, ns), openRegistryKey), true, nil
	default:
		return NewMemoryPreferences(), false, nil
	}
}

// UnsupportedExtractor is used on platforms without a known native store
type UnsupportedExtractor struct {
	GOOS string
}

// Platform implements PreferenceExtractor
func (u UnsupportedExtractor) Platform() string {
	return "unsupported (" + u.GOOS + ")"
}

// Extract implements PreferenceExtractor
func (u UnsupportedExtractor) Extract(ctx context.Context, ns snapshot.Namespace) (prefs.Store, error) {
	return nil, prefs.ErrPlatformUnsupported
}

// ExtractOrEmpty runs the extractor and turns the expected "no store"
// outcomes into an empty store. The cause is returned for logging; any
// other error is returned with a nil store.
func ExtractOrEmpty(ctx context.Context, extractor coreports.PreferenceExtractor, ns snapshot.Namespace) (prefs.Store, error) {
	store, err := extractor.Extract(ctx, ns)
	if err != nil {
		if errors.Is(err, prefs.ErrStoreNotFound) || errors.Is(err, prefs.ErrPlatformUnsupported) {
			return prefs.NewStore(), err
		}
		return nil, err
	}
	if store == nil {
		store = prefs.NewStore()
	}
	return store, nil
}

var _ coreports.PreferenceExtractor = UnsupportedExtractor{}
