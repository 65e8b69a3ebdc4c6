//go:build !windows

package prefstore

import (
	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
)

func openRegistry(path string) (ValueSource, error) {
	return nil, prefs.ErrPlatformUnsupported
}

func openRegistryKey(path string, create bool) (RegistryKey, error) {
	return nil, prefs.ErrPlatformUnsupported
}
