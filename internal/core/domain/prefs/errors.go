package prefs

import "errors"

// Extraction errors
var (
	ErrPlatformUnsupported = errors.New("no native preference store on this platform")
	ErrStoreNotFound       = errors.New("preference store not found")
)
