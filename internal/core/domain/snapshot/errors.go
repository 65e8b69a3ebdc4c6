package snapshot

import "errors"

// Snapshot manager errors
var (
	ErrNoSourceData            = errors.New("no files to back up in the persistent data directory")
	ErrMissingPreferenceBackup = errors.New("snapshot has no preference backup file")
	ErrSnapshotNotFound        = errors.New("snapshot not found")
	ErrRootInsideData          = errors.New("snapshot root is inside the persistent data directory")
)
