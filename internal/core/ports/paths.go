package ports

// PathProvider resolves the application directories the tool works on
type PathProvider interface {
	// PersistentDataPath is the live save-data directory
	PersistentDataPath() string

	// DataPath is the install directory. It may be empty when not configured.
	DataPath() string

	// SnapshotRoot is the directory holding every snapshot archive
	SnapshotRoot() string
}
