package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"

	"github.com/noar-utils/snapshooter/internal/application/ports"
	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
)

// Store reads and writes snapshot archives below one root directory
type Store struct {
	root   string
	logger ports.LoggingGateway
}

// NewStore creates an archive store rooted at root
func NewStore(root string, logger ports.LoggingGateway) *Store {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &Store{root: root, logger: logger}
}

// Root returns the snapshot root directory
func (s *Store) Root() string {
	return s.root
}

// Dir returns the archive folder of id
func (s *Store) Dir(id int64) string {
	return filepath.Join(s.root, snapshot.FolderName(id))
}

// DataDir returns the mirrored persistent data folder of id
func (s *Store) DataDir(id int64) string {
	return filepath.Join(s.Dir(id), snapshot.DataFolder)
}

// Exists reports whether the archive folder of id exists
func (s *Store) Exists(id int64) bool {
	info, err := os.Stat(s.Dir(id))
	return err == nil && info.IsDir()
}

// List returns every archive ordered by identifier. Unreadable metadata is
// replaced by snapshot.EmptyRecord so one broken archive does not hide the
// others.
func (s *Store) List() ([]snapshot.Record, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []snapshot.Record{}, nil
		}
		return nil, fmt.Errorf("failed to read snapshot root: %w", err)
	}

	records := make([]snapshot.Record, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, err := snapshot.ParseFolderName(entry.Name())
		if err != nil {
			s.logger.Log(ports.LogLevelDebug, "Ignoring folder in snapshot root", map[string]interface{}{"folder": entry.Name()})
			continue
		}

		dir := filepath.Join(s.root, entry.Name())
		record, err := ReadRecord(dir)
		if err != nil {
			s.logger.LogError(err, "Unreadable snapshot metadata", map[string]interface{}{"folder": dir})
			record = snapshot.EmptyRecord()
			record.Path = dir
		}
		record.ID = id
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// Allocate creates the archive folder and its Data folder. When a folder for
// id already exists the next free millisecond is used.
func (s *Store) Allocate(id int64) (int64, error) {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return 0, fmt.Errorf("failed to create snapshot root: %w", err)
	}

	for {
		err := os.Mkdir(s.Dir(id), 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return 0, fmt.Errorf("failed to create snapshot folder: %w", err)
		}
		id++
	}

	if err := os.Mkdir(s.DataDir(id), 0755); err != nil {
		return 0, fmt.Errorf("failed to create snapshot data folder: %w", err)
	}
	return id, nil
}

// Remove deletes the archive of id
func (s *Store) Remove(id int64) error {
	if !s.Exists(id) {
		return fmt.Errorf("%w: %d", snapshot.ErrSnapshotNotFound, id)
	}
	if err := os.RemoveAll(s.Dir(id)); err != nil {
		return fmt.Errorf("failed to delete snapshot %d: %w", id, err)
	}
	return nil
}

// RemoveAll deletes the snapshot root with every archive in it
func (s *Store) RemoveAll() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("failed to delete snapshot root: %w", err)
	}
	return nil
}

// WriteRecord writes the metadata file into an archive folder
func WriteRecord(dir string, record snapshot.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot metadata: %w", err)
	}
	return writeLine(filepath.Join(dir, snapshot.ContextFileName), data)
}

// ReadRecord reads the metadata file of an archive folder
func ReadRecord(dir string) (snapshot.Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, snapshot.ContextFileName))
	if err != nil {
		return snapshot.Record{}, err
	}

	var record snapshot.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return snapshot.Record{}, fmt.Errorf("failed to parse snapshot metadata: %w", err)
	}
	return record.Normalize(), nil
}

// WritePreferences writes the preference backup into an archive folder
func WritePreferences(dir string, store prefs.Store) error {
	data, err := prefs.Encode(store)
	if err != nil {
		return err
	}
	return writeLine(filepath.Join(dir, snapshot.PreferencesBackupFile), data)
}

// ReadPreferences reads the preference backup of an archive folder. It fails
// with snapshot.ErrMissingPreferenceBackup when the file does not exist.
func ReadPreferences(dir string) (prefs.Store, error) {
	data, err := readBackup(dir)
	if err != nil {
		return nil, err
	}
	return prefs.Decode(data)
}

// ReadRestorablePreferences reads the preference backup like ReadPreferences
// but leaves out entries no preference type can hold, returning their keys
// with the reason.
func ReadRestorablePreferences(dir string) (prefs.Store, map[string]error, error) {
	data, err := readBackup(dir)
	if err != nil {
		return nil, nil, err
	}
	return prefs.DecodeValid(data)
}

func readBackup(dir string) ([]byte, error) {
	path := filepath.Join(dir, snapshot.PreferencesBackupFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", snapshot.ErrMissingPreferenceBackup, path)
		}
		return nil, fmt.Errorf("failed to read preference backup: %w", err)
	}
	return data, nil
}

// HasPreferences reports whether the archive folder holds a preference backup
func HasPreferences(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, snapshot.PreferencesBackupFile))
	return err == nil
}

func writeLine(path string, data []byte) error {
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
