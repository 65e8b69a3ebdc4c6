package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noar-utils/snapshooter/internal/application/ports"
	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
	coreports "github.com/noar-utils/snapshooter/internal/core/ports"
	"github.com/noar-utils/snapshooter/internal/infrastructure/archive"
	"github.com/noar-utils/snapshooter/internal/infrastructure/fsutil"
	"github.com/noar-utils/snapshooter/internal/infrastructure/prefstore"
)

// LatestRef selects the newest snapshot
const LatestRef = "latest"

// SnapshotService creates, lists, deletes and applies state snapshots.
// It assumes it is the only writer of the snapshot root, the persistent
// data directory and the live preferences.
type SnapshotService struct {
	namespace snapshot.Namespace
	paths     coreports.PathProvider
	archives  *archive.Store
	extractor coreports.PreferenceExtractor
	live      coreports.LivePreferences
	logger    ports.LoggingGateway
	now       func() time.Time
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(
	ns snapshot.Namespace,
	paths coreports.PathProvider,
	archives *archive.Store,
	extractor coreports.PreferenceExtractor,
	live coreports.LivePreferences,
	logger ports.LoggingGateway,
) *SnapshotService {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &SnapshotService{
		namespace: ns,
		paths:     paths,
		archives:  archives,
		extractor: extractor,
		live:      live,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for identifiers and dates
func (s *SnapshotService) WithClock(now func() time.Time) *SnapshotService {
	s.now = now
	return s
}

// Root returns the snapshot root directory
func (s *SnapshotService) Root() string {
	return s.archives.Root()
}

// Dir returns the archive folder of a snapshot
func (s *SnapshotService) Dir(id int64) string {
	return s.archives.Dir(id)
}

// Preferences returns the preference backup stored in a snapshot
func (s *SnapshotService) Preferences(ctx context.Context, id int64) (prefs.Store, error) {
	if !s.archives.Exists(id) {
		return nil, fmt.Errorf("%w: %d", snapshot.ErrSnapshotNotFound, id)
	}
	return archive.ReadPreferences(s.archives.Dir(id))
}

// List returns every snapshot, oldest first
func (s *SnapshotService) List(ctx context.Context) ([]snapshot.Record, error) {
	return s.archives.List()
}

// Get resolves a snapshot by identifier, folder name or "latest"
func (s *SnapshotService) Get(ctx context.Context, ref string) (snapshot.Record, error) {
	records, err := s.archives.List()
	if err != nil {
		return snapshot.Record{}, err
	}

	if strings.EqualFold(strings.TrimSpace(ref), LatestRef) {
		if len(records) == 0 {
			return snapshot.Record{}, fmt.Errorf("%w: no snapshots in %s", snapshot.ErrSnapshotNotFound, s.archives.Root())
		}
		return records[len(records)-1], nil
	}

	id, err := snapshot.ParseID(ref)
	if err != nil {
		return snapshot.Record{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return snapshot.Record{}, fmt.Errorf("%w: %d", snapshot.ErrSnapshotNotFound, id)
}

// Create copies the persistent data directory and the extracted preferences
// into a new archive. It fails before writing anything with
// snapshot.ErrRootInsideData when the snapshot root is the persistent data
// directory or lies under it, and with snapshot.ErrNoSourceData when there
// is no file to back up. Cancellation is only observed before the first
// write.
func (s *SnapshotService) Create(ctx context.Context, name, note string) (snapshot.Record, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Record{}, err
	}
	source := s.paths.PersistentDataPath()
	if fsutil.Within(source, s.archives.Root()) {
		return snapshot.Record{}, fmt.Errorf("%w: %s is under %s", snapshot.ErrRootInsideData, s.archives.Root(), source)
	}

	hasFiles, err := fsutil.HasFiles(source)
	if err != nil {
		return snapshot.Record{}, err
	}
	if !hasFiles {
		return snapshot.Record{}, fmt.Errorf("%w: %s", snapshot.ErrNoSourceData, source)
	}

	createdAt := s.now()
	id, err := s.archives.Allocate(createdAt.UnixMilli())
	if err != nil {
		return snapshot.Record{}, err
	}
	dir := s.archives.Dir(id)

	s.logger.Log(ports.LogLevelDebug, "Copying persistent data", map[string]interface{}{"from": source, "to": dir})
	if err := fsutil.CopyDirectory(source, s.archives.DataDir(id)); err != nil {
		return snapshot.Record{}, fmt.Errorf("failed to copy persistent data: %w", err)
	}

	record := snapshot.NewRecord(id, dir, createdAt, name, note)
	if err := archive.WriteRecord(dir, record); err != nil {
		return snapshot.Record{}, err
	}

	store, err := s.ExportPreferences(ctx)
	if err != nil {
		return snapshot.Record{}, err
	}
	if err := archive.WritePreferences(dir, store); err != nil {
		return snapshot.Record{}, fmt.Errorf("failed to write preference backup: %w", err)
	}

	s.logger.Log(ports.LogLevelInfo, "Snapshot created", map[string]interface{}{
		"id":          id,
		"path":        dir,
		"preferences": len(store),
	})
	return record, nil
}

// ExportPreferences extracts the current preference store. A missing store
// or an unsupported platform yields an empty store.
func (s *SnapshotService) ExportPreferences(ctx context.Context) (prefs.Store, error) {
	store, err := prefstore.ExtractOrEmpty(ctx, s.extractor, s.namespace)
	if store == nil {
		return nil, fmt.Errorf("failed to extract preferences: %w", err)
	}
	if err != nil {
		s.logger.Log(ports.LogLevelWarn, "No preference store found, continuing with none", map[string]interface{}{
			"platform":  s.extractor.Platform(),
			"namespace": s.namespace.String(),
			"reason":    err.Error(),
		})
	}
	return store, nil
}

// Delete removes one archive
func (s *SnapshotService) Delete(ctx context.Context, id int64) error {
	if err := s.archives.Remove(id); err != nil {
		return err
	}
	s.logger.Log(ports.LogLevelInfo, "Snapshot deleted", map[string]interface{}{"id": id})
	return nil
}

// DeleteAll removes the snapshot root and every archive in it
func (s *SnapshotService) DeleteAll(ctx context.Context) error {
	if err := s.archives.RemoveAll(); err != nil {
		return err
	}
	s.logger.Log(ports.LogLevelInfo, "All snapshots deleted", map[string]interface{}{"root": s.archives.Root()})
	return nil
}

// Apply restores an archive onto the live environment. The preference
// backup is read first and an unreadable backup fails the call before
// anything changes. Then the live preferences are cleared, the archived
// data is copied over the persistent data directory without removing files
// the archive does not contain, and the backup is written back. Entries no
// preference type can hold are skipped with a warning. When the archive has
// no backup the preferences stay cleared and
// snapshot.ErrMissingPreferenceBackup is returned after the data copy.
func (s *SnapshotService) Apply(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.archives.Exists(id) {
		return fmt.Errorf("%w: %d", snapshot.ErrSnapshotNotFound, id)
	}
	dir := s.archives.Dir(id)

	store, skipped, backupErr := archive.ReadRestorablePreferences(dir)
	if backupErr != nil && !errors.Is(backupErr, snapshot.ErrMissingPreferenceBackup) {
		return fmt.Errorf("snapshot %d was not applied: %w", id, backupErr)
	}

	if err := s.live.DeleteAll(); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	if err := s.live.Save(); err != nil {
		return fmt.Errorf("failed to persist cleared preferences: %w", err)
	}

	target := s.paths.PersistentDataPath()
	if err := fsutil.CopyDirectory(s.archives.DataDir(id), target); err != nil {
		return fmt.Errorf("failed to restore persistent data: %w", err)
	}

	if backupErr != nil {
		s.logger.LogError(backupErr, "Preferences were cleared and not restored", map[string]interface{}{"id": id})
		return backupErr
	}

	for key, reason := range skipped {
		s.logger.Log(ports.LogLevelWarn, "Skipping preference that cannot be restored", map[string]interface{}{
			"id":     id,
			"key":    key,
			"reason": reason.Error(),
		})
	}

	if err := s.restorePreferences(store); err != nil {
		return err
	}

	s.logger.Log(ports.LogLevelInfo, "Snapshot applied", map[string]interface{}{
		"id":          id,
		"target":      target,
		"preferences": len(store),
		"skipped":     len(skipped),
	})
	return nil
}

func (s *SnapshotService) restorePreferences(store prefs.Store) error {
	for _, key := range store.Keys() {
		value := store[key]

		var err error
		switch value.Kind() {
		case prefs.KindInt:
			v, _ := value.AsInt()
			err = s.live.SetInt(key, v)
		case prefs.KindFloat:
			v, _ := value.AsFloat()
			err = s.live.SetFloat(key, v)
		case prefs.KindText:
			v, _ := value.AsText()
			err = s.live.SetString(key, v)
		}
		if err != nil {
			return fmt.Errorf("failed to restore preference %q: %w", key, err)
		}
	}

	if err := s.live.Save(); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
