package snapshot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Archive layout. These names are read back by older and newer versions of the
// tool alike and must not change.
const (
	FolderPrefix          = "StateSnapshot_"
	RootSuffix            = "_StateSnapshots"
	DataFolder            = "Data"
	ContextFileName       = "SnapshotContext.txt"
	PreferencesBackupFile = "PlayerPrefsBackup.json"

	// NoData replaces every empty metadata field
	NoData = "<No Data>"

	// DateLayout is the dd/MM/yyyy HH:mm layout of the date field
	DateLayout = "02/01/2006 15:04"
)

// Record is the metadata of one snapshot archive. ID is derived from the
// archive folder name and is not part of the metadata file.
type Record struct {
	ID      int64  `json:"-"`
	Context string `json:"context"`
	Name    string `json:"name"`
	Date    string `json:"date"`
	Path    string `json:"path"`
}

// NewRecord creates the metadata for a snapshot created at createdAt
func NewRecord(id int64, path string, createdAt time.Time, name, context string) Record {
	return Record{
		ID:      id,
		Name:    orNoData(name),
		Context: orNoData(context),
		Date:    createdAt.Format(DateLayout),
		Path:    orNoData(path),
	}
}

// EmptyRecord is used in place of missing or unreadable metadata
func EmptyRecord() Record {
	return Record{
		Name:    NoData,
		Context: NoData,
		Date:    time.Time{}.Format(DateLayout),
		Path:    NoData,
	}
}

// Normalize fills empty fields with the NoData marker
func (r Record) Normalize() Record {
	r.Name = orNoData(r.Name)
	r.Context = orNoData(r.Context)
	r.Date = orNoData(r.Date)
	r.Path = orNoData(r.Path)
	return r
}

// IDString returns the identifier as it appears in the folder name
func (r Record) IDString() string {
	return strconv.FormatInt(r.ID, 10)
}

// CreatedAt returns the creation time encoded in the identifier
func (r Record) CreatedAt() time.Time {
	return time.UnixMilli(r.ID)
}

// FolderName returns the archive folder name for an identifier
func FolderName(id int64) string {
	return FolderPrefix + strconv.FormatInt(id, 10)
}

// ParseFolderName extracts the identifier from an archive folder name
func ParseFolderName(name string) (int64, error) {
	if !strings.HasPrefix(name, FolderPrefix) {
		return 0, fmt.Errorf("not a snapshot folder: %s", name)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(name, FolderPrefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot folder %s: %w", name, err)
	}
	return id, nil
}

// ParseID parses a user supplied snapshot identifier. Both the bare
// timestamp and the full folder name are accepted.
func ParseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, FolderPrefix) {
		return ParseFolderName(s)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot id %q", s)
	}
	return id, nil
}

func orNoData(s string) string {
	if s == "" {
		return NoData
	}
	return s
}
