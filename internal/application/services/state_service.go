package services

import (
	"context"
	"fmt"
	"os"

	"github.com/noar-utils/snapshooter/internal/application/ports"
	coreports "github.com/noar-utils/snapshooter/internal/core/ports"
)

// Paths lists the directories the tool works on
type Paths struct {
	PersistentData string
	Data           string
	SnapshotRoot   string
}

// StateService wipes the live state of the game
type StateService struct {
	paths  coreports.PathProvider
	live   coreports.LivePreferences
	logger ports.LoggingGateway
}

// NewStateService creates a new state service
func NewStateService(paths coreports.PathProvider, live coreports.LivePreferences, logger ports.LoggingGateway) *StateService {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &StateService{paths: paths, live: live, logger: logger}
}

// Paths returns the resolved directories
func (s *StateService) Paths() Paths {
	return Paths{
		PersistentData: s.paths.PersistentDataPath(),
		Data:           s.paths.DataPath(),
		SnapshotRoot:   s.paths.SnapshotRoot(),
	}
}

// DeleteSaveData removes the persistent data directory, and the data
// directory when one is configured
func (s *StateService) DeleteSaveData(ctx context.Context) error {
	if err := s.removeDir(s.paths.PersistentDataPath(), "Persistent data files were deleted"); err != nil {
		return err
	}
	if data := s.paths.DataPath(); data != "" {
		if err := s.removeDir(data, "Data files were deleted"); err != nil {
			return err
		}
	}
	return nil
}

// DeletePreferences clears and persists the live preferences
func (s *StateService) DeletePreferences(ctx context.Context) error {
	if err := s.live.DeleteAll(); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	if err := s.live.Save(); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	s.logger.Log(ports.LogLevelInfo, "Preferences were deleted", nil)
	return nil
}

// DeleteAllData removes save data and preferences
func (s *StateService) DeleteAllData(ctx context.Context) error {
	if err := s.DeleteSaveData(ctx); err != nil {
		return err
	}
	return s.DeletePreferences(ctx)
}

func (s *StateService) removeDir(dir, message string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete %s: %w", dir, err)
	}
	s.logger.Log(ports.LogLevelInfo, message, map[string]interface{}{"path": dir})
	return nil
}
