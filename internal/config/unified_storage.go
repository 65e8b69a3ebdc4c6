package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noar-utils/snapshooter/internal/core/domain"
	configinfra "github.com/noar-utils/snapshooter/internal/infrastructure/config"
)

// UnifiedStorage writes the user configuration file
type UnifiedStorage struct {
	configPath string
}

// NewUnifiedStorage creates a new unified configuration storage
func NewUnifiedStorage() (*UnifiedStorage, error) {
	configPath := configinfra.DefaultConfigPath()
	if configPath == "" {
		return nil, fmt.Errorf("failed to determine config path: no home directory")
	}

	return &UnifiedStorage{
		configPath: configPath,
	}, nil
}

// NewUnifiedStorageWithPath creates storage with a specific path
func NewUnifiedStorageWithPath(path string) *UnifiedStorage {
	return &UnifiedStorage{
		configPath: path,
	}
}

// SaveableConfig represents the configuration format saved to disk
type SaveableConfig struct {
	Company            string    `yaml:"company,omitempty"`
	Product            string    `yaml:"product,omitempty"`
	Scope              string    `yaml:"scope,omitempty"`
	PersistentDataPath string    `yaml:"persistent_data_path,omitempty"`
	DataPath           string    `yaml:"data_path,omitempty"`
	SnapshotRoot       string    `yaml:"snapshot_root,omitempty"`
	LogLevel           string    `yaml:"log_level,omitempty"`
	Debug              bool      `yaml:"debug,omitempty"`
	SavedAt            time.Time `yaml:"saved_at"`
}

// Save saves configuration to persistent storage
func (s *UnifiedStorage) Save(ctx context.Context, config *domain.UnifiedConfig) error {
	dir := filepath.Dir(s.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	saveConfig := &SaveableConfig{
		Company:            config.Company,
		Product:            config.Product,
		Scope:              config.Scope,
		PersistentDataPath: config.PersistentDataPath,
		DataPath:           config.DataPath,
		SnapshotRoot:       config.SnapshotRoot,
		LogLevel:           config.LogLevel,
		Debug:              config.Debug,
		SavedAt:            time.Now(),
	}

	data, err := yaml.Marshal(saveConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(s.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Delete removes configuration from persistent storage
func (s *UnifiedStorage) Delete(ctx context.Context) error {
	if err := os.Remove(s.configPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Exists checks if configuration exists in persistent storage
func (s *UnifiedStorage) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(s.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check config file: %w", err)
	}
	return true, nil
}

// GetConfigPath returns the path where configuration is stored
func (s *UnifiedStorage) GetConfigPath() string {
	return s.configPath
}
