package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ConfigSource represents where a configuration value was loaded from
type ConfigSource struct {
	Value      interface{} `json:"value"`
	Source     string      `json:"source"`      // "cli", "env", "file", "project", "default"
	SourcePath string      `json:"source_path"` // specific file path or env var name
	Priority   int         `json:"priority"`    // loading precedence (1=highest)
}

// UnifiedConfig represents the complete configuration of the snapshot tool
type UnifiedConfig struct {
	// Application namespace
	Company string `json:"company"`
	Product string `json:"product"`
	Scope   string `json:"scope"`

	// Directory overrides
	PersistentDataPath string `json:"persistent_data_path"`
	DataPath           string `json:"data_path"`
	SnapshotRoot       string `json:"snapshot_root"`

	// Logging
	LogLevel string `json:"log_level"`
	Debug    bool   `json:"debug"`

	// Metadata for transparency and debugging
	Sources  map[string]ConfigSource `json:"sources"`
	LoadedAt time.Time               `json:"loaded_at"`
}

// Field names accepted by SetValue
var ConfigFields = []string{
	"company", "product", "scope",
	"persistent_data_path", "data_path", "snapshot_root",
	"log_level", "debug",
}

// DefaultUnifiedConfig returns a configuration with sensible defaults
func DefaultUnifiedConfig() *UnifiedConfig {
	return &UnifiedConfig{
		Scope:    "editor",
		LogLevel: "info",
		Sources:  make(map[string]ConfigSource),
		LoadedAt: time.Now(),
	}
}

// SetValue sets a configuration value with its source metadata
func (c *UnifiedConfig) SetValue(field, source, sourcePath string, value interface{}, priority int) error {
	if existing, exists := c.Sources[field]; exists && priority > existing.Priority {
		return nil
	}

	switch field {
	case "company":
		return c.setString(&c.Company, field, source, sourcePath, value, priority)
	case "product":
		return c.setString(&c.Product, field, source, sourcePath, value, priority)
	case "scope":
		return c.setString(&c.Scope, field, source, sourcePath, value, priority)
	case "persistent_data_path":
		return c.setString(&c.PersistentDataPath, field, source, sourcePath, value, priority)
	case "data_path":
		return c.setString(&c.DataPath, field, source, sourcePath, value, priority)
	case "snapshot_root":
		return c.setString(&c.SnapshotRoot, field, source, sourcePath, value, priority)
	case "log_level":
		return c.setString(&c.LogLevel, field, source, sourcePath, value, priority)
	case "debug":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("config field %s expects a boolean, got %T", field, value)
		}
		c.Debug = v
	default:
		return fmt.Errorf("unknown config field: %s", field)
	}

	c.record(field, source, sourcePath, value, priority)
	return nil
}

func (c *UnifiedConfig) setString(target *string, field, source, sourcePath string, value interface{}, priority int) error {
	v, ok := value.(string)
	if !ok {
		return fmt.Errorf("config field %s expects a string, got %T", field, value)
	}
	*target = v
	c.record(field, source, sourcePath, value, priority)
	return nil
}

func (c *UnifiedConfig) record(field, source, sourcePath string, value interface{}, priority int) {
	c.Sources[field] = ConfigSource{
		Value:      value,
		Source:     source,
		SourcePath: sourcePath,
		Priority:   priority,
	}
}

// GetSource returns the source information for a specific field
func (c *UnifiedConfig) GetSource(field string) (ConfigSource, bool) {
	source, exists := c.Sources[field]
	return source, exists
}

// Validate performs domain-level validation on the configuration
func (c *UnifiedConfig) Validate() error {
	var errors []string

	if strings.TrimSpace(c.Company) == "" {
		errors = append(errors, "company is required")
	}
	if strings.TrimSpace(c.Product) == "" {
		errors = append(errors, "product is required")
	}

	if c.Scope != "editor" && c.Scope != "player" {
		errors = append(errors, fmt.Sprintf("invalid scope: %s (must be one of: editor, player)", c.Scope))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("invalid log_level: %s (must be one of: debug, info, warn, error)", c.LogLevel))
	}

	if c.PersistentDataPath != "" && c.SnapshotRoot != "" && nested(c.PersistentDataPath, c.SnapshotRoot) {
		errors = append(errors, fmt.Sprintf("snapshot_root %s must not be inside persistent_data_path %s", c.SnapshotRoot, c.PersistentDataPath))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

// nested reports whether path is dir or lies under it
func nested(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// EffectiveLogLevel returns the log level, raised to debug by the debug flag
func (c *UnifiedConfig) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}
