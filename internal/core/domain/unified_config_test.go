package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedConfig_SetValue(t *testing.T) {
	t.Run("higher priority wins regardless of order", func(t *testing.T) {
		cfg := DefaultUnifiedConfig()
		require.NoError(t, cfg.SetValue("company", "file", "config.yaml", "FromFile", 3))
		require.NoError(t, cfg.SetValue("company", "cli", "command_line_flag", "FromFlag", 1))
		require.NoError(t, cfg.SetValue("company", "project", "ProjectSettings.asset", "FromProject", 5))

		assert.Equal(t, "FromFlag", cfg.Company)
		source, ok := cfg.GetSource("company")
		require.True(t, ok)
		assert.Equal(t, "cli", source.Source)
		assert.Equal(t, 1, source.Priority)
	})

	t.Run("type mismatches are rejected", func(t *testing.T) {
		cfg := DefaultUnifiedConfig()
		assert.Error(t, cfg.SetValue("debug", "env", "SNAPSHOOTER_DEBUG", "yes", 2))
		assert.Error(t, cfg.SetValue("product", "env", "SNAPSHOOTER_PRODUCT", 42, 2))
		assert.Error(t, cfg.SetValue("api_key", "env", "X", "y", 2))
	})

	t.Run("debug raises the log level", func(t *testing.T) {
		cfg := DefaultUnifiedConfig()
		assert.Equal(t, "info", cfg.EffectiveLogLevel())
		require.NoError(t, cfg.SetValue("debug", "cli", "--debug", true, 1))
		assert.Equal(t, "debug", cfg.EffectiveLogLevel())
	})
}

func TestUnifiedConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*UnifiedConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *UnifiedConfig) {},
		},
		{
			name:    "missing company",
			mutate:  func(c *UnifiedConfig) { c.Company = " " },
			wantErr: "company is required",
		},
		{
			name:    "missing product",
			mutate:  func(c *UnifiedConfig) { c.Product = "" },
			wantErr: "product is required",
		},
		{
			name:    "unknown scope",
			mutate:  func(c *UnifiedConfig) { c.Scope = "server" },
			wantErr: "invalid scope",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *UnifiedConfig) { c.LogLevel = "trace" },
			wantErr: "invalid log_level",
		},
		{
			name: "snapshot root inside persistent data",
			mutate: func(c *UnifiedConfig) {
				c.PersistentDataPath = "/saves/Noar/Space Game"
				c.SnapshotRoot = "/saves/Noar/Space Game/snaps"
			},
			wantErr: "must not be inside persistent_data_path",
		},
		{
			name: "snapshot root equal to persistent data",
			mutate: func(c *UnifiedConfig) {
				c.PersistentDataPath = "/saves/game"
				c.SnapshotRoot = "/saves/game/"
			},
			wantErr: "must not be inside persistent_data_path",
		},
		{
			name: "snapshot root beside persistent data",
			mutate: func(c *UnifiedConfig) {
				c.PersistentDataPath = "/saves/game"
				c.SnapshotRoot = "/saves/game-snapshots"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultUnifiedConfig()
			cfg.Company = "Noar"
			cfg.Product = "Space Game"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
