package configinfra

import (
	"context"
	"os"
	"strconv"

	configdomain "github.com/noar-utils/snapshooter/internal/core/domain/config"
	configports "github.com/noar-utils/snapshooter/internal/core/ports/config"
)

// EnvPrefix is prepended to every environment variable the tool reads
const EnvPrefix = "SNAPSHOOTER_"

type EnvLoader struct {
	lookup func(string) (string, bool)
}

func NewEnvLoader() *EnvLoader { return &EnvLoader{lookup: os.LookupEnv} }

// NewEnvLoaderWith reads variables through lookup instead of the process environment
func NewEnvLoaderWith(lookup func(string) (string, bool)) *EnvLoader {
	return &EnvLoader{lookup: lookup}
}

// Name identifies the loader in source metadata
func (l *EnvLoader) Name() string { return "env" }

// Load implements Loader by returning the environment snapshot.
func (l *EnvLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	return l.LoadEnv(), nil
}

// LoadEnv builds a snapshot from SNAPSHOOTER_* environment variables (priority 2).
func (l *EnvLoader) LoadEnv() configdomain.Snapshot {
	snap := make(configdomain.Snapshot)
	add := func(key, field string, convert func(string) (interface{}, bool)) {
		v, ok := l.lookup(EnvPrefix + key)
		if !ok || v == "" {
			return
		}
		val := interface{}(v)
		if convert != nil {
			if val, ok = convert(v); !ok {
				return
			}
		}
		snap[field] = configdomain.Entry{Key: field, Value: val, Source: "env", SourcePath: EnvPrefix + key, Priority: 2}
	}

	add("COMPANY", "company", nil)
	add("PRODUCT", "product", nil)
	add("SCOPE", "scope", nil)
	add("PERSISTENT_DATA_PATH", "persistent_data_path", nil)
	add("DATA_PATH", "data_path", nil)
	add("SNAPSHOT_ROOT", "snapshot_root", nil)
	add("LOG_LEVEL", "log_level", nil)
	add("DEBUG", "debug", func(s string) (interface{}, bool) { b, err := strconv.ParseBool(s); return b, err == nil })

	return snap
}

var _ configports.Loader = (*EnvLoader)(nil)
