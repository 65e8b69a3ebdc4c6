package appconfig

import (
	"context"
	"errors"
	"fmt"

	configdomain "github.com/noar-utils/snapshooter/internal/core/domain/config"
	configports "github.com/noar-utils/snapshooter/internal/core/ports/config"
)

// Aggregator merges multiple loader snapshots, honoring priorities.
type Aggregator struct {
	loaders []configports.Loader
}

func NewAggregator(loaders ...configports.Loader) *Aggregator {
	return &Aggregator{loaders: loaders}
}

// LoadSnapshot returns the merged snapshot, including CLI overrides as
// priority 1. A failing loader does not stop the others; its error is
// returned alongside the merged result.
func (a *Aggregator) LoadSnapshot(ctx context.Context, overrides map[string]interface{}) (configdomain.Snapshot, error) {
	snap := make(configdomain.Snapshot)
	for field, v := range overrides {
		snap[field] = configdomain.Entry{Key: field, Value: v, Source: "cli", SourcePath: "command_line_flag", Priority: 1}
	}

	var errs []error
	for _, l := range a.loaders {
		s, err := l.Load(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", l.Name(), err))
		}
		snap.Merge(s)
	}
	return snap, errors.Join(errs...)
}
