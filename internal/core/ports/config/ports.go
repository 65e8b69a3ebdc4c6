package configports

import (
	"context"

	configdomain "github.com/noar-utils/snapshooter/internal/core/domain/config"
)

// Loader produces configuration entries from one source
type Loader interface {
	Load(ctx context.Context) (configdomain.Snapshot, error)
	Name() string
}
