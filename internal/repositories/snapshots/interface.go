package snapshots

import (
	"context"
	"time"

	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	"github.com/KirkDiggler/craft-sim/internal/reconciler"
)

// Snapshot is a persisted compilation result
type Snapshot struct {
	ID        string
	CreatedAt time.Time
	Mods      []*mods.TieredMod
	Unmatched []reconciler.Unmatched
}

// Repository defines the interface for snapshot storage operations
type Repository interface {
	// Create assigns the snapshot an ID and creation time, stores it and
	// marks it as the latest
	Create(ctx context.Context, snapshot *Snapshot) error
	Get(ctx context.Context, id string) (*Snapshot, error)
	Latest(ctx context.Context) (*Snapshot, error)
}
