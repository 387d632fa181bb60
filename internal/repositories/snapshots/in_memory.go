package snapshots

import (
	"context"
	"sync"

	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/uuid"
)

// InMemoryConfig holds configuration for the in-memory repository
type InMemoryConfig struct {
	UUIDGenerator uuid.Generator
	TimeProvider  TimeProvider
}

type inMemoryRepository struct {
	mu            sync.RWMutex
	snapshots     map[string]*Snapshot
	latest        string
	uuidGenerator uuid.Generator
	timeProvider  TimeProvider
}

// NewInMemoryRepository creates a snapshot store that lives for the process
func NewInMemoryRepository(cfg *InMemoryConfig) Repository {
	if cfg == nil {
		cfg = &InMemoryConfig{}
	}
	if cfg.UUIDGenerator == nil {
		cfg.UUIDGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if cfg.TimeProvider == nil {
		cfg.TimeProvider = &RealTimeProvider{}
	}

	return &inMemoryRepository{
		snapshots:     make(map[string]*Snapshot),
		uuidGenerator: cfg.UUIDGenerator,
		timeProvider:  cfg.TimeProvider,
	}
}

func (r *inMemoryRepository) Create(_ context.Context, snapshot *Snapshot) error {
	if snapshot == nil {
		return crafterr.InvalidArgument("snapshot cannot be nil")
	}

	snapshot.ID = r.uuidGenerator.New()
	snapshot.CreatedAt = r.timeProvider.Now()

	stored := *snapshot
	stored.Mods = append(stored.Mods[:0:0], snapshot.Mods...)
	stored.Unmatched = append(stored.Unmatched[:0:0], snapshot.Unmatched...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[stored.ID] = &stored
	r.latest = stored.ID

	return nil
}

func (r *inMemoryRepository) Get(_ context.Context, id string) (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, ok := r.snapshots[id]
	if !ok {
		return nil, crafterr.NotFoundf("snapshot not found: %s", id)
	}
	out := *snapshot
	out.Mods = append(out.Mods[:0:0], snapshot.Mods...)
	out.Unmatched = append(out.Unmatched[:0:0], snapshot.Unmatched...)
	return &out, nil
}

func (r *inMemoryRepository) Latest(ctx context.Context) (*Snapshot, error) {
	r.mu.RLock()
	latest := r.latest
	r.mu.RUnlock()

	if latest == "" {
		return nil, crafterr.NotFoundf("no snapshot has been stored")
	}
	return r.Get(ctx, latest)
}
