package snapshots

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/reconciler"
	"github.com/KirkDiggler/craft-sim/internal/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const latestKey = "snapshots:latest"

// Data is the serialized snapshot header. Mods are stored under their own
// keys so a reader can fetch them concurrently.
type Data struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	ModCount  int                    `json:"mod_count"`
	Unmatched []reconciler.Unmatched `json:"unmatched"`
}

// RedisConfig holds configuration for the Redis repository
type RedisConfig struct {
	Client        redis.UniversalClient
	UUIDGenerator uuid.Generator
	TimeProvider  TimeProvider
}

type redisRepo struct {
	client        redis.UniversalClient
	uuidGenerator uuid.Generator
	timeProvider  TimeProvider
}

// NewRedisRepository creates a new Redis-backed snapshot repository
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, crafterr.InvalidArgument("redis config cannot be nil")
	}
	if cfg.Client == nil {
		return nil, crafterr.InvalidArgument("redis client cannot be nil")
	}
	if cfg.UUIDGenerator == nil {
		return nil, crafterr.InvalidArgument("uuid generator cannot be nil")
	}
	if cfg.TimeProvider == nil {
		return nil, crafterr.InvalidArgument("time provider cannot be nil")
	}

	return &redisRepo{
		client:        cfg.Client,
		uuidGenerator: cfg.UUIDGenerator,
		timeProvider:  cfg.TimeProvider,
	}, nil
}

func headerKey(id string) string {
	return fmt.Sprintf("snapshot:%s", id)
}

func modKey(id, modID string) string {
	return fmt.Sprintf("snapshot:%s:mod:%s", id, modID)
}

func modsKey(id string) string {
	return fmt.Sprintf("snapshot:%s:mods", id)
}

func (r *redisRepo) Create(ctx context.Context, snapshot *Snapshot) error {
	if snapshot == nil {
		return crafterr.InvalidArgument("snapshot cannot be nil")
	}
	for _, m := range snapshot.Mods {
		if m == nil {
			return crafterr.InvalidArgument("snapshot mod cannot be nil")
		}
	}

	// the caller's snapshot is only updated once the write succeeded
	id := r.uuidGenerator.New()
	createdAt := r.timeProvider.Now()

	header, err := json.Marshal(Data{
		ID:        id,
		CreatedAt: createdAt,
		ModCount:  len(snapshot.Mods),
		Unmatched: snapshot.Unmatched,
	})
	if err != nil {
		return crafterr.Wrap(err, "failed to marshal snapshot header")
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, headerKey(id), string(header), 0)

	members := make([]any, 0, len(snapshot.Mods))
	for _, m := range snapshot.Mods {
		data, err := json.Marshal(m)
		if err != nil {
			return crafterr.Wrapf(err, "failed to marshal mod %s", m.ID)
		}
		pipe.Set(ctx, modKey(id, m.ID), string(data), 0)
		members = append(members, m.ID)
	}
	if len(members) > 0 {
		pipe.SAdd(ctx, modsKey(id), members...)
	}
	pipe.Set(ctx, latestKey, id, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return crafterr.Wrap(err, "failed to store snapshot in Redis")
	}
	snapshot.ID = id
	snapshot.CreatedAt = createdAt

	log.Printf("Stored snapshot %s with %d mods", snapshot.ID, len(snapshot.Mods))
	return nil
}

func (r *redisRepo) Get(ctx context.Context, id string) (*Snapshot, error) {
	raw, err := r.client.Get(ctx, headerKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, crafterr.NotFoundf("snapshot not found: %s", id)
		}
		return nil, crafterr.Wrap(err, "failed to get snapshot from Redis")
	}

	var header Data
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, crafterr.Wrap(err, "failed to unmarshal snapshot header")
	}

	modIDs, err := r.client.SMembers(ctx, modsKey(id)).Result()
	if err != nil {
		return nil, crafterr.Wrap(err, "failed to list snapshot mods")
	}
	if len(modIDs) != header.ModCount {
		return nil, crafterr.Internalf("snapshot %s lists %d mods, header says %d", id, len(modIDs), header.ModCount).
			WithMeta("snapshot_id", id)
	}
	sort.Strings(modIDs)

	tiered := make([]*mods.TieredMod, len(modIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, modID := range modIDs {
		g.Go(func() error {
			data, err := r.client.Get(gctx, modKey(id, modID)).Bytes()
			if err != nil {
				return crafterr.Wrapf(err, "failed to get mod %s", modID)
			}
			var m mods.TieredMod
			if err := json.Unmarshal(data, &m); err != nil {
				return crafterr.Wrapf(err, "failed to unmarshal mod %s", modID)
			}
			tiered[i] = &m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{
		ID:        header.ID,
		CreatedAt: header.CreatedAt,
		Mods:      tiered,
		Unmatched: header.Unmatched,
	}, nil
}

func (r *redisRepo) Latest(ctx context.Context) (*Snapshot, error) {
	id, err := r.client.Get(ctx, latestKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, crafterr.NotFoundf("no snapshot has been stored")
		}
		return nil, crafterr.Wrap(err, "failed to get latest snapshot id")
	}

	return r.Get(ctx, id)
}
