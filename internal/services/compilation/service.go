package compilation

import (
	"context"
	"log"

	"github.com/KirkDiggler/craft-sim/internal/catalogs"
	"github.com/KirkDiggler/craft-sim/internal/compiler"
	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/reconciler"
	"github.com/KirkDiggler/craft-sim/internal/repositories/snapshots"
	"github.com/KirkDiggler/craft-sim/internal/repositories/tieredmods"
	"github.com/KirkDiggler/craft-sim/internal/uuid"
)

// Service runs the compilation phase: catalogs, reconciliation, compilation
// and indexing. A failure in any step aborts the whole phase.
type Service interface {
	Compile(ctx context.Context, input *CompileInput) (*CompileOutput, error)

	// LoadLatest rebuilds a repository from the most recent snapshot
	LoadLatest(ctx context.Context) (*LoadOutput, error)
}

// CompileInput holds the two source payloads and curated overrides
type CompileInput struct {
	Simulator *catalogs.SimulatorPayload
	Official  *catalogs.OfficialPayload
	Overrides reconciler.Overrides
	// Persist stores the compiled mods as a snapshot
	Persist bool
}

// CompileOutput is a usable repository plus everything curators need
type CompileOutput struct {
	Repository tieredmods.Repository
	Mods       []*mods.TieredMod
	Result     *reconciler.Result
	Report     *reconciler.Report
	// SnapshotID is set when the run was persisted
	SnapshotID string
}

// LoadOutput is a repository rebuilt from a snapshot
type LoadOutput struct {
	Repository tieredmods.Repository
	Snapshot   *snapshots.Snapshot
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Snapshots     snapshots.Repository // Optional - Persist and LoadLatest need it
	UUIDGenerator uuid.Generator
	TimeProvider  snapshots.TimeProvider
}

type service struct {
	snapshots     snapshots.Repository
	uuidGenerator uuid.Generator
	timeProvider  snapshots.TimeProvider
}

// NewService creates a new compilation service
func NewService(cfg *ServiceConfig) Service {
	svc := &service{
		uuidGenerator: uuid.NewGoogleUUIDGenerator(),
		timeProvider:  &snapshots.RealTimeProvider{},
	}

	if cfg != nil {
		svc.snapshots = cfg.Snapshots
		if cfg.UUIDGenerator != nil {
			svc.uuidGenerator = cfg.UUIDGenerator
		}
		if cfg.TimeProvider != nil {
			svc.timeProvider = cfg.TimeProvider
		}
	}

	return svc
}

func (s *service) Compile(ctx context.Context, input *CompileInput) (*CompileOutput, error) {
	if input == nil {
		return nil, crafterr.InvalidArgument("compile input cannot be nil")
	}
	if input.Persist && s.snapshots == nil {
		return nil, crafterr.Configurationf("persisting a compilation needs a snapshot repository")
	}

	simulator, err := catalogs.NewSimulatorCatalog(input.Simulator)
	if err != nil {
		return nil, crafterr.Wrap(err, "failed to build simulator catalog")
	}
	official, err := catalogs.NewOfficialCatalog(input.Official)
	if err != nil {
		return nil, crafterr.Wrap(err, "failed to build official catalog")
	}

	result, err := reconciler.Reconcile(simulator, official, input.Overrides)
	if err != nil {
		return nil, crafterr.Wrap(err, "failed to reconcile catalogs")
	}

	compiled, err := compiler.Compile(result, simulator, official)
	if err != nil {
		return nil, crafterr.Wrap(err, "failed to compile mods")
	}

	repo, err := tieredmods.NewInMemoryRepository(compiled)
	if err != nil {
		return nil, crafterr.Wrap(err, "failed to index compiled mods")
	}

	output := &CompileOutput{
		Repository: repo,
		Mods:       compiled,
		Result:     result,
		Report:     reconciler.NewReport(result, s.uuidGenerator.New(), s.timeProvider.Now()),
	}

	log.Printf("Compiled %d mods across %d base types (%d matched, %d unmatched)",
		len(compiled), len(repo.BaseTypes()), len(result.Pairs), len(result.Unmatched))

	if input.Persist {
		snapshot := &snapshots.Snapshot{Mods: compiled, Unmatched: result.Unmatched}
		if err := s.snapshots.Create(ctx, snapshot); err != nil {
			return nil, crafterr.Wrap(err, "failed to persist compilation snapshot")
		}
		output.SnapshotID = snapshot.ID
	}

	return output, nil
}

func (s *service) LoadLatest(ctx context.Context) (*LoadOutput, error) {
	if s.snapshots == nil {
		return nil, crafterr.Configurationf("loading a snapshot needs a snapshot repository")
	}

	snapshot, err := s.snapshots.Latest(ctx)
	if err != nil {
		return nil, err
	}

	repo, err := tieredmods.NewInMemoryRepository(snapshot.Mods)
	if err != nil {
		return nil, crafterr.Wrapf(err, "snapshot %s is not usable", snapshot.ID)
	}

	log.Printf("Loaded snapshot %s from %s with %d mods", snapshot.ID, snapshot.CreatedAt.Format("2006-01-02 15:04:05"), len(snapshot.Mods))
	return &LoadOutput{Repository: repo, Snapshot: snapshot}, nil
}
