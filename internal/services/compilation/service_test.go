package compilation_test

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/craft-sim/internal/catalogs"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/reconciler"
	"github.com/KirkDiggler/craft-sim/internal/repositories/snapshots"
	mocksnapshots "github.com/KirkDiggler/craft-sim/internal/repositories/snapshots/mocks"
	"github.com/KirkDiggler/craft-sim/internal/repositories/tieredmods"
	"github.com/KirkDiggler/craft-sim/internal/services/compilation"
	"github.com/KirkDiggler/craft-sim/internal/testutils"
	mockuuid "github.com/KirkDiggler/craft-sim/internal/uuid/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	uuidGenerator *mockuuid.MockGenerator
	timeProvider  *mocksnapshots.MockTimeProvider
	snapshots     snapshots.Repository
	service       compilation.Service
	now           time.Time
	ctx           context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.uuidGenerator = mockuuid.NewMockGenerator(s.ctrl)
	s.timeProvider = mocksnapshots.NewMockTimeProvider(s.ctrl)
	s.snapshots = snapshots.NewInMemoryRepository(nil)
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = context.Background()

	s.service = compilation.NewService(&compilation.ServiceConfig{
		Snapshots:     s.snapshots,
		UUIDGenerator: s.uuidGenerator,
		TimeProvider:  s.timeProvider,
	})
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) expectRun(id string) {
	s.uuidGenerator.EXPECT().New().Return(id)
	s.timeProvider.EXPECT().Now().Return(s.now)
}

func (s *ServiceTestSuite) TestCompile_ClawScenario() {
	s.expectRun("run-1")

	out, err := s.service.Compile(s.ctx, &compilation.CompileInput{
		Simulator: testutils.CreateClawSimulatorPayload(),
		Official:  testutils.CreateClawOfficialPayload(),
	})

	s.Require().NoError(err)
	s.Require().Len(out.Mods, 1)
	s.Equal("official:O1", out.Mods[0].ID)
	s.Len(out.Mods[0].TiersFor("claw"), 2)

	s.Equal("O1", mustOfficial(s, out.Result, "S1"))
	s.Equal("O1", mustOfficial(s, out.Result, "S2"))
	s.Empty(out.Result.Unmatched)

	s.Equal("run-1", out.Report.RunID)
	s.Equal(s.now, out.Report.GeneratedAt)
	s.Equal(2, out.Report.Matched)
	s.Empty(out.Report.Unmatched)
	s.Empty(out.SnapshotID)

	tiers := out.Repository.TiersFor(tieredmods.Query{BaseType: "claw", MaxILvl: 10})
	s.Require().Len(tiers, 1)
	s.Equal("S1", tiers[0].SourceID)
}

func mustOfficial(s *ServiceTestSuite, result *reconciler.Result, simID string) string {
	id, ok := result.OfficialFor(simID)
	s.Require().True(ok, simID)
	return id
}

func (s *ServiceTestSuite) TestCompile_PersistAndLoadLatest() {
	s.expectRun("run-2")

	out, err := s.service.Compile(s.ctx, &compilation.CompileInput{
		Simulator: testutils.CreateMixedSimulatorPayload(),
		Official:  testutils.CreateMixedOfficialPayload(),
		Persist:   true,
	})
	s.Require().NoError(err)
	s.NotEmpty(out.SnapshotID)
	s.Require().Len(out.Report.Unmatched, 1)
	s.Equal("6", out.Report.Unmatched[0].SimulatorID)

	loaded, err := s.service.LoadLatest(s.ctx)
	s.Require().NoError(err)
	s.Equal(out.SnapshotID, loaded.Snapshot.ID)
	s.Equal(out.Result.Unmatched, loaded.Snapshot.Unmatched)
	s.Equal(out.Repository.BaseTypes(), loaded.Repository.BaseTypes())
	s.Len(loaded.Repository.List(), len(out.Mods))
}

func (s *ServiceTestSuite) TestCompile_OverrideRescuesUnmatched() {
	s.expectRun("run-3")

	out, err := s.service.Compile(s.ctx, &compilation.CompileInput{
		Simulator: testutils.CreateMixedSimulatorPayload(),
		Official:  testutils.CreateMixedOfficialPayload(),
		Overrides: reconciler.Overrides{"6": "explicit.stat_803737631"},
	})

	s.Require().NoError(err)
	s.Empty(out.Report.Unmatched)
	s.Equal(1, out.Report.Curated)
	_, err = out.Repository.Get("official:explicit.stat_803737631")
	s.NoError(err)
}

func (s *ServiceTestSuite) TestCompile_DuplicateTierAbortsPhase() {
	sim := testutils.CreateClawSimulatorPayload()
	sim.Tiers["S2"] = sim.Tiers["S1"]

	out, err := s.service.Compile(s.ctx, &compilation.CompileInput{
		Simulator: sim,
		Official:  testutils.CreateClawOfficialPayload(),
		Persist:   true,
	})

	s.Nil(out)
	s.True(crafterr.IsDataError(err))

	_, err = s.snapshots.Latest(s.ctx)
	s.True(crafterr.IsNotFound(err))
}

func (s *ServiceTestSuite) TestCompile_AmbiguousOfficialTextAbortsPhase() {
	official := testutils.CreateClawOfficialPayload()
	official.Mods = append(official.Mods, catalogs.OfficialMod{ID: "O2", Text: "Increased Physical Damage", Type: "explicit"})

	out, err := s.service.Compile(s.ctx, &compilation.CompileInput{
		Simulator: testutils.CreateClawSimulatorPayload(),
		Official:  official,
	})

	s.Nil(out)
	s.True(crafterr.IsDataError(err))
}

func (s *ServiceTestSuite) TestCompile_MissingPayloads() {
	_, err := s.service.Compile(s.ctx, nil)
	s.True(crafterr.IsInvalidArgument(err))

	_, err = s.service.Compile(s.ctx, &compilation.CompileInput{Official: testutils.CreateClawOfficialPayload()})
	s.True(crafterr.IsDataError(err))
}

func (s *ServiceTestSuite) TestLoadLatest_NothingStored() {
	_, err := s.service.LoadLatest(s.ctx)

	s.True(crafterr.IsNotFound(err))
}

func TestService_WithoutSnapshotRepository(t *testing.T) {
	svc := compilation.NewService(nil)
	ctx := context.Background()

	_, err := svc.Compile(ctx, &compilation.CompileInput{
		Simulator: testutils.CreateClawSimulatorPayload(),
		Official:  testutils.CreateClawOfficialPayload(),
		Persist:   true,
	})
	if !crafterr.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	_, err = svc.LoadLatest(ctx)
	if !crafterr.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	out, err := svc.Compile(ctx, &compilation.CompileInput{
		Simulator: testutils.CreateClawSimulatorPayload(),
		Official:  testutils.CreateClawOfficialPayload(),
	})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if out.Report.RunID == "" {
		t.Fatal("expected a generated run id")
	}
}
