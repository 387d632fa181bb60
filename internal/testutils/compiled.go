package testutils

import (
	"testing"

	"github.com/KirkDiggler/craft-sim/internal/catalogs"
	"github.com/KirkDiggler/craft-sim/internal/compiler"
	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	"github.com/KirkDiggler/craft-sim/internal/reconciler"
	"github.com/KirkDiggler/craft-sim/internal/repositories/tieredmods"
	"github.com/stretchr/testify/require"
)

// CompilePayloads runs catalogs, reconciliation and compilation over the
// payloads and fails the test on any error
func CompilePayloads(t *testing.T, sim *catalogs.SimulatorPayload, official *catalogs.OfficialPayload) []*mods.TieredMod {
	t.Helper()

	simCatalog, err := catalogs.NewSimulatorCatalog(sim)
	require.NoError(t, err)
	officialCatalog, err := catalogs.NewOfficialCatalog(official)
	require.NoError(t, err)

	result, err := reconciler.Reconcile(simCatalog, officialCatalog, nil)
	require.NoError(t, err)

	compiled, err := compiler.Compile(result, simCatalog, officialCatalog)
	require.NoError(t, err)
	return compiled
}

// CreateModsRepository compiles the payloads into an in-memory repository
func CreateModsRepository(t *testing.T, sim *catalogs.SimulatorPayload, official *catalogs.OfficialPayload) tieredmods.Repository {
	t.Helper()

	repo, err := tieredmods.NewInMemoryRepository(CompilePayloads(t, sim, official))
	require.NoError(t, err)
	return repo
}
