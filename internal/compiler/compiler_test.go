package compiler_test

import (
	"testing"

	"github.com/KirkDiggler/craft-sim/internal/catalogs"
	"github.com/KirkDiggler/craft-sim/internal/compiler"
	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/reconciler"
	"github.com/KirkDiggler/craft-sim/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, sim *catalogs.SimulatorPayload, off *catalogs.OfficialPayload) ([]*mods.TieredMod, error) {
	t.Helper()

	simulator, err := catalogs.NewSimulatorCatalog(sim)
	require.NoError(t, err)
	official, err := catalogs.NewOfficialCatalog(off)
	require.NoError(t, err)
	result, err := reconciler.Reconcile(simulator, official, nil)
	require.NoError(t, err)

	return compiler.Compile(result, simulator, official)
}

func TestCompile_SplitLadderBecomesOneMod(t *testing.T) {
	tiered, err := compile(t, testutils.CreateClawSimulatorPayload(), testutils.CreateClawOfficialPayload())
	require.NoError(t, err)

	require.Len(t, tiered, 1)
	mod := tiered[0]
	assert.Equal(t, "official:O1", mod.ID)
	assert.Equal(t, "O1", mod.OfficialID)
	assert.False(t, mod.NeedsReconciliation)
	assert.Equal(t, []string{"S1", "S2"}, mod.SimulatorIDs)
	assert.Equal(t, mods.AffixPrefix, mod.AffixClass)
	assert.Equal(t, []string{"claw"}, mod.BaseTypes())

	tiers := mod.TiersFor("claw")
	require.Len(t, tiers, 2)
	assert.Equal(t, 1, tiers[0].ILvl)
	assert.Equal(t, "S1", tiers[0].SourceID)
	assert.Equal(t, 1000, tiers[0].Weight)
	assert.Equal(t, 35, tiers[1].ILvl)
	assert.Equal(t, []mods.ValueRange{{Min: 20, Max: 29}}, tiers[1].Ranges)
	for _, tier := range tiers {
		assert.Equal(t, "official:O1", tier.ModID)
		assert.Equal(t, "claw", tier.BaseType)
		assert.Equal(t, mods.AffixPrefix, tier.AffixClass)
	}
}

func TestCompile_DuplicateTierAcrossIDs(t *testing.T) {
	sim := testutils.CreateClawSimulatorPayload()
	sim.Tiers["S2"] = []catalogs.SimulatorTierRow{
		{Base: "claw", ILvl: 1, Values: [][2]int{{10, 19}}, Weight: 500},
	}

	_, err := compile(t, sim, testutils.CreateClawOfficialPayload())

	require.Error(t, err)
	assert.True(t, crafterr.IsDataError(err))
	meta := crafterr.GetMeta(err)
	assert.Equal(t, "official:O1", meta["mod_id"])
	assert.Equal(t, "claw", meta["base_type"])
	assert.Equal(t, "claw|1|10-19", meta["tier"])
}

func TestCompile_DuplicateTierWithinOneID(t *testing.T) {
	sim := testutils.CreateClawSimulatorPayload()
	sim.Tiers["S1"] = append(sim.Tiers["S1"], catalogs.SimulatorTierRow{
		Base: "claw", ILvl: 1, Values: [][2]int{{10, 19}}, Weight: 1,
	})

	_, err := compile(t, sim, testutils.CreateClawOfficialPayload())

	assert.True(t, crafterr.IsDataError(err))
}

func TestCompile_SameTierOnDifferentBaseTypesIsFine(t *testing.T) {
	sim := testutils.CreateClawSimulatorPayload()
	sim.Tiers["S1"] = append(sim.Tiers["S1"], catalogs.SimulatorTierRow{
		Base: "dagger", ILvl: 1, Values: [][2]int{{10, 19}}, Weight: 1000,
	})

	tiered, err := compile(t, sim, testutils.CreateClawOfficialPayload())
	require.NoError(t, err)

	require.Len(t, tiered, 1)
	assert.Equal(t, []string{"claw", "dagger"}, tiered[0].BaseTypes())
	assert.Len(t, tiered[0].TiersFor("dagger"), 1)
}

func TestCompile_UnmatchedModsAreKeptAndFlagged(t *testing.T) {
	tiered, err := compile(t, testutils.CreateMixedSimulatorPayload(), testutils.CreateMixedOfficialPayload())
	require.NoError(t, err)

	require.Len(t, tiered, 6)
	var unmatched []*mods.TieredMod
	for _, m := range tiered {
		if m.NeedsReconciliation {
			unmatched = append(unmatched, m)
		}
	}

	require.Len(t, unmatched, 1)
	assert.Equal(t, "text:# to accuracy ratingg", unmatched[0].ID)
	assert.Empty(t, unmatched[0].OfficialID)
	assert.Equal(t, []string{"6"}, unmatched[0].SimulatorIDs)
	assert.Len(t, unmatched[0].TiersFor("claw"), 1)
}

func TestCompile_OfficialAffixClassIsAuthoritative(t *testing.T) {
	off := testutils.CreateMixedOfficialPayload()
	for i := range off.Mods {
		if off.Mods[i].ID == "explicit.stat_4220027924" {
			off.Mods[i].Type = "prefix"
		}
	}

	tiered, err := compile(t, testutils.CreateMixedSimulatorPayload(), off)
	require.NoError(t, err)

	byID := make(map[string]*mods.TieredMod)
	for _, m := range tiered {
		byID[m.ID] = m
	}

	cold := byID["official:explicit.stat_4220027924"]
	require.NotNil(t, cold)
	assert.Equal(t, mods.AffixPrefix, cold.AffixClass)
	assert.Equal(t, mods.AffixPrefix, cold.TiersFor("boots")[0].AffixClass)

	// official "explicit" carries no placement, so the simulator decides
	speed := byID["official:explicit.stat_210067635"]
	require.NotNil(t, speed)
	assert.Equal(t, mods.AffixSuffix, speed.AffixClass)
}

func TestCompile_NoClassAnywhere(t *testing.T) {
	sim := &catalogs.SimulatorPayload{
		Mods: map[string]catalogs.SimulatorMod{"A": {Text: "life", Affix: "explicit"}},
	}
	off := &catalogs.OfficialPayload{Mods: []catalogs.OfficialMod{{ID: "O1", Text: "life", Type: "explicit"}}}

	_, err := compile(t, sim, off)

	assert.True(t, crafterr.IsDataError(err))
}

func TestCompile_OverrideFoldingDifferentClasses(t *testing.T) {
	simulator, err := catalogs.NewSimulatorCatalog(&catalogs.SimulatorPayload{
		Mods: map[string]catalogs.SimulatorMod{
			"A": {Text: "life", Affix: "prefix"},
			"B": {Text: "vigour", Affix: "suffix"},
		},
	})
	require.NoError(t, err)
	official, err := catalogs.NewOfficialCatalog(&catalogs.OfficialPayload{
		Mods: []catalogs.OfficialMod{{ID: "O1", Text: "life", Type: "explicit"}},
	})
	require.NoError(t, err)
	result, err := reconciler.Reconcile(simulator, official, reconciler.Overrides{"B": "O1"})
	require.NoError(t, err)

	_, err = compiler.Compile(result, simulator, official)

	assert.True(t, crafterr.IsDataError(err))
}

func TestCompile_Deterministic(t *testing.T) {
	first, err := compile(t, testutils.CreateMixedSimulatorPayload(), testutils.CreateMixedOfficialPayload())
	require.NoError(t, err)
	second, err := compile(t, testutils.CreateMixedSimulatorPayload(), testutils.CreateMixedOfficialPayload())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompile_RequiresInputs(t *testing.T) {
	simulator, err := catalogs.NewSimulatorCatalog(testutils.CreateClawSimulatorPayload())
	require.NoError(t, err)
	official, err := catalogs.NewOfficialCatalog(testutils.CreateClawOfficialPayload())
	require.NoError(t, err)
	result, err := reconciler.Reconcile(simulator, official, nil)
	require.NoError(t, err)

	var nilSimulator *catalogs.SimulatorCatalog
	var nilOfficial *catalogs.OfficialCatalog

	tests := []struct {
		name      string
		result    *reconciler.Result
		simulator catalogs.Catalog
		official  catalogs.Catalog
	}{
		{name: "nil result", simulator: simulator, official: official},
		{name: "nil simulator", result: result, official: official},
		{name: "nil simulator pointer", result: result, simulator: nilSimulator, official: official},
		{name: "nil official pointer", result: result, simulator: simulator, official: nilOfficial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.Compile(tt.result, tt.simulator, tt.official)
			assert.True(t, crafterr.IsInvalidArgument(err))
		})
	}
}
