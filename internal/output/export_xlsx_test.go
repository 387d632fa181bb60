package output_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/KirkDiggler/craft-sim/internal/config"
	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	"github.com/KirkDiggler/craft-sim/internal/output"
	"github.com/KirkDiggler/craft-sim/internal/reconciler"
	"github.com/KirkDiggler/craft-sim/internal/services/crafting"
	"github.com/KirkDiggler/craft-sim/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportReportXLSX(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	report := &reconciler.Report{
		RunID:       "run-1",
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Matched:     5,
		Unmatched: []reconciler.Unmatched{{
			SimulatorID:    "6",
			NormalizedText: "+# to accuracy ratingg",
			Suggestions: []reconciler.Suggestion{
				{OfficialID: "explicit.stat_803737631", Text: "+# to accuracy rating", Distance: 1},
			},
		}},
	}

	filename, err := output.ExportReportXLSX(dir, report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20250601_reconciliation_run-1.xlsx"), filename)

	f, err := excelize.OpenFile(filename)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Unmatched", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Simulator ID", header)

	id, _ := f.GetCellValue("Unmatched", "A2")
	text, _ := f.GetCellValue("Unmatched", "B2")
	suggestion, _ := f.GetCellValue("Unmatched", "C2")
	official, _ := f.GetCellValue("Unmatched", "D2")
	distance, _ := f.GetCellValue("Unmatched", "E2")
	assert.Equal(t, "6", id)
	assert.Equal(t, "+# to accuracy ratingg", text)
	assert.Equal(t, "+# to accuracy rating", suggestion)
	assert.Equal(t, "explicit.stat_803737631", official)
	assert.Equal(t, "1", distance)

	matched, _ := f.GetCellValue("Summary", "B3")
	assert.Equal(t, "5", matched)
}

func TestExportReportXLSX_NilReport(t *testing.T) {
	_, err := output.ExportReportXLSX(t.TempDir(), nil)
	assert.Error(t, err)
}

func TestExportOutcomesXLSX(t *testing.T) {
	repo := testutils.CreateModsRepository(t, testutils.CreateClawSimulatorPayload(), testutils.CreateClawOfficialPayload())
	engine, err := crafting.NewEngine(&crafting.EngineConfig{
		Repository: repo,
		Config: &crafting.Config{
			SlotCaps:    config.DefaultSlotCaps(),
			Tolerance:   crafting.DefaultTolerance,
			Granularity: crafting.GranularityValue,
		},
	})
	require.NoError(t, err)

	item := testutils.CreateTestItem("claw", 10, mods.RarityRare)
	outcomes, err := engine.Simulate(context.Background(), item, crafting.ActionAddAffix)
	require.NoError(t, err)
	mc, err := engine.MonteCarlo(context.Background(), &crafting.MonteCarloInput{
		Item: item, Action: crafting.ActionAddAffix, Iterations: 50, Workers: 2, Seed: 1,
	})
	require.NoError(t, err)

	dir := t.TempDir()
	filename, err := output.ExportOutcomesXLSX(dir, "claw10", outcomes, mc)
	require.NoError(t, err)

	f, err := excelize.OpenFile(filename)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Outcomes")
	require.NoError(t, err)
	assert.Len(t, rows, 11)
	assert.Equal(t, "official:O1", rows[1][0])
	assert.Equal(t, "prefix", rows[1][1])
	assert.Equal(t, "S1", rows[1][3])
	assert.Equal(t, "10", rows[1][4])

	mcRows, err := f.GetRows("Monte Carlo")
	require.NoError(t, err)
	require.Len(t, mcRows, 2)
	assert.Equal(t, "50", mcRows[1][1])
}

func TestExportOutcomesXLSX_RequiresName(t *testing.T) {
	_, err := output.ExportOutcomesXLSX(t.TempDir(), "", nil, nil)
	assert.Error(t, err)
}
