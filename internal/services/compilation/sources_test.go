package compilation_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/services/compilation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	simulatorDoc = `{
		"mods": {"S1": {"text": "+# to maximum life", "affix": "prefix"}},
		"tiers": {"S1": [{"base": "boots", "ilvl": 1, "values": [[10, 19]], "weighting": 1000}]}
	}`
	officialDoc  = `{"mods": [{"id": "O1", "text": "+# to maximum Life", "type": "explicit"}]}`
	overridesDoc = "overrides:\n  \"S1\": O1\n"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	files := &compilation.SourceFiles{
		SimulatorPath: writeFile(t, dir, "sim.json", simulatorDoc),
		OfficialPath:  writeFile(t, dir, "official.json", officialDoc),
		OverridesPath: writeFile(t, dir, "overrides.yaml", overridesDoc),
	}

	input, err := compilation.ReadInput(files)
	require.NoError(t, err)
	assert.Equal(t, "O1", input.Overrides["S1"])

	output, err := compilation.NewService(nil).Compile(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, output.Mods, 1)
	assert.Equal(t, []string{"boots"}, output.Repository.BaseTypes())
}

func TestReadInput_OverridesOptional(t *testing.T) {
	dir := t.TempDir()

	input, err := compilation.ReadInput(&compilation.SourceFiles{
		SimulatorPath: writeFile(t, dir, "sim.json", simulatorDoc),
		OfficialPath:  writeFile(t, dir, "official.json", officialDoc),
	})

	require.NoError(t, err)
	assert.Empty(t, input.Overrides)
}

func TestReadInput_Errors(t *testing.T) {
	dir := t.TempDir()
	sim := writeFile(t, dir, "sim.json", simulatorDoc)
	official := writeFile(t, dir, "official.json", officialDoc)
	broken := writeFile(t, dir, "broken.json", `{"mods": [`)

	tests := []struct {
		name  string
		files *compilation.SourceFiles
		check func(error) bool
	}{
		{
			name:  "nil files",
			files: nil,
			check: crafterr.IsInvalidArgument,
		},
		{
			name:  "missing simulator path",
			files: &compilation.SourceFiles{OfficialPath: official},
			check: crafterr.IsConfiguration,
		},
		{
			name:  "official file does not exist",
			files: &compilation.SourceFiles{SimulatorPath: sim, OfficialPath: filepath.Join(dir, "nope.json")},
			check: crafterr.IsConfiguration,
		},
		{
			name:  "malformed simulator payload",
			files: &compilation.SourceFiles{SimulatorPath: broken, OfficialPath: official},
			check: crafterr.IsDataError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compilation.ReadInput(tt.files)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
		})
	}
}
