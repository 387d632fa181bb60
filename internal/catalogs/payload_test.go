package catalogs_test

import (
	"strings"
	"testing"

	"github.com/KirkDiggler/craft-sim/internal/catalogs"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSimulatorPayload(t *testing.T) {
	doc := `{
		"mods": {"S1": {"text": "increased physical damage", "affix": "prefix"}},
		"tiers": {"S1": [{"base": "claw", "ilvl": 1, "values": [[10, 19]], "weighting": 1000}]}
	}`

	payload, err := catalogs.DecodeSimulatorPayload(strings.NewReader(doc))

	require.NoError(t, err)
	assert.Equal(t, "prefix", payload.Mods["S1"].Affix)
	require.Len(t, payload.Tiers["S1"], 1)
	assert.Equal(t, [][2]int{{10, 19}}, payload.Tiers["S1"][0].Values)
	assert.Equal(t, 1000, payload.Tiers["S1"][0].Weight)

	catalog, err := catalogs.NewSimulatorCatalog(payload)
	require.NoError(t, err)
	assert.Len(t, catalog.TiersFor("S1", "claw"), 1)
}

func TestDecodeOfficialPayload(t *testing.T) {
	doc := `{"mods": [{"id": "O1", "text": "increased physical damage", "type": "explicit"}]}`

	payload, err := catalogs.DecodeOfficialPayload(strings.NewReader(doc))

	require.NoError(t, err)
	require.Len(t, payload.Mods, 1)
	assert.Equal(t, "O1", payload.Mods[0].ID)
}

func TestDecodePayload_Malformed(t *testing.T) {
	_, err := catalogs.DecodeSimulatorPayload(strings.NewReader(`{"mods": [`))
	assert.True(t, crafterr.IsDataError(err))
	assert.Equal(t, "simulator", crafterr.GetMeta(err)["source"])

	_, err = catalogs.DecodeOfficialPayload(strings.NewReader(`not json`))
	assert.True(t, crafterr.IsDataError(err))
}
