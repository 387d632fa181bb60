//go:build integration
// +build integration

package snapshots_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/reconciler"
	"github.com/KirkDiggler/craft-sim/internal/repositories/snapshots"
	"github.com/KirkDiggler/craft-sim/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRepository_Integration(t *testing.T) {
	client := testutils.StartRedisContainer(t)
	repo := snapshots.NewRedis(client)
	ctx := context.Background()

	t.Run("nothing stored yet", func(t *testing.T) {
		_, err := repo.Latest(ctx)
		assert.True(t, crafterr.IsNotFound(err))
	})

	t.Run("round trip with concurrent mod reads", func(t *testing.T) {
		snapshot := &snapshots.Snapshot{Unmatched: []reconciler.Unmatched{{SimulatorID: "6", NormalizedText: "+# to accuracy ratingg"}}}
		for _, id := range []string{"official:c", "official:a", "official:b"} {
			snapshot.Mods = append(snapshot.Mods, &mods.TieredMod{
				ID:         id,
				AffixClass: mods.AffixSuffix,
				Tiers: map[string][]*mods.ModTier{
					"boots": {{ModID: id, SourceID: id, BaseType: "boots", AffixClass: mods.AffixSuffix, ILvl: 1, Ranges: []mods.ValueRange{{Min: 6, Max: 11}}, Weight: 1000}},
				},
			})
		}

		require.NoError(t, repo.Create(ctx, snapshot))
		require.NotEmpty(t, snapshot.ID)

		latest, err := repo.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, snapshot.ID, latest.ID)
		assert.Equal(t, snapshot.Unmatched, latest.Unmatched)

		require.Len(t, latest.Mods, 3)
		assert.Equal(t, "official:a", latest.Mods[0].ID)
		assert.Equal(t, "official:b", latest.Mods[1].ID)
		assert.Equal(t, "official:c", latest.Mods[2].ID)
		assert.Equal(t, []mods.ValueRange{{Min: 6, Max: 11}}, latest.Mods[0].Tiers["boots"][0].Ranges)
	})
}
