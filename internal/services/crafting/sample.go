package crafting

import (
	"context"

	"github.com/KirkDiggler/craft-sim/internal/dice"
	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
)

func (e *engine) Sample(ctx context.Context, item *mods.Item, action Action, roller dice.Roller) (*mods.Item, error) {
	if roller == nil {
		return nil, crafterr.InvalidArgument("roller cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	branches, err := e.branches(item, action)
	if err != nil {
		return nil, err
	}

	out, _, err := draw(branches, roller)
	return out, err
}

// draw applies one concrete roll: a uniform branch, a weighted tier, then a
// uniform value per range. Values are always resolved.
func draw(branches []*branch, roller dice.Roller) (*mods.Item, *mods.ModTier, error) {
	b := branches[0]
	if len(branches) > 1 {
		idx, err := rollIndex(roller, len(branches))
		if err != nil {
			return nil, nil, err
		}
		b = branches[idx]
	}

	t, err := pickTier(b, roller)
	if err != nil {
		return nil, nil, err
	}

	values := make([]int, len(t.Ranges))
	for i, r := range t.Ranges {
		idx, err := rollIndex(roller, r.Size())
		if err != nil {
			return nil, nil, err
		}
		values[i] = r.Min + idx
	}

	out := b.item.Clone()
	out.Add(mods.AppliedMod{
		ModID:      t.ModID,
		AffixClass: t.AffixClass,
		Tier:       t,
		Values:     values,
	})
	return out, t, nil
}

// pickTier rolls 1d(total weight) and walks the cumulative weights
func pickTier(b *branch, roller dice.Roller) (*mods.ModTier, error) {
	idx, err := rollIndex(roller, b.total)
	if err != nil {
		return nil, err
	}

	for _, t := range b.population {
		if idx < t.Weight {
			return t, nil
		}
		idx -= t.Weight
	}
	return nil, crafterr.Internalf("weighted roll fell outside population total %d", b.total)
}

// rollIndex returns a zero-based index in [0, n)
func rollIndex(roller dice.Roller, n int) (int, error) {
	result, err := roller.Roll(1, n, 0)
	if err != nil {
		return 0, crafterr.Wrap(err, "failed to roll")
	}
	if result.Total < 1 || result.Total > n {
		return 0, crafterr.Internalf("roll %d outside 1..%d", result.Total, n)
	}
	return result.Total - 1, nil
}
