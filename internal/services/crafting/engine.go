package crafting

import (
	"context"
	"math"

	"github.com/KirkDiggler/craft-sim/internal/dice"
	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/repositories/tieredmods"
)

// Engine enumerates and samples crafting outcomes. It holds no state between
// calls and never mutates the item it is given.
type Engine interface {
	// Simulate returns every reachable outcome of action with its probability
	Simulate(ctx context.Context, item *mods.Item, action Action) ([]*Outcome, error)

	// Sample applies action once, drawing from roller
	Sample(ctx context.Context, item *mods.Item, action Action, roller dice.Roller) (*mods.Item, error)

	// MonteCarlo samples action many times across workers
	MonteCarlo(ctx context.Context, input *MonteCarloInput) (*MonteCarloResult, error)
}

// EngineConfig holds the engine's dependencies
type EngineConfig struct {
	Repository tieredmods.Repository
	Config     *Config
}

type engine struct {
	repo   tieredmods.Repository
	config Config
}

// NewEngine validates configuration and creates an engine
func NewEngine(cfg *EngineConfig) (Engine, error) {
	if cfg == nil {
		return nil, crafterr.InvalidArgument("engine config cannot be nil")
	}
	if cfg.Repository == nil {
		return nil, crafterr.InvalidArgument("mods repository is required")
	}
	if err := cfg.Config.Validate(); err != nil {
		return nil, err
	}

	return &engine{
		repo:   cfg.Repository,
		config: *cfg.Config,
	}, nil
}

// branch is one way the item can look just before the affix is rolled
type branch struct {
	item       *mods.Item
	removed    *mods.AppliedMod
	population []*mods.ModTier
	total      int
}

func (e *engine) Simulate(ctx context.Context, item *mods.Item, action Action) ([]*Outcome, error) {
	branches, err := e.branches(item, action)
	if err != nil {
		return nil, err
	}

	if e.config.MaxOutcomes > 0 {
		n := 0
		for _, b := range branches {
			n += e.outcomeCount(b)
		}
		if n > e.config.MaxOutcomes {
			return nil, crafterr.InvalidArgumentf("action would produce %d outcomes, limit is %d", n, e.config.MaxOutcomes).
				WithMeta("outcomes", n).
				WithMeta("max_outcomes", e.config.MaxOutcomes)
		}
	}

	branchP := 1.0 / float64(len(branches))
	var outcomes []*Outcome
	for _, b := range branches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, t := range b.population {
			tierP := branchP * float64(t.Weight) / float64(b.total)
			outcomes = append(outcomes, e.expand(b, t, tierP)...)
		}
	}

	if err := e.checkSum(item, outcomes); err != nil {
		return nil, err
	}

	sortOutcomes(outcomes)
	return outcomes, nil
}

func (e *engine) outcomeCount(b *branch) int {
	if e.config.Granularity == GranularityTier {
		return len(b.population)
	}
	n := 0
	for _, t := range b.population {
		n += t.ValueCombinations()
	}
	return n
}

// expand turns one chosen tier into outcomes, splitting p uniformly over the
// tier's value tuples when values are resolved
func (e *engine) expand(b *branch, t *mods.ModTier, p float64) []*Outcome {
	if e.config.Granularity == GranularityTier {
		return []*Outcome{newOutcome(b, t, nil, p)}
	}

	combos := t.ValueCombinations()
	out := make([]*Outcome, 0, combos)
	share := p / float64(combos)
	eachValueTuple(t.Ranges, func(values []int) {
		out = append(out, newOutcome(b, t, values, share))
	})
	return out
}

// eachValueTuple walks the cartesian product of the ranges in order
func eachValueTuple(ranges []mods.ValueRange, fn func([]int)) {
	values := make([]int, len(ranges))
	var walk func(i int)
	walk = func(i int) {
		if i == len(ranges) {
			fn(append([]int(nil), values...))
			return
		}
		for v := ranges[i].Min; v <= ranges[i].Max; v++ {
			values[i] = v
			walk(i + 1)
		}
	}
	walk(0)
}

func (e *engine) checkSum(item *mods.Item, outcomes []*Outcome) error {
	sum := 0.0
	for _, o := range outcomes {
		sum += o.Probability
	}
	if math.Abs(sum-1.0) > e.config.Tolerance*math.Max(1.0, math.Abs(sum)) {
		return crafterr.Internalf("outcome probabilities sum to %.12f", sum).
			WithMeta("base_type", item.BaseType).
			WithMeta("outcomes", len(outcomes))
	}
	return nil
}

// branches resolves the item states an affix is rolled onto. add_affix has
// one branch; reroll_affix has one per removable explicit mod, keeping only
// those with a non-empty population.
func (e *engine) branches(item *mods.Item, action Action) ([]*branch, error) {
	if item == nil {
		return nil, crafterr.InvalidArgument("item cannot be nil")
	}
	if item.BaseType == "" {
		return nil, crafterr.InvalidArgument("item base type is required")
	}

	switch action {
	case ActionAddAffix:
		b, err := e.newBranch(item.Clone(), nil)
		if err != nil {
			return nil, err
		}
		if len(b.population) == 0 {
			return nil, e.noEligible(item, action)
		}
		return []*branch{b}, nil

	case ActionRerollAffix:
		var out []*branch
		removable := 0
		for _, class := range mods.ExplicitClasses {
			for idx := range item.Mods[class] {
				removable++
				working := item.Clone()
				removed, _ := working.Remove(class, idx)
				b, err := e.newBranch(working, &removed)
				if err != nil {
					return nil, err
				}
				if len(b.population) > 0 {
					out = append(out, b)
				}
			}
		}
		if removable == 0 {
			return nil, crafterr.NoEligibleModsf("%s needs an explicit mod to remove", action).
				WithMeta("base_type", item.BaseType).
				WithMeta("action", string(action))
		}
		if len(out) == 0 {
			return nil, e.noEligible(item, action)
		}
		return out, nil

	default:
		return nil, crafterr.InvalidArgumentf("unknown crafting action %q", action)
	}
}

func (e *engine) newBranch(working *mods.Item, removed *mods.AppliedMod) (*branch, error) {
	population, err := e.population(working)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, t := range population {
		total += t.Weight
	}
	return &branch{item: working, removed: removed, population: population, total: total}, nil
}

// population is every positively weighted tier that can land in an open
// slot of item, in a stable order
func (e *engine) population(item *mods.Item) ([]*mods.ModTier, error) {
	exclude := item.ModIDs()

	var out []*mods.ModTier
	for _, class := range mods.ExplicitClasses {
		limit, ok := e.config.SlotCaps.Cap(item.Rarity, class)
		if !ok {
			return nil, crafterr.Configurationf("no %s slot cap configured for rarity %q", class, item.Rarity).
				WithMeta("rarity", string(item.Rarity)).
				WithMeta("affix_class", class.String())
		}
		if item.Count(class) >= limit {
			continue
		}

		for _, t := range e.repo.TiersFor(tieredmods.Query{
			BaseType:      item.BaseType,
			MaxILvl:       item.ILvl,
			AffixClass:    class,
			ExcludeModIDs: exclude,
		}) {
			if t.Weight > 0 {
				out = append(out, t)
			}
		}
	}

	mods.SortTiers(out)
	return out, nil
}

func (e *engine) noEligible(item *mods.Item, action Action) error {
	return crafterr.NoEligibleModsf("no eligible mods for %s on %s ilvl %d", action, item.BaseType, item.ILvl).
		WithMeta("base_type", item.BaseType).
		WithMeta("ilvl", item.ILvl).
		WithMeta("rarity", string(item.Rarity)).
		WithMeta("action", string(action))
}
