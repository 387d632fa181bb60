package tieredmods

import (
	"sort"

	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
)

// inMemoryRepository is built once and never written again, so concurrent
// readers need no lock
type inMemoryRepository struct {
	byID   map[string]*mods.TieredMod
	sorted []*mods.TieredMod
	// base type -> affix class -> tiers sorted by ilvl
	index map[string]map[mods.AffixClass][]*mods.ModTier
	bases []string
}

// NewInMemoryRepository indexes compiled mods
func NewInMemoryRepository(tiered []*mods.TieredMod) (Repository, error) {
	r := &inMemoryRepository{
		byID:  make(map[string]*mods.TieredMod, len(tiered)),
		index: make(map[string]map[mods.AffixClass][]*mods.ModTier),
	}

	for _, m := range tiered {
		if m == nil {
			return nil, crafterr.InvalidArgument("compiled mod cannot be nil")
		}
		if _, exists := r.byID[m.ID]; exists {
			return nil, crafterr.DataErrorf("compiled mod %s appears more than once", m.ID).
				WithMeta("mod_id", m.ID)
		}
		r.byID[m.ID] = m
		r.sorted = append(r.sorted, m)

		for base, tiers := range m.Tiers {
			for _, t := range tiers {
				if t.BaseType != base {
					return nil, crafterr.DataErrorf("mod %s has a %s tier filed under %s", m.ID, t.BaseType, base).
						WithMeta("mod_id", m.ID).
						WithMeta("base_type", base)
				}
				if r.index[base] == nil {
					r.index[base] = make(map[mods.AffixClass][]*mods.ModTier)
				}
				r.index[base][t.AffixClass] = append(r.index[base][t.AffixClass], t)
			}
		}
	}

	sort.Slice(r.sorted, func(i, j int) bool { return r.sorted[i].ID < r.sorted[j].ID })
	for base, byClass := range r.index {
		r.bases = append(r.bases, base)
		for _, tiers := range byClass {
			sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].ILvl < tiers[j].ILvl })
		}
	}
	sort.Strings(r.bases)

	return r, nil
}

// TiersFor filters base type, then excluded identities, then affix class,
// then the ilvl ceiling (binary search over the ilvl-sorted class slices)
func (r *inMemoryRepository) TiersFor(q Query) []*mods.ModTier {
	byClass, ok := r.index[q.BaseType]
	if !ok {
		return nil
	}

	var excluded map[string]bool
	if len(q.ExcludeModIDs) > 0 {
		excluded = make(map[string]bool, len(q.ExcludeModIDs))
		for _, id := range q.ExcludeModIDs {
			excluded[id] = true
		}
	}

	var out []*mods.ModTier
	collect := func(tiers []*mods.ModTier) {
		cut := sort.Search(len(tiers), func(i int) bool { return tiers[i].ILvl > q.MaxILvl })
		for _, t := range tiers[:cut] {
			if excluded[t.ModID] {
				continue
			}
			out = append(out, t)
		}
	}

	if q.AffixClass != mods.AffixNone {
		collect(byClass[q.AffixClass])
		return out
	}
	for _, tiers := range byClass {
		collect(tiers)
	}
	return out
}

func (r *inMemoryRepository) Get(id string) (*mods.TieredMod, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, crafterr.NotFoundf("compiled mod not found: %s", id)
	}
	return m, nil
}

func (r *inMemoryRepository) List() []*mods.TieredMod {
	return append([]*mods.TieredMod(nil), r.sorted...)
}

func (r *inMemoryRepository) BaseTypes() []string {
	return append([]string(nil), r.bases...)
}
