// Package compiler joins reconciled id pairs with catalog tier data to build
// canonical TieredMods.
package compiler

import (
	"log"
	"sort"

	"github.com/KirkDiggler/craft-sim/internal/catalogs"
	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/reconciler"
)

const (
	officialPrefix = "official:"
	textPrefix     = "text:"
)

// Compile builds one TieredMod per distinct mod identity.
//
// Matched simulator ids are grouped by official id; unmatched ones by their
// normalized text and flagged for reconciliation. Tiers always come from the
// simulator catalog. The official catalog decides the affix class when it
// names a placement; otherwise the simulator's classification is used.
// A duplicate (base type, ilvl, ranges) tier within one mod is a data error.
func Compile(result *reconciler.Result, simulator, official catalogs.Catalog) ([]*mods.TieredMod, error) {
	if result == nil || catalogs.IsNil(simulator) || catalogs.IsNil(official) {
		return nil, crafterr.InvalidArgument("reconciliation result and both catalogs are required")
	}

	builders := make(map[string]*builder)
	var order []string

	for _, text := range simulator.Texts() {
		for _, simID := range simulator.IDsFor(text) {
			entry, _ := simulator.Mod(simID)

			modID := textPrefix + string(text)
			officialID, matched := result.OfficialFor(simID)
			if matched {
				modID = officialPrefix + officialID
			}

			b, ok := builders[modID]
			if !ok {
				b = newBuilder(modID, entry, officialID, matched)
				builders[modID] = b
				order = append(order, modID)
			}
			if err := b.addSimulatorMod(entry, simulator); err != nil {
				return nil, err
			}
		}
	}

	sort.Strings(order)
	out := make([]*mods.TieredMod, 0, len(order))
	for _, modID := range order {
		tiered, err := builders[modID].build(official)
		if err != nil {
			return nil, err
		}
		out = append(out, tiered)
	}

	return out, nil
}

type builder struct {
	mod        *mods.TieredMod
	simClass   mods.AffixClass
	simClassOf string
	seen       map[string]string
}

func newBuilder(modID string, entry catalogs.Entry, officialID string, matched bool) *builder {
	return &builder{
		mod: &mods.TieredMod{
			ID:                  modID,
			Text:                entry.Text,
			OfficialID:          officialID,
			NeedsReconciliation: !matched,
			Group:               entry.Group,
			Tiers:               make(map[string][]*mods.ModTier),
		},
		simClass:   entry.AffixClass,
		simClassOf: entry.ID,
		seen:       make(map[string]string),
	}
}

func (b *builder) addSimulatorMod(entry catalogs.Entry, simulator catalogs.Catalog) error {
	if entry.AffixClass != b.simClass {
		// curated overrides can fold differently classified simulator mods together
		return crafterr.DataErrorf("simulator mods %s (%s) and %s (%s) compile to %s with different affix classes",
			b.simClassOf, b.simClass, entry.ID, entry.AffixClass, b.mod.ID).
			WithMeta("mod_id", b.mod.ID).
			WithMeta("candidates", []string{b.simClassOf, entry.ID})
	}
	b.mod.SimulatorIDs = append(b.mod.SimulatorIDs, entry.ID)

	for _, base := range simulator.BaseTypes(entry.ID) {
		for _, row := range simulator.TiersFor(entry.ID, base) {
			tier := &mods.ModTier{
				ModID:    b.mod.ID,
				SourceID: row.SourceID,
				BaseType: base,
				ILvl:     row.ILvl,
				Ranges:   append([]mods.ValueRange(nil), row.Ranges...),
				Weight:   row.Weight,
			}

			key := tier.Key()
			if prev, dup := b.seen[key]; dup {
				return crafterr.DataErrorf("mod %s has duplicate tier %s on base type %s (from %s and %s)",
					b.mod.ID, key, base, prev, row.SourceID).
					WithMeta("mod_id", b.mod.ID).
					WithMeta("base_type", base).
					WithMeta("tier", key)
			}
			b.seen[key] = row.SourceID
			b.mod.Tiers[base] = append(b.mod.Tiers[base], tier)
		}
	}
	return nil
}

func (b *builder) build(official catalogs.Catalog) (*mods.TieredMod, error) {
	class, err := b.resolveClass(official)
	if err != nil {
		return nil, err
	}
	b.mod.AffixClass = class

	sort.Strings(b.mod.SimulatorIDs)
	for _, tiers := range b.mod.Tiers {
		for _, t := range tiers {
			t.AffixClass = class
		}
		mods.SortTiers(tiers)
	}
	return b.mod, nil
}

// resolveClass treats the official catalog as authoritative when it carries a
// placement class
func (b *builder) resolveClass(official catalogs.Catalog) (mods.AffixClass, error) {
	class := b.simClass
	if b.mod.OfficialID != "" {
		entry, ok := official.Mod(b.mod.OfficialID)
		if !ok {
			return mods.AffixNone, crafterr.DataErrorf("mod %s references unknown official id %s",
				b.mod.ID, b.mod.OfficialID).
				WithMeta("mod_id", b.mod.ID)
		}
		if entry.AffixClass.IsPlacement() {
			if class.IsPlacement() && class != entry.AffixClass {
				log.Printf("compiler: %s affix class conflict, simulator says %s, official says %s; using official",
					b.mod.ID, class, entry.AffixClass)
			}
			class = entry.AffixClass
		}
	}

	if !class.IsPlacement() {
		return mods.AffixNone, crafterr.DataErrorf("mod %s has no affix class in either source", b.mod.ID).
			WithMeta("mod_id", b.mod.ID)
	}
	return class, nil
}
