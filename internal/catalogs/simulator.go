package catalogs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
)

// SimulatorPayload is the crafting simulator's raw export
type SimulatorPayload struct {
	Mods  map[string]SimulatorMod      `json:"mods"`
	Tiers map[string][]SimulatorTierRow `json:"tiers"`
}

// SimulatorMod is the display side of a simulator mod
type SimulatorMod struct {
	Text  string `json:"text"`
	Affix string `json:"affix"`
	Group string `json:"group,omitempty"`
}

// SimulatorTierRow is one tier row as the simulator exports it
type SimulatorTierRow struct {
	Base   string   `json:"base"`
	ILvl   int      `json:"ilvl"`
	Values [][2]int `json:"values"`
	Weight int      `json:"weighting"`
}

// SimulatorCatalog is the simulator-side catalog. It is the source of tier
// and weight truth.
type SimulatorCatalog struct {
	*index
	tiers map[string]map[string][]TierRow
}

// NewSimulatorCatalog validates and indexes a simulator payload
func NewSimulatorCatalog(payload *SimulatorPayload) (*SimulatorCatalog, error) {
	if payload == nil {
		return nil, crafterr.DataErrorf("simulator payload is required")
	}

	c := &SimulatorCatalog{
		index: newIndex(SourceSimulator),
		tiers: make(map[string]map[string][]TierRow),
	}

	for _, id := range sortedKeys(payload.Mods) {
		m := payload.Mods[id]
		if err := c.add(id, m.Text, m.Affix, m.Group); err != nil {
			return nil, err
		}
	}

	for _, id := range sortedKeys(payload.Tiers) {
		if _, ok := c.entries[id]; !ok {
			return nil, crafterr.DataErrorf("simulator tiers reference mod %s which has no text", id).
				WithMeta("source_id", id)
		}
		for i, raw := range payload.Tiers[id] {
			row, err := toTierRow(id, raw)
			if err != nil {
				return nil, crafterr.Wrapf(err, "simulator mod %s tier %d", id, i).
					WithMeta("source_id", id).
					WithMeta("base_type", raw.Base)
			}
			if c.tiers[id] == nil {
				c.tiers[id] = make(map[string][]TierRow)
			}
			c.tiers[id][row.BaseType] = append(c.tiers[id][row.BaseType], row)
		}
	}

	if err := c.checkCollisions(c.shape); err != nil {
		return nil, err
	}

	return c, nil
}

func toTierRow(id string, raw SimulatorTierRow) (TierRow, error) {
	base := strings.ToLower(strings.TrimSpace(raw.Base))
	if base == "" {
		return TierRow{}, crafterr.DataErrorf("tier row has no base item type")
	}
	if raw.ILvl < 0 {
		return TierRow{}, crafterr.DataErrorf("tier row has negative ilvl %d", raw.ILvl)
	}
	if raw.Weight < 0 {
		return TierRow{}, crafterr.DataErrorf("tier row has negative weight %d", raw.Weight)
	}

	ranges := make([]mods.ValueRange, 0, len(raw.Values))
	for _, v := range raw.Values {
		r := mods.ValueRange{Min: v[0], Max: v[1]}
		if err := r.Validate(); err != nil {
			return TierRow{}, err
		}
		ranges = append(ranges, r)
	}

	return TierRow{
		SourceID: id,
		BaseType: base,
		ILvl:     raw.ILvl,
		Ranges:   ranges,
		Weight:   raw.Weight,
	}, nil
}

// shape is the affix class plus the value arities the mod's rows roll
func (c *SimulatorCatalog) shape(id string) string {
	arities := make(map[int]bool)
	for _, rows := range c.tiers[id] {
		for _, row := range rows {
			arities[len(row.Ranges)] = true
		}
	}
	list := make([]int, 0, len(arities))
	for n := range arities {
		list = append(list, n)
	}
	sort.Ints(list)

	return fmt.Sprintf("class=%s arity=%v", c.entries[id].AffixClass, list)
}

// TiersFor returns a copy of the raw rows of a mod for one base type
func (c *SimulatorCatalog) TiersFor(id, baseType string) []TierRow {
	rows := c.tiers[id][baseType]
	if len(rows) == 0 {
		return nil
	}
	return append([]TierRow(nil), rows...)
}

// BaseTypes returns the base types the mod has rows for
func (c *SimulatorCatalog) BaseTypes(id string) []string {
	return sortedKeys(c.tiers[id])
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
