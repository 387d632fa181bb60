package mods

import (
	"sort"

	"github.com/KirkDiggler/craft-sim/internal/modtext"
)

// TieredMod is the canonical reconciled mod. The compiler constructs it; the
// repositories only hold read-only references.
type TieredMod struct {
	ID           string       `json:"id"`
	Text         modtext.Text `json:"text"`
	SimulatorIDs []string     `json:"simulator_ids"`
	// OfficialID is empty when the mod has not been reconciled yet
	OfficialID          string                `json:"official_id,omitempty"`
	NeedsReconciliation bool                  `json:"needs_reconciliation"`
	AffixClass          AffixClass            `json:"affix_class"`
	Group               string                `json:"group,omitempty"`
	Tiers               map[string][]*ModTier `json:"tiers"`
}

// TiersFor returns the ladder for a base item type, lowest ilvl first
func (m *TieredMod) TiersFor(baseType string) []*ModTier {
	return m.Tiers[baseType]
}

// BaseTypes returns the base item types the mod was compiled for, sorted
func (m *TieredMod) BaseTypes() []string {
	out := make([]string, 0, len(m.Tiers))
	for base := range m.Tiers {
		out = append(out, base)
	}
	sort.Strings(out)
	return out
}

// TierCount returns the number of tiers across all base types
func (m *TieredMod) TierCount() int {
	n := 0
	for _, tiers := range m.Tiers {
		n += len(tiers)
	}
	return n
}
