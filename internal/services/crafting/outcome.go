package crafting

import (
	"sort"

	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
)

// Outcome is one reachable item state and its probability
type Outcome struct {
	Item        *mods.Item       `json:"item"`
	Probability float64          `json:"probability"`
	Added       *mods.AppliedMod `json:"added"`
	Removed     *mods.AppliedMod `json:"removed,omitempty"`
}

func newOutcome(b *branch, t *mods.ModTier, values []int, p float64) *Outcome {
	added := mods.AppliedMod{
		ModID:      t.ModID,
		AffixClass: t.AffixClass,
		Tier:       t,
		Values:     values,
	}

	item := b.item.Clone()
	item.Add(added)

	var removed *mods.AppliedMod
	if b.removed != nil {
		r := *b.removed
		removed = &r
	}

	return &Outcome{
		Item:        item,
		Probability: p,
		Added:       &added,
		Removed:     removed,
	}
}

// sortOutcomes orders by added mod id, tier, values, then removed mod
func sortOutcomes(outcomes []*Outcome) {
	sort.SliceStable(outcomes, func(i, j int) bool {
		a, b := outcomes[i], outcomes[j]
		if mods.LessTier(a.Added.Tier, b.Added.Tier) {
			return true
		}
		if mods.LessTier(b.Added.Tier, a.Added.Tier) {
			return false
		}
		if c := compareValues(a.Added.Values, b.Added.Values); c != 0 {
			return c < 0
		}
		return removedKey(a) < removedKey(b)
	})
}

func compareValues(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func removedKey(o *Outcome) string {
	if o.Removed == nil {
		return ""
	}
	return string(o.Removed.AffixClass) + ":" + o.Removed.String()
}
