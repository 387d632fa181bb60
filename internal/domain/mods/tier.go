package mods

import (
	"fmt"
	"sort"
	"strings"

	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
)

// ValueRange is an inclusive range for one rolled value
type ValueRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Size returns the number of integers in the range
func (r ValueRange) Size() int {
	return r.Max - r.Min + 1
}

// Contains reports whether v can be rolled from the range
func (r ValueRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Validate rejects inverted ranges
func (r ValueRange) Validate() error {
	if r.Min > r.Max {
		return crafterr.DataErrorf("value range %d-%d has min above max", r.Min, r.Max)
	}
	return nil
}

// String implements fmt.Stringer
func (r ValueRange) String() string {
	if r.Min == r.Max {
		return fmt.Sprintf("%d", r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// ModTier is one row of a mod's affix ladder for one base item type.
// Tiers are built during compilation and never modified afterwards.
type ModTier struct {
	ModID      string       `json:"mod_id"`
	SourceID   string       `json:"source_id"`
	BaseType   string       `json:"base_type"`
	AffixClass AffixClass   `json:"affix_class"`
	ILvl       int          `json:"ilvl"`
	Ranges     []ValueRange `json:"ranges"`
	Weight     int          `json:"weight"`
}

// Key identifies a tier for duplicate detection within one mod
func (t *ModTier) Key() string {
	parts := make([]string, 0, len(t.Ranges))
	for _, r := range t.Ranges {
		parts = append(parts, r.String())
	}
	return fmt.Sprintf("%s|%d|%s", t.BaseType, t.ILvl, strings.Join(parts, ","))
}

// ValueCombinations is the number of distinct value tuples the tier can roll
func (t *ModTier) ValueCombinations() int {
	n := 1
	for _, r := range t.Ranges {
		n *= r.Size()
	}
	return n
}

// String implements fmt.Stringer
func (t *ModTier) String() string {
	return fmt.Sprintf("%s[%s ilvl %d %v w%d]", t.ModID, t.BaseType, t.ILvl, t.Ranges, t.Weight)
}

// LessTier orders tiers by mod id, ilvl, ranges and finally source id
func LessTier(a, b *ModTier) bool {
	if a.ModID != b.ModID {
		return a.ModID < b.ModID
	}
	if a.ILvl != b.ILvl {
		return a.ILvl < b.ILvl
	}
	for i := 0; i < len(a.Ranges) && i < len(b.Ranges); i++ {
		if a.Ranges[i].Min != b.Ranges[i].Min {
			return a.Ranges[i].Min < b.Ranges[i].Min
		}
		if a.Ranges[i].Max != b.Ranges[i].Max {
			return a.Ranges[i].Max < b.Ranges[i].Max
		}
	}
	if len(a.Ranges) != len(b.Ranges) {
		return len(a.Ranges) < len(b.Ranges)
	}
	return a.SourceID < b.SourceID
}

// SortTiers sorts tiers in place with LessTier
func SortTiers(tiers []*ModTier) {
	sort.SliceStable(tiers, func(i, j int) bool {
		return LessTier(tiers[i], tiers[j])
	})
}
