package mods

import (
	"fmt"
	"sort"
	"strings"

	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
)

// ItemRarity drives how many affixes an item may hold
type ItemRarity string

const (
	RarityNormal ItemRarity = "normal"
	RarityMagic  ItemRarity = "magic"
	RarityRare   ItemRarity = "rare"
	RarityUnique ItemRarity = "unique"
)

// ParseItemRarity maps a flag or config value onto an ItemRarity
func ParseItemRarity(s string) (ItemRarity, error) {
	switch r := ItemRarity(strings.ToLower(strings.TrimSpace(s))); r {
	case RarityNormal, RarityMagic, RarityRare, RarityUnique:
		return r, nil
	default:
		return "", crafterr.InvalidArgumentf("unknown item rarity %q", s)
	}
}

// AppliedMod is a mod rolled onto an item
type AppliedMod struct {
	ModID      string     `json:"mod_id"`
	AffixClass AffixClass `json:"affix_class"`
	Tier       *ModTier   `json:"tier"`
	// Values is nil while value resolution is deferred
	Values []int `json:"values,omitempty"`
}

// String implements fmt.Stringer
func (m AppliedMod) String() string {
	if m.Tier == nil {
		return m.ModID
	}
	if m.Values == nil {
		return fmt.Sprintf("%s@%d", m.ModID, m.Tier.ILvl)
	}
	return fmt.Sprintf("%s@%d%v", m.ModID, m.Tier.ILvl, m.Values)
}

// Item is the thing being crafted on
type Item struct {
	BaseType string                      `json:"base_type"`
	ILvl     int                         `json:"ilvl"`
	Rarity   ItemRarity                  `json:"rarity"`
	Mods     map[AffixClass][]AppliedMod `json:"mods"`
}

// Clone returns a deep copy. Tiers are shared; they are immutable.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}

	out := &Item{
		BaseType: i.BaseType,
		ILvl:     i.ILvl,
		Rarity:   i.Rarity,
		Mods:     make(map[AffixClass][]AppliedMod, len(i.Mods)),
	}
	for class, applied := range i.Mods {
		copied := make([]AppliedMod, len(applied))
		for idx, m := range applied {
			copied[idx] = m
			if m.Values != nil {
				copied[idx].Values = append([]int(nil), m.Values...)
			}
		}
		out.Mods[class] = copied
	}
	return out
}

// Count returns the number of mods of a class on the item
func (i *Item) Count(class AffixClass) int {
	return len(i.Mods[class])
}

// ModIDs returns the identities of every mod on the item
func (i *Item) ModIDs() []string {
	var out []string
	for _, applied := range i.Mods {
		for _, m := range applied {
			out = append(out, m.ModID)
		}
	}
	sort.Strings(out)
	return out
}

// ExplicitMods returns prefixes then suffixes
func (i *Item) ExplicitMods() []AppliedMod {
	var out []AppliedMod
	for _, class := range ExplicitClasses {
		out = append(out, i.Mods[class]...)
	}
	return out
}

// Add appends a mod under its class
func (i *Item) Add(m AppliedMod) {
	if i.Mods == nil {
		i.Mods = make(map[AffixClass][]AppliedMod)
	}
	i.Mods[m.AffixClass] = append(i.Mods[m.AffixClass], m)
}

// Remove drops the mod at index within class and returns it
func (i *Item) Remove(class AffixClass, index int) (AppliedMod, bool) {
	applied := i.Mods[class]
	if index < 0 || index >= len(applied) {
		return AppliedMod{}, false
	}

	removed := applied[index]
	rest := make([]AppliedMod, 0, len(applied)-1)
	rest = append(rest, applied[:index]...)
	rest = append(rest, applied[index+1:]...)
	i.Mods[class] = rest
	return removed, true
}

// Fingerprint is a stable description of the item's mods, used to group
// identical outcomes.
func (i *Item) Fingerprint() string {
	classes := make([]string, 0, len(i.Mods))
	for class := range i.Mods {
		classes = append(classes, string(class))
	}
	sort.Strings(classes)

	var b strings.Builder
	for _, class := range classes {
		applied := i.Mods[AffixClass(class)]
		if len(applied) == 0 {
			continue
		}
		parts := make([]string, 0, len(applied))
		for _, m := range applied {
			parts = append(parts, m.String())
		}
		sort.Strings(parts)
		fmt.Fprintf(&b, "%s:%s;", AffixClass(class), strings.Join(parts, ","))
	}
	return b.String()
}
