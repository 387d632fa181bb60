package crafting

import (
	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
)

// DefaultTolerance is the relative tolerance for probability sums
const DefaultTolerance = 1e-9

// SlotCaps is the number of prefix and suffix slots per rarity
type SlotCaps map[mods.ItemRarity]map[mods.AffixClass]int

// Cap returns the slot cap for a rarity and class; ok is false when either
// is not configured
func (c SlotCaps) Cap(rarity mods.ItemRarity, class mods.AffixClass) (int, bool) {
	n, ok := c[rarity][class]
	return n, ok
}

// Config is the engine's externally supplied configuration
type Config struct {
	SlotCaps    SlotCaps
	Tolerance   float64
	Granularity Granularity
	// MaxOutcomes bounds one enumeration; zero means unbounded
	MaxOutcomes int
}

// Validate reports a configuration error for missing or invalid settings
func (c *Config) Validate() error {
	if c == nil {
		return crafterr.Configurationf("crafting config is required")
	}
	if len(c.SlotCaps) == 0 {
		return crafterr.Configurationf("slot caps are required")
	}
	for rarity, byClass := range c.SlotCaps {
		for _, class := range mods.ExplicitClasses {
			if _, ok := byClass[class]; !ok {
				return crafterr.Configurationf("slot caps for %s have no %s cap", rarity, class).
					WithMeta("rarity", string(rarity)).
					WithMeta("affix_class", class.String())
			}
		}
		for class, n := range byClass {
			if !class.IsExplicit() {
				return crafterr.Configurationf("slot cap for %s names non-explicit class %s", rarity, class).
					WithMeta("rarity", string(rarity)).
					WithMeta("affix_class", class.String())
			}
			if n < 0 {
				return crafterr.Configurationf("slot cap for %s %s is negative", rarity, class).
					WithMeta("rarity", string(rarity)).
					WithMeta("affix_class", class.String())
			}
		}
	}
	if c.Tolerance <= 0 || c.Tolerance >= 1 {
		return crafterr.Configurationf("tolerance must be in (0, 1), got %g", c.Tolerance).
			WithMeta("tolerance", c.Tolerance)
	}
	if _, err := ParseGranularity(string(c.Granularity)); err != nil {
		return err
	}
	if c.MaxOutcomes < 0 {
		return crafterr.Configurationf("max outcomes cannot be negative")
	}
	return nil
}
