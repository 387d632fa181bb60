package tieredmods

import (
	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
)

// Query selects the tiers a crafting action may roll
type Query struct {
	BaseType string
	MaxILvl  int
	// AffixClass filters by class when set
	AffixClass mods.AffixClass
	// ExcludeModIDs drops every tier of these mod identities
	ExcludeModIDs []string
}

// Repository is the read-only index over compiled mods
type Repository interface {
	// TiersFor returns the tiers matching the query, in no particular order.
	// Callers that need determinism must sort.
	TiersFor(q Query) []*mods.ModTier

	// Get returns one compiled mod by identity
	Get(id string) (*mods.TieredMod, error)

	// List returns every compiled mod, sorted by identity
	List() []*mods.TieredMod

	// BaseTypes returns every indexed base item type, sorted
	BaseTypes() []string
}
