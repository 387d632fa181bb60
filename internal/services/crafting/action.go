package crafting

import (
	"strings"

	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
)

// Action is a named transform applied to an item
type Action string

const (
	// ActionAddAffix adds one affix if a slot remains
	ActionAddAffix Action = "add_affix"
	// ActionRerollAffix removes one explicit affix chosen uniformly, then
	// adds one affix
	ActionRerollAffix Action = "reroll_affix"
)

// ParseAction maps a flag or config value onto an Action
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionAddAffix:
		return ActionAddAffix, nil
	case ActionRerollAffix:
		return ActionRerollAffix, nil
	default:
		return "", crafterr.InvalidArgumentf("unknown crafting action %q", s)
	}
}

// Granularity controls whether outcomes resolve rolled values
type Granularity string

const (
	// GranularityTier stops at the chosen tier; values stay unresolved
	GranularityTier Granularity = "tier"
	// GranularityValue splits each tier uniformly over its value tuples
	GranularityValue Granularity = "value"
)

// ParseGranularity maps a flag or config value onto a Granularity
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case GranularityTier:
		return GranularityTier, nil
	case GranularityValue:
		return GranularityValue, nil
	default:
		return "", crafterr.Configurationf("unknown granularity %q", s).
			WithMeta("granularity", s)
	}
}
