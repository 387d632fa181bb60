package mods

import (
	"strings"

	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
)

// AffixClass is the placement category of a mod
type AffixClass string

const (
	// AffixNone means the source carried no placement information
	AffixNone      AffixClass = ""
	AffixPrefix    AffixClass = "prefix"
	AffixSuffix    AffixClass = "suffix"
	AffixImplicit  AffixClass = "implicit"
	AffixEnchant   AffixClass = "enchant"
	AffixRune      AffixClass = "rune"
	AffixFractured AffixClass = "fractured"
)

// ExplicitClasses are the classes a crafting action rolls into
var ExplicitClasses = []AffixClass{AffixPrefix, AffixSuffix}

// ParseAffixClass maps a source tag onto an AffixClass. "explicit" and the
// empty tag parse to AffixNone: the mod is explicit but the source does not
// say which side it lands on.
func ParseAffixClass(tag string) (AffixClass, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "", "explicit":
		return AffixNone, nil
	case "prefix":
		return AffixPrefix, nil
	case "suffix":
		return AffixSuffix, nil
	case "implicit":
		return AffixImplicit, nil
	case "enchant", "enchantment":
		return AffixEnchant, nil
	case "rune", "augment":
		return AffixRune, nil
	case "fractured":
		return AffixFractured, nil
	default:
		return AffixNone, crafterr.DataErrorf("unknown affix class %q", tag).
			WithMeta("affix_tag", tag)
	}
}

// IsExplicit reports whether the class takes up a prefix or suffix slot
func (c AffixClass) IsExplicit() bool {
	return c == AffixPrefix || c == AffixSuffix
}

// IsPlacement reports whether the class names a concrete placement
func (c AffixClass) IsPlacement() bool {
	return c != AffixNone
}

// String implements fmt.Stringer
func (c AffixClass) String() string {
	if c == AffixNone {
		return "explicit"
	}
	return string(c)
}
