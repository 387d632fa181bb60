// Package catalogs indexes one source's raw mod payload by normalized text and
// by source-native id.
package catalogs

import (
	"log"
	"sort"

	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/modtext"
)

// Source names where a catalog's data came from
type Source string

const (
	SourceSimulator Source = "simulator"
	SourceOfficial  Source = "official"
)

// Entry is one source mod as the catalog sees it
type Entry struct {
	ID         string
	RawText    string
	Text       modtext.Text
	AffixClass mods.AffixClass
	Group      string
}

// TierRow is one raw tier row, validated but not yet compiled
type TierRow struct {
	SourceID string
	BaseType string
	ILvl     int
	Ranges   []mods.ValueRange
	Weight   int
}

// Catalog is the read-only contract both sources share
type Catalog interface {
	// Source identifies the payload the catalog was built from
	Source() Source

	// ModsByText returns normalized text -> source ids (sorted). The returned
	// map is a copy.
	ModsByText() map[modtext.Text][]string

	// IDsFor returns the source ids sharing a normalized text
	IDsFor(text modtext.Text) []string

	// Texts returns every normalized text, sorted
	Texts() []modtext.Text

	// Mod returns the entry for a source id
	Mod(id string) (Entry, bool)

	// TiersFor returns the raw tier rows of a mod for one base item type
	TiersFor(id, baseType string) []TierRow

	// BaseTypes returns the base item types a mod has tiers for, sorted
	BaseTypes(id string) []string
}

// IsNil reports whether c is nil, including a nil catalog pointer stored in
// the interface
func IsNil(c Catalog) bool {
	switch v := c.(type) {
	case nil:
		return true
	case *SimulatorCatalog:
		return v == nil
	case *OfficialCatalog:
		return v == nil
	default:
		return false
	}
}

// shapeFunc describes what must agree between two ids sharing a text
type shapeFunc func(id string) string

// index holds the parts of a catalog both sources build the same way
type index struct {
	source  Source
	entries map[string]Entry
	byText  map[modtext.Text][]string
}

func newIndex(source Source) *index {
	return &index{
		source:  source,
		entries: make(map[string]Entry),
		byText:  make(map[modtext.Text][]string),
	}
}

func (x *index) add(id, rawText, affixTag, group string) error {
	if id == "" {
		return crafterr.DataErrorf("%s mod with empty id", x.source).
			WithMeta("raw_text", rawText)
	}
	if _, exists := x.entries[id]; exists {
		return crafterr.DataErrorf("%s mod id %s appears more than once", x.source, id).
			WithMeta("source_id", id)
	}

	text, err := modtext.Normalize(rawText)
	if err != nil {
		return crafterr.Wrapf(err, "%s mod %s", x.source, id).WithMeta("source_id", id)
	}
	class, err := mods.ParseAffixClass(affixTag)
	if err != nil {
		return crafterr.Wrapf(err, "%s mod %s", x.source, id).WithMeta("source_id", id)
	}

	x.entries[id] = Entry{
		ID:         id,
		RawText:    rawText,
		Text:       text,
		AffixClass: class,
		Group:      group,
	}
	x.byText[text] = append(x.byText[text], id)
	return nil
}

// checkCollisions rejects texts shared by ids with materially different
// shapes. Compatible collisions are kept and logged for review.
func (x *index) checkCollisions(shape shapeFunc) error {
	for text, ids := range x.byText {
		sort.Strings(ids)
		if len(ids) < 2 {
			continue
		}

		want := shape(ids[0])
		for _, id := range ids[1:] {
			if got := shape(id); got != want {
				return crafterr.DataErrorf("%s ids %v share text %q but differ in shape (%s vs %s)",
					x.source, ids, text, want, got).
					WithMeta("text", string(text)).
					WithMeta("candidates", ids)
			}
		}
		log.Printf("catalogs: %s text %q is shared by ids %v (ambiguity candidate)", x.source, text, ids)
	}
	return nil
}

func (x *index) Source() Source {
	return x.source
}

func (x *index) ModsByText() map[modtext.Text][]string {
	out := make(map[modtext.Text][]string, len(x.byText))
	for text, ids := range x.byText {
		out[text] = append([]string(nil), ids...)
	}
	return out
}

func (x *index) IDsFor(text modtext.Text) []string {
	ids := x.byText[text]
	if len(ids) == 0 {
		return nil
	}
	return append([]string(nil), ids...)
}

func (x *index) Texts() []modtext.Text {
	out := make([]modtext.Text, 0, len(x.byText))
	for text := range x.byText {
		out = append(out, text)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (x *index) Mod(id string) (Entry, bool) {
	e, ok := x.entries[id]
	return e, ok
}

var (
	_ Catalog = (*SimulatorCatalog)(nil)
	_ Catalog = (*OfficialCatalog)(nil)
)
