package catalogs

import (
	"sort"

	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
)

// OfficialPayload is the trade API's stat list
type OfficialPayload struct {
	Mods []OfficialMod `json:"mods"`
}

// OfficialMod is one trade API stat record
type OfficialMod struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// OfficialCatalog is the trade-API-side catalog. It carries identity and
// placement, not tiers.
type OfficialCatalog struct {
	*index
}

// NewOfficialCatalog validates and indexes an official payload
func NewOfficialCatalog(payload *OfficialPayload) (*OfficialCatalog, error) {
	if payload == nil {
		return nil, crafterr.DataErrorf("official payload is required")
	}

	c := &OfficialCatalog{index: newIndex(SourceOfficial)}

	records := append([]OfficialMod(nil), payload.Mods...)
	sort.SliceStable(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	for _, m := range records {
		if err := c.add(m.ID, m.Text, m.Type, ""); err != nil {
			return nil, err
		}
	}

	if err := c.checkCollisions(c.shape); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *OfficialCatalog) shape(id string) string {
	return "class=" + c.entries[id].AffixClass.String()
}

// TiersFor always returns nil; the official source publishes no tiers
func (c *OfficialCatalog) TiersFor(string, string) []TierRow {
	return nil
}

// BaseTypes always returns nil; the official source publishes no tiers
func (c *OfficialCatalog) BaseTypes(string) []string {
	return nil
}
