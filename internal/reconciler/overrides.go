package reconciler

import (
	"io"
	"strings"

	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"gopkg.in/yaml.v3"
)

// Overrides maps simulator ids to official ids chosen by a curator
type Overrides map[string]string

type overridesFile struct {
	Overrides map[string]string `yaml:"overrides"`
}

// LoadOverrides reads a curated override file:
//
//	overrides:
//	  "6": explicit.stat_803737631
func LoadOverrides(r io.Reader) (Overrides, error) {
	var file overridesFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return Overrides{}, nil
		}
		return nil, crafterr.WrapWithCode(err, crafterr.CodeData, "failed to decode overrides")
	}

	out := make(Overrides, len(file.Overrides))
	for simID, officialID := range file.Overrides {
		simID = strings.TrimSpace(simID)
		officialID = strings.TrimSpace(officialID)
		if simID == "" || officialID == "" {
			return nil, crafterr.DataErrorf("override %q -> %q has an empty side", simID, officialID)
		}
		out[simID] = officialID
	}
	return out, nil
}
