package config

import (
	"io"
	"os"

	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/services/crafting"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Redis      RedisConfig
	Sources    SourcesConfig
	Output     OutputConfig
	Simulation SimulationConfig
	// SlotCaps comes from Simulation.SlotCapsFile or the defaults
	SlotCaps crafting.SlotCaps
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// URL is optional; without it snapshots are not persisted
	URL string `env:"REDIS_URL"`
}

// SourcesConfig points at the two source payloads and the override file
type SourcesConfig struct {
	SimulatorPath string `env:"CRAFTSIM_SIMULATOR_PAYLOAD" envDefault:"data/simulator_mods.json"`
	OfficialPath  string `env:"CRAFTSIM_OFFICIAL_PAYLOAD" envDefault:"data/official_mods.json"`
	OverridesPath string `env:"CRAFTSIM_OVERRIDES_FILE"`
}

// OutputConfig holds where reports are written
type OutputConfig struct {
	Dir string `env:"CRAFTSIM_OUTPUT_DIR" envDefault:"output"`
}

// SimulationConfig holds the crafting engine settings
type SimulationConfig struct {
	Tolerance    float64 `env:"CRAFTSIM_TOLERANCE" envDefault:"1e-9"`
	Granularity  string  `env:"CRAFTSIM_GRANULARITY" envDefault:"value"`
	MaxOutcomes  int     `env:"CRAFTSIM_MAX_OUTCOMES" envDefault:"0"`
	SlotCapsFile string  `env:"CRAFTSIM_SLOT_CAPS_FILE"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, crafterr.WrapWithCode(err, crafterr.CodeConfiguration, "failed to parse environment")
	}

	if cfg.Simulation.SlotCapsFile == "" {
		cfg.SlotCaps = DefaultSlotCaps()
	} else {
		f, err := os.Open(cfg.Simulation.SlotCapsFile)
		if err != nil {
			return nil, crafterr.WrapWithCode(err, crafterr.CodeConfiguration, "failed to open slot caps file")
		}
		defer f.Close()

		cfg.SlotCaps, err = LoadSlotCaps(f)
		if err != nil {
			return nil, err
		}
	}

	if _, err := cfg.Crafting(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Crafting builds and validates the engine configuration
func (c *Config) Crafting() (*crafting.Config, error) {
	granularity, err := crafting.ParseGranularity(c.Simulation.Granularity)
	if err != nil {
		return nil, err
	}

	out := &crafting.Config{
		SlotCaps:    c.SlotCaps,
		Tolerance:   c.Simulation.Tolerance,
		Granularity: granularity,
		MaxOutcomes: c.Simulation.MaxOutcomes,
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// DefaultSlotCaps returns prefix and suffix caps per rarity
func DefaultSlotCaps() crafting.SlotCaps {
	return crafting.SlotCaps{
		mods.RarityNormal: {mods.AffixPrefix: 0, mods.AffixSuffix: 0},
		mods.RarityMagic:  {mods.AffixPrefix: 1, mods.AffixSuffix: 1},
		mods.RarityRare:   {mods.AffixPrefix: 3, mods.AffixSuffix: 3},
		mods.RarityUnique: {mods.AffixPrefix: 0, mods.AffixSuffix: 0},
	}
}

type slotCapsFile struct {
	SlotCaps map[string]map[string]int `yaml:"slot_caps"`
}

// LoadSlotCaps reads a YAML document of the form
//
//	slot_caps:
//	  rare: {prefix: 3, suffix: 3}
func LoadSlotCaps(r io.Reader) (crafting.SlotCaps, error) {
	var doc slotCapsFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, crafterr.WrapWithCode(err, crafterr.CodeConfiguration, "failed to decode slot caps")
	}
	if len(doc.SlotCaps) == 0 {
		return nil, crafterr.Configurationf("slot caps file has no slot_caps entries")
	}

	caps := make(crafting.SlotCaps, len(doc.SlotCaps))
	for rawRarity, byClass := range doc.SlotCaps {
		rarity, err := mods.ParseItemRarity(rawRarity)
		if err != nil {
			return nil, crafterr.WrapWithCode(err, crafterr.CodeConfiguration, "invalid slot caps rarity")
		}
		caps[rarity] = make(map[mods.AffixClass]int, len(byClass))
		for rawClass, n := range byClass {
			class, err := mods.ParseAffixClass(rawClass)
			if err != nil || !class.IsExplicit() {
				return nil, crafterr.Configurationf("slot caps for %s name unknown class %q", rarity, rawClass).
					WithMeta("rarity", string(rarity))
			}
			caps[rarity][class] = n
		}
		for _, class := range mods.ExplicitClasses {
			if _, ok := caps[rarity][class]; !ok {
				return nil, crafterr.Configurationf("slot caps for %s name no %s cap", rarity, class).
					WithMeta("rarity", string(rarity))
			}
		}
	}
	return caps, nil
}
