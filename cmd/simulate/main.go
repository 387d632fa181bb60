package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/craft-sim/internal/config"
	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	"github.com/KirkDiggler/craft-sim/internal/output"
	"github.com/KirkDiggler/craft-sim/internal/repositories/snapshots"
	"github.com/KirkDiggler/craft-sim/internal/repositories/tieredmods"
	"github.com/KirkDiggler/craft-sim/internal/services/compilation"
	"github.com/KirkDiggler/craft-sim/internal/services/crafting"
)

func main() {
	var (
		baseType     = flag.String("base", "", "base item type")
		ilvl         = flag.Int("ilvl", 1, "item level")
		rarity       = flag.String("rarity", "rare", "item rarity")
		itemPath     = flag.String("item", "", "JSON item to craft on; overrides -base, -ilvl and -rarity")
		action       = flag.String("action", string(crafting.ActionAddAffix), "crafting action")
		fromSnapshot = flag.Bool("from-snapshot", false, "load the latest compiled snapshot from Redis instead of compiling")
		iterations   = flag.Int("iterations", 0, "Monte Carlo iterations; zero skips sampling")
		workers      = flag.Int("workers", runtime.NumCPU(), "Monte Carlo workers")
		seed         = flag.Int64("seed", 1, "Monte Carlo seed")
		export       = flag.String("export", "", "write outcomes to a workbook with this name")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	craftingConfig, err := cfg.Crafting()
	if err != nil {
		log.Fatalf("Invalid crafting config: %v", err)
	}

	item, err := loadItem(*itemPath, *baseType, *ilvl, *rarity)
	if err != nil {
		log.Fatalf("Failed to build item: %v", err)
	}
	craftAction, err := crafting.ParseAction(*action)
	if err != nil {
		log.Fatalf("Invalid action: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	repo, err := loadRepository(ctx, cfg, *fromSnapshot)
	if err != nil {
		log.Fatalf("Failed to load mods: %v", err)
	}

	engine, err := crafting.NewEngine(&crafting.EngineConfig{
		Repository: repo,
		Config:     craftingConfig,
	})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	outcomes, err := engine.Simulate(ctx, item, craftAction)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	fmt.Printf("%s on %s (ilvl %d, %s): %d outcomes\n", craftAction, item.BaseType, item.ILvl, item.Rarity, len(outcomes))
	for _, o := range outcomes {
		line := fmt.Sprintf("  %8.4f%%  %s", o.Probability*100, o.Added)
		if o.Removed != nil {
			line += fmt.Sprintf("  (removed %s)", o.Removed)
		}
		fmt.Println(line)
	}

	var mc *crafting.MonteCarloResult
	if *iterations > 0 {
		mc, err = engine.MonteCarlo(ctx, &crafting.MonteCarloInput{
			Item:       item,
			Action:     craftAction,
			Iterations: *iterations,
			Workers:    *workers,
			Seed:       *seed,
		})
		if err != nil {
			log.Fatalf("Monte Carlo failed: %v", err)
		}

		fmt.Printf("Monte Carlo, %d iterations:\n", mc.Iterations)
		for _, key := range mc.Keys() {
			fmt.Printf("  %8.4f%%  %s\n", mc.Frequencies[key]*100, key)
		}
	}

	if *export != "" {
		path, err := output.ExportOutcomesXLSX(cfg.Output.Dir, *export, outcomes, mc)
		if err != nil {
			log.Fatalf("Failed to export outcomes: %v", err)
		}
		fmt.Printf("Workbook: %s\n", path)
	}
}

func loadItem(path, baseType string, ilvl int, rawRarity string) (*mods.Item, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		item := &mods.Item{}
		if err := json.NewDecoder(f).Decode(item); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		if item.Mods == nil {
			item.Mods = make(map[mods.AffixClass][]mods.AppliedMod)
		}
		return item, nil
	}

	if baseType == "" {
		return nil, fmt.Errorf("-base or -item is required")
	}
	rarity, err := mods.ParseItemRarity(rawRarity)
	if err != nil {
		return nil, err
	}
	return &mods.Item{
		BaseType: baseType,
		ILvl:     ilvl,
		Rarity:   rarity,
		Mods:     make(map[mods.AffixClass][]mods.AppliedMod),
	}, nil
}

func loadRepository(ctx context.Context, cfg *config.Config, fromSnapshot bool) (tieredmods.Repository, error) {
	if fromSnapshot {
		if cfg.Redis.URL == "" {
			return nil, fmt.Errorf("-from-snapshot needs REDIS_URL")
		}
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()

		loaded, err := compilation.NewService(&compilation.ServiceConfig{
			Snapshots: snapshots.NewRedis(client),
		}).LoadLatest(ctx)
		if err != nil {
			return nil, err
		}
		return loaded.Repository, nil
	}

	input, err := compilation.ReadInput(&compilation.SourceFiles{
		SimulatorPath: cfg.Sources.SimulatorPath,
		OfficialPath:  cfg.Sources.OfficialPath,
		OverridesPath: cfg.Sources.OverridesPath,
	})
	if err != nil {
		return nil, err
	}
	compiled, err := compilation.NewService(nil).Compile(ctx, input)
	if err != nil {
		return nil, err
	}
	return compiled.Repository, nil
}
