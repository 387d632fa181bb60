package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/craft-sim/internal/config"
	"github.com/KirkDiggler/craft-sim/internal/output"
	"github.com/KirkDiggler/craft-sim/internal/repositories/snapshots"
	"github.com/KirkDiggler/craft-sim/internal/services/compilation"
)

func main() {
	persist := flag.Bool("persist", true, "store the compiled mods as a snapshot when REDIS_URL is set")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	serviceConfig := &compilation.ServiceConfig{}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = connectRedis(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer func() {
			if closeErr := redisClient.Close(); closeErr != nil {
				log.Printf("Error closing Redis connection: %v", closeErr)
			}
		}()
		serviceConfig.Snapshots = snapshots.NewRedis(redisClient)
	} else {
		log.Println("No REDIS_URL found, compiled mods will not be persisted")
	}

	input, err := compilation.ReadInput(&compilation.SourceFiles{
		SimulatorPath: cfg.Sources.SimulatorPath,
		OfficialPath:  cfg.Sources.OfficialPath,
		OverridesPath: cfg.Sources.OverridesPath,
	})
	if err != nil {
		log.Fatalf("Failed to read sources: %v", err)
	}
	input.Persist = *persist && serviceConfig.Snapshots != nil

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := compilation.NewService(serviceConfig).Compile(ctx, input)
	if err != nil {
		log.Fatalf("Compilation failed: %v", err)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	reportPath := filepath.Join(cfg.Output.Dir, fmt.Sprintf("reconciliation_%s.json", result.Report.RunID))
	f, err := os.Create(reportPath)
	if err != nil {
		log.Fatalf("Failed to create report: %v", err)
	}
	if err := result.Report.WriteJSON(f); err != nil {
		_ = f.Close()
		log.Fatalf("Failed to write report: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to close report: %v", err)
	}

	xlsxPath, err := output.ExportReportXLSX(cfg.Output.Dir, result.Report)
	if err != nil {
		log.Fatalf("Failed to export report: %v", err)
	}

	fmt.Printf("Compiled %d mods (%d matched, %d curated, %d unmatched)\n",
		len(result.Mods), result.Report.Matched, result.Report.Curated, len(result.Report.Unmatched))
	fmt.Printf("Report: %s\n", reportPath)
	fmt.Printf("Workbook: %s\n", xlsxPath)
	if result.SnapshotID != "" {
		fmt.Printf("Snapshot: %s\n", result.SnapshotID)
	}
}

func connectRedis(url string) (*redis.Client, error) {
	log.Printf("Connecting to Redis at: %s", url)

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Println("Successfully connected to Redis")
	return client, nil
}
