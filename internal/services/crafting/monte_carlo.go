package crafting

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/KirkDiggler/craft-sim/internal/dice"
	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"golang.org/x/sync/errgroup"
)

// MonteCarloInput describes a batch of independent samples
type MonteCarloInput struct {
	Item       *mods.Item
	Action     Action
	Iterations int
	// Workers defaults to 1; each worker gets its own roller seeded from Seed
	Workers int
	Seed    int64
}

// MonteCarloResult holds how often each tier was rolled
type MonteCarloResult struct {
	Iterations  int
	Counts      map[string]int
	Frequencies map[string]float64
}

// Keys returns the tier keys sorted
func (r *MonteCarloResult) Keys() []string {
	out := make([]string, 0, len(r.Counts))
	for k := range r.Counts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (e *engine) MonteCarlo(ctx context.Context, input *MonteCarloInput) (*MonteCarloResult, error) {
	if input == nil {
		return nil, crafterr.InvalidArgument("monte carlo input cannot be nil")
	}
	if input.Iterations <= 0 {
		return nil, crafterr.InvalidArgumentf("iterations must be positive, got %d", input.Iterations)
	}

	workers := input.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > input.Iterations {
		workers = input.Iterations
	}

	// The population does not depend on the rolls, so resolve it once and
	// share it read-only across workers.
	branches, err := e.branches(input.Item, input.Action)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	counts := make(map[string]int)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		share := input.Iterations / workers
		if w < input.Iterations%workers {
			share++
		}
		roller := dice.NewSeededRoller(input.Seed + int64(w))

		g.Go(func() error {
			local := make(map[string]int)
			for i := 0; i < share; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				_, t, err := draw(branches, roller)
				if err != nil {
					return err
				}
				local[t.String()]++
			}

			mu.Lock()
			defer mu.Unlock()
			for k, n := range local {
				counts[k] += n
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &MonteCarloResult{
		Iterations:  input.Iterations,
		Counts:      counts,
		Frequencies: make(map[string]float64, len(counts)),
	}
	for k, n := range counts {
		result.Frequencies[k] = float64(n) / float64(input.Iterations)
	}

	log.Printf("Monte Carlo %s on %s: %d iterations, %d workers, %d distinct tiers",
		input.Action, input.Item.BaseType, input.Iterations, workers, len(counts))
	return result, nil
}
