// The genetic algorithm engine: population lifecycle, parallel cached
// evaluation, tournament selection, order crossover, swap mutation,
// elitism, and convergence tracking.

package ga

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/reposim/reposim/sim"
	"github.com/reposim/reposim/sim/workload"
)

// ConfigError reports which GA configuration field is invalid.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ga config: field %q: %s", e.Field, e.Reason)
}

// Config groups the GA engine's knobs.
type Config struct {
	PopulationSize   int
	Generations      int
	TournamentSize   int
	CrossoverProb    float64
	MutationProb     float64
	ElitismCount     int
	StagnationWindow int // generations without improvement before stopping; 0 disables
	Seed             int64
	Workers          int // parallel evaluations per generation; 0 = GOMAXPROCS
	CacheCapacity    int // fitness cache entries; 0 = 4096
}

// ApplyDefaults fills zero-valued knobs.
func (c *Config) ApplyDefaults() {
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.CacheCapacity == 0 {
		c.CacheCapacity = 4096
	}
}

// Validate checks the configuration, naming the offending field.
func (c *Config) Validate() error {
	if c.PopulationSize < 2 {
		return &ConfigError{Field: "PopulationSize", Reason: "must be at least 2"}
	}
	if c.Generations < 1 {
		return &ConfigError{Field: "Generations", Reason: "must be at least 1"}
	}
	if c.TournamentSize < 1 || c.TournamentSize > c.PopulationSize {
		return &ConfigError{Field: "TournamentSize", Reason: "must be in [1, population size]"}
	}
	if c.CrossoverProb < 0 || c.CrossoverProb > 1 {
		return &ConfigError{Field: "CrossoverProb", Reason: "must be in [0, 1]"}
	}
	if c.MutationProb < 0 || c.MutationProb > 1 {
		return &ConfigError{Field: "MutationProb", Reason: "must be in [0, 1]"}
	}
	if c.ElitismCount < 0 || c.ElitismCount >= c.PopulationSize {
		return &ConfigError{Field: "ElitismCount", Reason: "must be in [0, population size)"}
	}
	if c.StagnationWindow < 0 {
		return &ConfigError{Field: "StagnationWindow", Reason: "must be non-negative"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "Workers", Reason: "must be non-negative"}
	}
	return nil
}

// GenerationStats is the per-generation record emitted for external
// reporting.
type GenerationStats struct {
	Generation        int
	PopulationSize    int
	BestFitness       float64
	MeanFitness       float64
	BestChromosome    Chromosome
	UniqueChromosomes int
	StationFrequency  map[sim.StationID]int
	CacheHits         int
	Failures          int // per-candidate evaluation failures
}

// Result bundles the outcome of one GA run.
type Result struct {
	BestChromosome Chromosome
	BestFitness    float64
	BestEvaluation Evaluation
	History        []GenerationStats
	Generations    int    // generations actually evaluated
	Reason         string // "generation budget" or "stagnation"
}

// Engine owns the population lifecycle for one run.
type Engine struct {
	cfg   Config
	eval  *Evaluator
	cache *FitnessCache
	rng   *rand.Rand

	activationPrefix int
}

// NewEngine validates the configuration and wires the evaluator to a fresh
// fitness cache. The cache is scoped to this engine's configuration and
// never shared across runs.
func NewEngine(cfg Config, eval *Evaluator) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cache, err := NewFitnessCache(cfg.CacheCapacity)
	if err != nil {
		return nil, &ConfigError{Field: "CacheCapacity", Reason: err.Error()}
	}

	n := eval.NumStations()
	prefix := int(math.Ceil(eval.Config().Theta * float64(n)))
	if prefix < 1 {
		prefix = 1
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed)).ForSubsystem(sim.SubsystemSearch)
	return &Engine{
		cfg:              cfg,
		eval:             eval,
		cache:            cache,
		rng:              rng,
		activationPrefix: prefix,
	}, nil
}

// Run executes the GA: Initialize -> Evaluate -> Select -> Crossover ->
// Mutate -> Elitism-merge, looping until the generation budget or the
// stagnation window is exhausted. Per-candidate failures are counted and
// logged; shared-configuration errors abort the run.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	n := e.eval.NumStations()
	pop := make(Population, e.cfg.PopulationSize)
	for i := range pop {
		pop[i] = Individual{Chromosome: RandomChromosome(n, e.rng)}
	}

	result := &Result{BestFitness: math.Inf(1)}
	stagnant := 0

	for gen := 0; gen < e.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		stats, err := e.evaluateGeneration(ctx, gen, pop)
		if err != nil {
			return result, err
		}
		result.History = append(result.History, stats)
		result.Generations = gen + 1

		best := pop[pop.Best()]
		if best.Fitness < result.BestFitness {
			result.BestFitness = best.Fitness
			result.BestChromosome = best.Chromosome.Clone()
			result.BestEvaluation = best.Evaluation
			stagnant = 0
		} else {
			stagnant++
		}

		logrus.Infof("generation %d: best %.4f mean %.4f unique %d hits %d",
			gen, stats.BestFitness, stats.MeanFitness, stats.UniqueChromosomes, stats.CacheHits)

		if e.cfg.StagnationWindow > 0 && stagnant >= e.cfg.StagnationWindow {
			result.Reason = "stagnation"
			return result, nil
		}
		if gen == e.cfg.Generations-1 {
			break
		}
		pop = e.nextGeneration(pop)
	}

	result.Reason = "generation budget"
	return result, nil
}

// evaluateGeneration scores every unscored individual via the cache, using
// a bounded worker pool. Evaluations are independent; results are joined
// before selection begins.
func (e *Engine) evaluateGeneration(ctx context.Context, gen int, pop Population) (GenerationStats, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	hits := make([]bool, len(pop))
	for i := range pop {
		if pop[i].scored {
			continue
		}
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ind := &pop[i]
			ev, hit, err := e.cache.GetOrCompute(ind.Chromosome.Key(), func() (Evaluation, error) {
				return e.eval.Evaluate(ind.Chromosome)
			})
			if err != nil && isFatal(err) {
				return err
			}
			ind.Evaluation = ev
			ind.Fitness = ev.Fitness
			ind.Err = err
			ind.scored = true
			hits[i] = hit
			if err != nil {
				logrus.Warnf("candidate %s failed: %v", ind.Chromosome.Key(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return GenerationStats{}, err
	}

	stats := GenerationStats{
		Generation:        gen,
		PopulationSize:    len(pop),
		MeanFitness:       pop.MeanFitness(),
		UniqueChromosomes: pop.UniqueChromosomes(),
		StationFrequency:  pop.StationFrequency(e.activationPrefix),
	}
	best := pop.Best()
	stats.BestFitness = pop[best].Fitness
	stats.BestChromosome = pop[best].Chromosome.Clone()
	for i := range pop {
		if hits[i] {
			stats.CacheHits++
		}
		if pop[i].Err != nil {
			stats.Failures++
		}
	}
	return stats, nil
}

// nextGeneration produces the next population: elites carried unchanged,
// the rest bred by tournament selection, order crossover, and swap
// mutation. Population size is invariant.
func (e *Engine) nextGeneration(pop Population) Population {
	next := make(Population, 0, len(pop))

	sorted := pop.sortedByFitness()
	for i := 0; i < e.cfg.ElitismCount; i++ {
		elite := sorted[i]
		elite.Chromosome = elite.Chromosome.Clone()
		next = append(next, elite) // scored flag travels with the elite
	}

	for len(next) < len(pop) {
		p1 := pop[TournamentSelect(pop, e.cfg.TournamentSize, e.rng)]
		p2 := pop[TournamentSelect(pop, e.cfg.TournamentSize, e.rng)]

		var c1, c2 Chromosome
		if e.rng.Float64() < e.cfg.CrossoverProb {
			c1, c2 = OrderCrossover(p1.Chromosome, p2.Chromosome, e.rng)
		} else {
			c1, c2 = p1.Chromosome.Clone(), p2.Chromosome.Clone()
		}
		for _, c := range []Chromosome{c1, c2} {
			if len(next) == len(pop) {
				break
			}
			if e.rng.Float64() < e.cfg.MutationProb {
				SwapMutate(c, e.rng)
			}
			next = append(next, Individual{Chromosome: c})
		}
	}
	return next
}

// isFatal separates shared-configuration failures (abort the run) from
// per-candidate failures (worst-case fitness, run continues).
func isFatal(err error) bool {
	var simErr *sim.ConfigError
	var specErr *workload.SpecError
	return errors.As(err, &simErr) || errors.As(err, &specErr) || errors.Is(err, ErrCacheInconsistency)
}
