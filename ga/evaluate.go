// The fitness function: chromosome -> repositioning table -> replicated
// simulation runs -> weighted scalar score.

package ga

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/reposim/reposim/sim"
	"github.com/reposim/reposim/sim/workload"
)

// WorstFitness is the score assigned to candidates whose evaluation failed
// structurally (invalid chromosome). Large enough to lose every tournament,
// finite so fitness arithmetic stays well defined.
const WorstFitness = 1e9

// EvalConfig fixes everything about an evaluation except the chromosome.
// The penalty policy is part of this configuration, not hidden inside the
// simulator.
type EvalConfig struct {
	Scenario *workload.Spec

	Theta        float64 // availability threshold (fraction of fleet)
	BaseSeed     int64
	Replications int // independent demand streams averaged per evaluation

	CoverageBoundMinutes float64 // response-time bound for coverage (default 9)
	RestMinutes          float64 // idle time that resets a mission streak

	// Penalty weights folding secondary objectives into the scalar.
	LostWeight    float64 // per lost call per day
	FatigueWeight float64 // per interrupted repositioning per day

	LostCallPolicy       sim.LostCallPolicy
	QueuePatienceMinutes float64
}

// ApplyDefaults fills zero-valued knobs.
func (c *EvalConfig) ApplyDefaults() {
	if c.Replications == 0 {
		c.Replications = 3
	}
	if c.CoverageBoundMinutes == 0 {
		c.CoverageBoundMinutes = 9
	}
	if c.RestMinutes == 0 {
		c.RestMinutes = 30
	}
	if c.LostCallPolicy == "" {
		c.LostCallPolicy = sim.LostCallDrop
	}
	if c.LostWeight == 0 {
		c.LostWeight = 1.0
	}
	if c.FatigueWeight == 0 {
		c.FatigueWeight = 0.1
	}
}

// MetricsSummary averages the per-replication metrics records of one
// evaluation. NoData is set only when every replication had no data.
type MetricsSummary struct {
	MedianResponseMinutes float64
	CoverageFraction      float64
	LostPerDay            float64
	InterruptedPerDay     float64
	RepositionMinutes     float64
	MeanBusyFraction      float64
	NoData                bool
}

// Evaluation is the cached result of scoring one chromosome: the scalar
// fitness plus the metrics behind it.
type Evaluation struct {
	Fitness    float64
	Summary    MetricsSummary
	Replicates []*sim.MetricsRecord
}

// Evaluator adapts chromosomes into fitness scores. Construction validates
// the shared configuration; configuration errors abort the whole run, while
// per-chromosome errors stay local to one Evaluate call.
type Evaluator struct {
	cfg  EvalConfig
	topo *sim.Topology
}

// NewEvaluator validates cfg and builds the shared topology.
func NewEvaluator(cfg EvalConfig) (*Evaluator, error) {
	cfg.ApplyDefaults()
	if cfg.Scenario == nil {
		return nil, &workload.SpecError{Field: "scenario", Reason: "missing"}
	}
	if err := cfg.Scenario.Validate(); err != nil {
		return nil, err
	}
	if cfg.Replications < 1 {
		return nil, &sim.ConfigError{Field: "Replications", Reason: "must be at least 1"}
	}
	if cfg.LostWeight < 0 || cfg.FatigueWeight < 0 {
		return nil, &sim.ConfigError{Field: "PenaltyWeights", Reason: "must be non-negative"}
	}

	e := &Evaluator{cfg: cfg, topo: cfg.Scenario.Topology()}

	// Probe the simulation config once so malformed shared settings (theta,
	// horizon, policy) fail here instead of inside a worker.
	if err := e.simConfig().Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// NumStations returns the size of the station domain chromosomes must cover.
func (e *Evaluator) NumStations() int {
	return e.topo.NumStations()
}

// Config returns the evaluation configuration (defaults applied).
func (e *Evaluator) Config() EvalConfig {
	return e.cfg
}

func (e *Evaluator) simConfig() *sim.Config {
	return &sim.Config{
		Topology:             e.topo,
		Theta:                e.cfg.Theta,
		HorizonMinutes:       e.cfg.Scenario.HorizonMinutes(),
		WarmupMinutes:        e.cfg.Scenario.WarmupMinutes(),
		CoverageBoundMinutes: e.cfg.CoverageBoundMinutes,
		RestMinutes:          e.cfg.RestMinutes,
		LostCallPolicy:       e.cfg.LostCallPolicy,
		QueuePatienceMinutes: e.cfg.QueuePatienceMinutes,
	}
}

// Evaluate scores one chromosome. Pure with respect to the chromosome and
// configuration: every replication's demand stream is derived from the base
// seed and the chromosome's canonical key, so repeated evaluation is
// byte-identical and safe to memoize.
func (e *Evaluator) Evaluate(c Chromosome) (Evaluation, error) {
	if err := c.Validate(e.topo.NumStations()); err != nil {
		return Evaluation{Fitness: WorstFitness}, err
	}
	table, err := sim.BuildRepositionTable([]sim.StationID(c), e.topo.NumStations())
	if err != nil {
		return Evaluation{Fitness: WorstFitness}, fmt.Errorf("%w: %v", ErrInvalidChromosome, err)
	}

	ev := Evaluation{Replicates: make([]*sim.MetricsRecord, 0, e.cfg.Replications)}
	noData := true
	for i := 0; i < e.cfg.Replications; i++ {
		key := sim.DeriveEvaluationKey(e.cfg.BaseSeed, c.Key(), i)
		rng := sim.NewPartitionedRNG(key).ForSubsystem(sim.SubsystemDemand)
		calls := workload.GenerateCalls(e.cfg.Scenario, rng)

		s, err := sim.NewSimulator(e.simConfig(), table, calls)
		if err != nil {
			// Shared-configuration failure: fatal to the run, not to the
			// candidate.
			return Evaluation{Fitness: WorstFitness}, err
		}
		rec := s.Run()
		ev.Replicates = append(ev.Replicates, rec)

		ev.Summary.MedianResponseMinutes += rec.MedianResponseMinutes
		ev.Summary.CoverageFraction += rec.CoverageFraction
		ev.Summary.LostPerDay += rec.LostPerDay()
		ev.Summary.InterruptedPerDay += rec.InterruptedPerDay()
		ev.Summary.RepositionMinutes += rec.RepositionMinutes
		ev.Summary.MeanBusyFraction += rec.MeanBusyFraction
		noData = noData && rec.NoData
	}

	reps := float64(e.cfg.Replications)
	ev.Summary.MedianResponseMinutes /= reps
	ev.Summary.CoverageFraction /= reps
	ev.Summary.LostPerDay /= reps
	ev.Summary.InterruptedPerDay /= reps
	ev.Summary.RepositionMinutes /= reps
	ev.Summary.MeanBusyFraction /= reps
	ev.Summary.NoData = noData

	ev.Fitness = ev.Summary.MedianResponseMinutes +
		e.cfg.LostWeight*ev.Summary.LostPerDay +
		e.cfg.FatigueWeight*ev.Summary.InterruptedPerDay

	logrus.Debugf("evaluated %s: fitness %.4f (median %.2f, lost/day %.2f)",
		c.Key(), ev.Fitness, ev.Summary.MedianResponseMinutes, ev.Summary.LostPerDay)
	return ev, nil
}
