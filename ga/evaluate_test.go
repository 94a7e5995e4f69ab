package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposim/reposim/sim"
	"github.com/reposim/reposim/sim/workload"
)

func testEvalConfig() EvalConfig {
	return EvalConfig{
		Scenario:     workload.ScenarioCompact(5, 3, 2),
		Theta:        0.5,
		BaseSeed:     42,
		Replications: 1,
	}
}

func TestNewEvaluator_AppliesDefaults(t *testing.T) {
	e, err := NewEvaluator(testEvalConfig())
	require.NoError(t, err)

	cfg := e.Config()
	assert.InDelta(t, 9, cfg.CoverageBoundMinutes, 1e-9)
	assert.InDelta(t, 30, cfg.RestMinutes, 1e-9)
	assert.InDelta(t, 1.0, cfg.LostWeight, 1e-9)
	assert.InDelta(t, 0.1, cfg.FatigueWeight, 1e-9)
	assert.Equal(t, sim.LostCallDrop, cfg.LostCallPolicy)
	assert.Equal(t, 5, e.NumStations())
}

func TestNewEvaluator_RejectsMissingScenario(t *testing.T) {
	cfg := testEvalConfig()
	cfg.Scenario = nil
	_, err := NewEvaluator(cfg)

	var specErr *workload.SpecError
	require.ErrorAs(t, err, &specErr)
}

func TestNewEvaluator_RejectsBadTheta(t *testing.T) {
	cfg := testEvalConfig()
	cfg.Theta = 1.5
	_, err := NewEvaluator(cfg)

	var cfgErr *sim.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Theta", cfgErr.Field)
}

func TestEvaluator_InvalidChromosomeGetsWorstFitness(t *testing.T) {
	e, err := NewEvaluator(testEvalConfig())
	require.NoError(t, err)

	ev, err := e.Evaluate(Chromosome{1, 2, 2, 4, 5})
	require.ErrorIs(t, err, ErrInvalidChromosome)
	assert.Equal(t, WorstFitness, ev.Fitness)

	ev, err = e.Evaluate(Chromosome{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidChromosome)
	assert.Equal(t, WorstFitness, ev.Fitness)
}

func TestEvaluator_RepeatedEvaluationIsByteIdentical(t *testing.T) {
	e, err := NewEvaluator(testEvalConfig())
	require.NoError(t, err)

	c := Chromosome{3, 1, 5, 2, 4}
	first, err := e.Evaluate(c)
	require.NoError(t, err)
	second, err := e.Evaluate(c)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEvaluator_DistinctChromosomesGetDistinctStreams(t *testing.T) {
	e, err := NewEvaluator(testEvalConfig())
	require.NoError(t, err)

	a, err := e.Evaluate(Chromosome{1, 2, 3, 4, 5})
	require.NoError(t, err)
	b, err := e.Evaluate(Chromosome{5, 4, 3, 2, 1})
	require.NoError(t, err)

	// Derived seeds differ, so the replicate records differ (demand streams
	// are decorrelated even before policy effects).
	assert.NotEqual(t, a.Replicates, b.Replicates)
}

func TestEvaluator_ReplicationsAveraged(t *testing.T) {
	cfg := testEvalConfig()
	cfg.Replications = 3
	e, err := NewEvaluator(cfg)
	require.NoError(t, err)

	ev, err := e.Evaluate(Chromosome{2, 4, 1, 5, 3})
	require.NoError(t, err)
	require.Len(t, ev.Replicates, 3)

	var median float64
	for _, rec := range ev.Replicates {
		median += rec.MedianResponseMinutes
	}
	assert.InDelta(t, median/3, ev.Summary.MedianResponseMinutes, 1e-9)
	assert.InDelta(t,
		ev.Summary.MedianResponseMinutes+ev.Summary.LostPerDay+0.1*ev.Summary.InterruptedPerDay,
		ev.Fitness, 1e-9)
}
