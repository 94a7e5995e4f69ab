package ga

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitnessCache_HitReturnsStoredValue(t *testing.T) {
	fc, err := NewFitnessCache(16)
	require.NoError(t, err)

	want := Evaluation{Fitness: 7.5}
	ev, hit, err := fc.GetOrCompute("1,2,3", func() (Evaluation, error) { return want, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, want, ev)

	ev, hit, err = fc.GetOrCompute("1,2,3", func() (Evaluation, error) {
		t.Fatal("unexpected recomputation")
		return Evaluation{}, nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, ev)

	hits, misses := fc.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestFitnessCache_ConcurrentCallersComputeOnce(t *testing.T) {
	fc, err := NewFitnessCache(16)
	require.NoError(t, err)

	var computations atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ev, _, err := fc.GetOrCompute("2,1,3", func() (Evaluation, error) {
				computations.Add(1)
				return Evaluation{Fitness: 3.0}, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 3.0, ev.Fitness)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), computations.Load())
	assert.Equal(t, 1, fc.Len())
}

func TestFitnessCache_FailedEvaluationsNotCached(t *testing.T) {
	fc, err := NewFitnessCache(16)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, hit, err := fc.GetOrCompute("3,2,1", func() (Evaluation, error) {
		return Evaluation{Fitness: WorstFitness}, boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, hit)
	assert.Equal(t, 0, fc.Len())

	// A later retry computes again.
	ev, hit, err := fc.GetOrCompute("3,2,1", func() (Evaluation, error) {
		return Evaluation{Fitness: 4.0}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 4.0, ev.Fitness)
}

func TestFitnessCache_EvictionForcesRecompute(t *testing.T) {
	fc, err := NewFitnessCache(1)
	require.NoError(t, err)

	calls := 0
	compute := func(f float64) func() (Evaluation, error) {
		return func() (Evaluation, error) {
			calls++
			return Evaluation{Fitness: f}, nil
		}
	}

	_, _, err = fc.GetOrCompute("1,2,3", compute(1))
	require.NoError(t, err)
	_, _, err = fc.GetOrCompute("2,1,3", compute(2)) // evicts 1,2,3
	require.NoError(t, err)

	ev, hit, err := fc.GetOrCompute("1,2,3", compute(1))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1.0, ev.Fitness)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, fc.Len())
}
