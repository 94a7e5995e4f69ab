package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reposim/reposim/sim"
)

func testPopulation() Population {
	return Population{
		{Chromosome: Chromosome{1, 2, 3}, Fitness: 8},
		{Chromosome: Chromosome{3, 1, 2}, Fitness: 4},
		{Chromosome: Chromosome{1, 2, 3}, Fitness: 8},
		{Chromosome: Chromosome{2, 3, 1}, Fitness: 6},
	}
}

func TestPopulation_Best(t *testing.T) {
	assert.Equal(t, 1, testPopulation().Best())
}

func TestPopulation_BestTiesToEarlierIndex(t *testing.T) {
	pop := Population{{Fitness: 5}, {Fitness: 5}, {Fitness: 5}}
	assert.Equal(t, 0, pop.Best())
}

func TestPopulation_MeanFitness(t *testing.T) {
	assert.InDelta(t, 6.5, testPopulation().MeanFitness(), 1e-9)
}

func TestPopulation_UniqueChromosomes(t *testing.T) {
	assert.Equal(t, 3, testPopulation().UniqueChromosomes())
}

func TestPopulation_StationFrequency(t *testing.T) {
	freq := testPopulation().StationFrequency(2)

	// First two genes per individual: {1,2},{3,1},{1,2},{2,3}.
	assert.Equal(t, 3, freq[sim.StationID(1)])
	assert.Equal(t, 3, freq[sim.StationID(2)])
	assert.Equal(t, 2, freq[sim.StationID(3)])
}

func TestPopulation_StationFrequencyClampsPrefix(t *testing.T) {
	pop := Population{{Chromosome: Chromosome{2, 1}}}
	freq := pop.StationFrequency(10)
	assert.Equal(t, 1, freq[sim.StationID(1)])
	assert.Equal(t, 1, freq[sim.StationID(2)])
}

func TestPopulation_SortedByFitnessIsStable(t *testing.T) {
	pop := Population{
		{Chromosome: Chromosome{1, 2, 3}, Fitness: 5},
		{Chromosome: Chromosome{3, 2, 1}, Fitness: 2},
		{Chromosome: Chromosome{2, 1, 3}, Fitness: 5},
	}
	sorted := pop.sortedByFitness()

	assert.InDelta(t, 2, sorted[0].Fitness, 1e-9)
	assert.Equal(t, Chromosome{1, 2, 3}, sorted[1].Chromosome)
	assert.Equal(t, Chromosome{2, 1, 3}, sorted[2].Chromosome)
	// The receiver is untouched.
	assert.InDelta(t, 5, pop[0].Fitness, 1e-9)
}
