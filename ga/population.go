package ga

import (
	"sort"

	"github.com/reposim/reposim/sim"
)

// Individual pairs a chromosome with its evaluation for one generation.
type Individual struct {
	Chromosome Chromosome
	Fitness    float64
	Evaluation Evaluation
	Err        error // per-candidate evaluation failure, if any

	scored bool
}

// Population is one generation's set of individuals. Size is fixed across
// generations.
type Population []Individual

// Best returns the index of the lowest-fitness individual (ties to the
// earlier index).
func (p Population) Best() int {
	best := 0
	for i := 1; i < len(p); i++ {
		if p[i].Fitness < p[best].Fitness {
			best = i
		}
	}
	return best
}

// MeanFitness returns the population's mean fitness.
func (p Population) MeanFitness() float64 {
	sum := 0.0
	for i := range p {
		sum += p[i].Fitness
	}
	return sum / float64(len(p))
}

// UniqueChromosomes counts distinct chromosomes, a cheap diversity measure.
func (p Population) UniqueChromosomes() int {
	seen := make(map[string]bool, len(p))
	for i := range p {
		seen[p[i].Chromosome.Key()] = true
	}
	return len(seen)
}

// StationFrequency counts, per station, how many individuals carry it
// within the first prefixLen genes — the part of the ordering that actually
// drives repositioning under low availability.
func (p Population) StationFrequency(prefixLen int) map[sim.StationID]int {
	freq := make(map[sim.StationID]int)
	for i := range p {
		c := p[i].Chromosome
		n := prefixLen
		if n > len(c) {
			n = len(c)
		}
		for _, g := range c[:n] {
			freq[g]++
		}
	}
	return freq
}

// sortedByFitness returns a copy ordered by ascending fitness, stable so
// equal-fitness individuals keep their generation order.
func (p Population) sortedByFitness() Population {
	sorted := append(Population(nil), p...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fitness < sorted[j].Fitness
	})
	return sorted
}
