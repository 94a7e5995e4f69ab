// Permutation-safe GA operators: tournament selection, order crossover,
// and swap mutation.

package ga

import (
	"math/rand"

	"github.com/reposim/reposim/sim"
)

// TournamentSelect samples tournamentSize members of the population at
// random and returns the index of the best (lowest fitness) one.
func TournamentSelect(pop Population, tournamentSize int, rng *rand.Rand) int {
	best := rng.Intn(len(pop))
	bestFitness := pop[best].Fitness
	for i := 1; i < tournamentSize; i++ {
		cand := rng.Intn(len(pop))
		if pop[cand].Fitness < bestFitness {
			best = cand
			bestFitness = pop[cand].Fitness
		}
	}
	return best
}

// OrderCrossover combines two parent permutations into two offspring with
// the classic OX operator: a random segment is copied from one parent, and
// the remaining positions are filled with the other parent's genes in their
// original relative order. Offspring are always valid permutations.
func OrderCrossover(p1, p2 Chromosome, rng *rand.Rand) (Chromosome, Chromosome) {
	n := len(p1)
	if n < 2 {
		return p1.Clone(), p2.Clone()
	}

	a := rng.Intn(n)
	b := rng.Intn(n)
	if a > b {
		a, b = b, a
	}
	if a == b {
		b = (a + 1) % n
		if a > b {
			a, b = b, a
		}
	}

	return oxChild(p1, p2, a, b), oxChild(p2, p1, a, b)
}

// oxChild builds one OX offspring: segment [a, b) from seg, the rest from
// fill in order, starting after the segment and wrapping.
func oxChild(seg, fill Chromosome, a, b int) Chromosome {
	n := len(seg)
	child := make(Chromosome, n)
	used := make(map[sim.StationID]bool, b-a)
	for i := a; i < b; i++ {
		child[i] = seg[i]
		used[seg[i]] = true
	}

	pos := b % n
	for i := 0; i < n; i++ {
		gene := fill[(b+i)%n]
		if used[gene] {
			continue
		}
		child[pos] = gene
		pos = (pos + 1) % n
	}
	return child
}

// SwapMutate exchanges two distinct positions in place, preserving the
// permutation invariant.
func SwapMutate(c Chromosome, rng *rand.Rand) {
	n := len(c)
	if n < 2 {
		return
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	c[i], c[j] = c[j], c[i]
}
