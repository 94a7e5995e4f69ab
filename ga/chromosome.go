// Defines the Chromosome: a validated permutation of station IDs encoding a
// repositioning priority ordering.

package ga

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/reposim/reposim/sim"
)

// ErrInvalidChromosome indicates a structural violation of the permutation
// invariant. Fatal to that candidate's evaluation only, never to the run.
var ErrInvalidChromosome = errors.New("invalid chromosome")

// Chromosome is an ordered sequence of station IDs. A valid chromosome for
// an N-station topology is a permutation of 1..N; validity is checked at
// the boundary (construction, parsing, evaluation) rather than deep inside
// the simulator.
type Chromosome []sim.StationID

// NewChromosome validates genes against the station domain and returns the
// chromosome, or an error wrapping ErrInvalidChromosome.
func NewChromosome(genes []int, nStations int) (Chromosome, error) {
	c := make(Chromosome, len(genes))
	for i, g := range genes {
		c[i] = sim.StationID(g)
	}
	if err := c.Validate(nStations); err != nil {
		return nil, err
	}
	return c, nil
}

// RandomChromosome produces a uniformly random permutation of 1..n.
func RandomChromosome(n int, rng *rand.Rand) Chromosome {
	c := make(Chromosome, n)
	for i := range c {
		c[i] = sim.StationID(i + 1)
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		c[i], c[j] = c[j], c[i]
	}
	return c
}

// Validate checks the permutation invariant against an N-station domain.
func (c Chromosome) Validate(nStations int) error {
	if len(c) != nStations {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidChromosome, len(c), nStations)
	}
	seen := make(map[sim.StationID]bool, nStations)
	for _, g := range c {
		if g < 1 || int(g) > nStations {
			return fmt.Errorf("%w: station %d out of range 1..%d", ErrInvalidChromosome, g, nStations)
		}
		if seen[g] {
			return fmt.Errorf("%w: station %d appears more than once", ErrInvalidChromosome, g)
		}
		seen[g] = true
	}
	return nil
}

// Key returns the canonical order-preserving encoding used as the fitness
// cache key. Two orderings of the same stations produce distinct keys.
func (c Chromosome) Key() string {
	var sb strings.Builder
	for i, g := range c {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(g)))
	}
	return sb.String()
}

// Clone returns an independent copy.
func (c Chromosome) Clone() Chromosome {
	return append(Chromosome(nil), c...)
}

// ParseChromosome parses a comma-separated station list ("3,1,2") and
// validates it against the station domain.
func ParseChromosome(s string, nStations int) (Chromosome, error) {
	parts := strings.Split(s, ",")
	genes := make([]int, 0, len(parts))
	for _, p := range parts {
		g, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a station ID", ErrInvalidChromosome, p)
		}
		genes = append(genes, g)
	}
	return NewChromosome(genes, nStations)
}
