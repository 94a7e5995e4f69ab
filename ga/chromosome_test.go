package ga

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposim/reposim/sim"
)

func TestNewChromosome(t *testing.T) {
	c, err := NewChromosome([]int{3, 1, 2}, 3)
	require.NoError(t, err)
	assert.Equal(t, Chromosome{3, 1, 2}, c)
}

func TestChromosome_ValidateRejections(t *testing.T) {
	tests := []struct {
		name  string
		genes []int
	}{
		{"too short", []int{1, 2}},
		{"too long", []int{1, 2, 3, 4}},
		{"duplicate", []int{1, 2, 2}},
		{"out of range high", []int{1, 2, 4}},
		{"out of range low", []int{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChromosome(tt.genes, 3)
			require.ErrorIs(t, err, ErrInvalidChromosome)
		})
	}
}

func TestRandomChromosome_IsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		c := RandomChromosome(8, rng)
		require.NoError(t, c.Validate(8))
	}
}

func TestChromosome_KeyDistinguishesOrderings(t *testing.T) {
	a := Chromosome{1, 2, 3}
	b := Chromosome{1, 3, 2}
	assert.Equal(t, "1,2,3", a.Key())
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestChromosome_CloneIsIndependent(t *testing.T) {
	orig := Chromosome{1, 2, 3}
	clone := orig.Clone()
	clone[0] = 3
	assert.Equal(t, sim.StationID(1), orig[0])
}

func TestParseChromosome(t *testing.T) {
	c, err := ParseChromosome("3, 1, 2", 3)
	require.NoError(t, err)
	assert.Equal(t, Chromosome{3, 1, 2}, c)

	_, err = ParseChromosome("3,1,x", 3)
	require.ErrorIs(t, err, ErrInvalidChromosome)

	_, err = ParseChromosome("3,1,1", 3)
	require.ErrorIs(t, err, ErrInvalidChromosome)
}
