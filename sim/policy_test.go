package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRepositionTable_CoversEveryAvailabilityLevel(t *testing.T) {
	order := []StationID{3, 1, 4, 2, 5}
	table, err := BuildRepositionTable(order, 5)
	require.NoError(t, err)

	// One row per availability level 0..N, each a prefix of the ordering.
	assert.Equal(t, 6, table.Levels())
	for avail := 2; avail <= 5; avail++ {
		targets := table.TargetsFor(avail)
		require.Len(t, targets, avail)
		assert.Equal(t, order[:avail], targets)
	}
}

func TestBuildRepositionTable_NoDuplicateTargetsPerRow(t *testing.T) {
	table, err := BuildRepositionTable([]StationID{2, 4, 1, 3}, 4)
	require.NoError(t, err)

	for avail := 0; avail <= 6; avail++ {
		seen := map[StationID]bool{}
		for _, id := range table.TargetsFor(avail) {
			assert.False(t, seen[id], "availability %d: duplicate target %d", avail, id)
			seen[id] = true
		}
	}
}

func TestRepositionTable_DegradesWithOneUnitLeft(t *testing.T) {
	table, err := BuildRepositionTable([]StationID{1, 2, 3}, 3)
	require.NoError(t, err)

	assert.Nil(t, table.TargetsFor(0))
	assert.Nil(t, table.TargetsFor(1))
}

func TestRepositionTable_ClampsBeyondFleetSize(t *testing.T) {
	// A fleet larger than the station count indexes past the last row.
	table, err := BuildRepositionTable([]StationID{2, 1, 3}, 3)
	require.NoError(t, err)

	assert.Equal(t, []StationID{2, 1, 3}, table.TargetsFor(10))
}

func TestBuildRepositionTable_RejectsInvalidOrderings(t *testing.T) {
	tests := []struct {
		name  string
		order []StationID
		n     int
	}{
		{"too short", []StationID{1, 2}, 3},
		{"too long", []StationID{1, 2, 3, 4}, 3},
		{"duplicate", []StationID{1, 2, 2}, 3},
		{"out of range high", []StationID{1, 2, 7}, 3},
		{"out of range zero", []StationID{0, 1, 2}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRepositionTable(tt.order, tt.n)
			assert.ErrorIs(t, err, ErrInvalidOrdering)
		})
	}
}
