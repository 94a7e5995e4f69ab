// Builds the repositioning table that maps system availability to candidate
// relocation stations, derived from a station priority ordering.

package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidOrdering indicates a station ordering that is not a permutation
// of the station domain.
var ErrInvalidOrdering = errors.New("invalid station ordering")

// RepositionTable maps an availability level (number of units not committed
// to a call) to the ordered list of candidate stations an idle unit may be
// redirected to. Row a holds the first min(a, N) stations of the priority
// ordering: the fewer units remain available, the shorter and more focused
// the candidate list. Immutable once built.
type RepositionTable struct {
	rows [][]StationID
}

// BuildRepositionTable derives a RepositionTable from a priority ordering of
// station IDs. The ordering must be a permutation of 1..nStations; anything
// else fails with ErrInvalidOrdering. The transformation is deterministic
// and side-effect free.
func BuildRepositionTable(order []StationID, nStations int) (*RepositionTable, error) {
	if len(order) != nStations {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrInvalidOrdering, len(order), nStations)
	}
	seen := make(map[StationID]bool, nStations)
	for _, id := range order {
		if id < 1 || int(id) > nStations {
			return nil, fmt.Errorf("%w: station %d out of range 1..%d", ErrInvalidOrdering, id, nStations)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: station %d appears more than once", ErrInvalidOrdering, id)
		}
		seen[id] = true
	}

	rows := make([][]StationID, len(order)+1)
	for i := range rows {
		rows[i] = order[:i]
	}
	return &RepositionTable{rows: rows}, nil
}

// TargetsFor returns the candidate stations for the given availability
// level. Defined for every availability: levels beyond the table clamp to
// the last row, and when at most one unit remains available the policy
// degrades to no repositioning (nil).
func (t *RepositionTable) TargetsFor(available int) []StationID {
	if available <= 1 {
		return nil
	}
	row := available
	if row >= len(t.rows) {
		row = len(t.rows) - 1
	}
	return t.rows[row]
}

// Levels returns the number of availability levels the table covers.
func (t *RepositionTable) Levels() int {
	return len(t.rows)
}
