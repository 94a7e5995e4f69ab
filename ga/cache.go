// Memoizes fitness evaluations keyed by the chromosome's canonical
// encoding. Bounded LRU storage; insert-if-absent semantics under
// concurrent workers.

package ga

import (
	"errors"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// ErrCacheInconsistency indicates a stored value that does not match its
// key's type. Should be unreachable; treated as fatal because it implies a
// key-canonicalization bug.
var ErrCacheInconsistency = errors.New("fitness cache inconsistency")

// FitnessCache memoizes Evaluate results per chromosome key. Eviction only
// forces recomputation, never an incorrect hit; the cache is scoped to one
// run configuration and must not be reused across configurations.
type FitnessCache struct {
	store *lru.Cache[string, Evaluation]
	group singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// NewFitnessCache builds a cache with the given capacity (entries).
func NewFitnessCache(capacity int) (*FitnessCache, error) {
	store, err := lru.New[string, Evaluation](capacity)
	if err != nil {
		return nil, err
	}
	return &FitnessCache{store: store}, nil
}

// GetOrCompute returns the cached evaluation for key, or computes, stores,
// and returns it. Concurrent callers for the same uncached key serialize
// behind singleflight so only one simulates. The second return value
// reports whether the call was a cache hit. Evaluations that failed are not
// cached; the error is returned for the caller to handle per-candidate.
func (fc *FitnessCache) GetOrCompute(key string, compute func() (Evaluation, error)) (Evaluation, bool, error) {
	if ev, ok := fc.store.Get(key); ok {
		fc.hits.Add(1)
		return ev, true, nil
	}

	v, err, _ := fc.group.Do(key, func() (any, error) {
		// A racing worker may have filled the entry while we waited.
		if ev, ok := fc.store.Get(key); ok {
			return ev, nil
		}
		ev, err := compute()
		if err != nil {
			return ev, err
		}
		fc.store.Add(key, ev)
		return ev, nil
	})
	if err != nil {
		if ev, ok := v.(Evaluation); ok {
			return ev, false, err
		}
		return Evaluation{Fitness: WorstFitness}, false, err
	}
	ev, ok := v.(Evaluation)
	if !ok {
		return Evaluation{Fitness: WorstFitness}, false, ErrCacheInconsistency
	}
	fc.misses.Add(1)
	return ev, false, nil
}

// Len returns the number of cached entries.
func (fc *FitnessCache) Len() int {
	return fc.store.Len()
}

// Stats returns the hit and miss counts so far.
func (fc *FitnessCache) Stats() (hits, misses int64) {
	return fc.hits.Load(), fc.misses.Load()
}
