package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// DeriveEvaluationKey derives the SimulationKey for one replication of one
// candidate's evaluation. Folding the candidate's canonical encoding and the
// replication index into the base seed keeps repeated evaluations of the
// same candidate byte-identical while decorrelating distinct candidates and
// replications.
func DeriveEvaluationKey(baseSeed int64, canonical string, replication int) SimulationKey {
	// 0x9e3779b97f4a7c15 reinterpreted as int64 (two's complement) so the
	// untyped constant does not overflow.
	return SimulationKey(baseSeed ^ fnv1a64(canonical) ^ (int64(replication) * -0x61c8864680b583eb))
}

// === Subsystem Constants ===

const (
	// SubsystemDemand is the RNG subsystem for demand generation
	// (arrivals, call locations, service durations).
	SubsystemDemand = "demand"

	// SubsystemSearch is the RNG subsystem for the GA's stochastic
	// operators (initialization, selection, crossover, mutation).
	SubsystemSearch = "search"
)

// SubsystemReplication returns the subsystem name for replication N of an
// evaluation, so replicated runs draw from isolated streams.
func SubsystemReplication(i int) string {
	return fmt.Sprintf("replication_%d", i)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemDemand: uses masterSeed directly (the demand stream
//     defines the run's identity)
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemDemand {
		derivedSeed = int64(p.key)
	} else {
		// All other subsystems: XOR with hash for isolation.
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
