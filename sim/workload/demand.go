// Turns a demand scenario spec into the concrete call stream for one run.

package workload

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/reposim/reposim/sim"
)

// GenerateCalls produces the full call stream for one simulation run from a
// seeded RNG. All randomness a run consumes is drawn here, in a fixed
// order, so the simulator itself is purely deterministic given the stream.
func GenerateCalls(spec *Spec, rng *rand.Rand) []*sim.Call {
	sampler := NewShiftSampler(spec)
	horizon := spec.HorizonMinutes()

	var calls []*sim.Call
	t := 0.0
	for {
		t += sampler.NextInterarrival(t, rng)
		if t >= horizon {
			break
		}
		c := sim.NewCall(len(calls), t, sampleLat(spec, rng), sampleLon(spec, rng))
		c.TreatMinutes = rng.ExpFloat64() * spec.TreatTimeMean
		c.HospitalRequired = rng.Float64() < spec.HospitalProb
		if c.HospitalRequired {
			c.HandoverMinutes = rng.ExpFloat64() * spec.HandoverMeanMinutes
		}
		calls = append(calls, c)
	}

	logrus.Debugf("generated %d calls over %d days for scenario %q", len(calls), spec.TotalDays, spec.Name)
	return calls
}

func sampleLat(spec *Spec, rng *rand.Rand) float64 {
	return spec.Region.MinLat + rng.Float64()*(spec.Region.MaxLat-spec.Region.MinLat)
}

func sampleLon(spec *Spec, rng *rand.Rand) float64 {
	return spec.Region.MinLon + rng.Float64()*(spec.Region.MaxLon-spec.Region.MinLon)
}
