package workload

import (
	"math"
	"math/rand"
)

// ShiftSampler generates inter-arrival times for the nonhomogeneous Poisson
// demand process: a base rate per 8-hour shift, modulated by a day-of-week
// multiplier. Day 0 of the simulation is a Monday.
type ShiftSampler struct {
	rates   [3]float64 // calls per minute per shift
	dayMult [7]float64 // Monday..Sunday
}

// NewShiftSampler builds a sampler from a validated spec.
func NewShiftSampler(spec *Spec) *ShiftSampler {
	s := &ShiftSampler{
		rates: [3]float64{spec.ShiftRates.Shift1, spec.ShiftRates.Shift2, spec.ShiftRates.Shift3},
	}
	for i, day := range dayNames {
		s.dayMult[i] = spec.DayMultipliers[day]
	}
	return s
}

// shiftIndex maps a minute-of-day to its shift:
// 05:00-13:00 -> 0, 13:00-21:00 -> 1, else -> 2.
func shiftIndex(minuteOfDay float64) int {
	switch {
	case minuteOfDay >= 5*60 && minuteOfDay < 13*60:
		return 0
	case minuteOfDay >= 13*60 && minuteOfDay < 21*60:
		return 1
	default:
		return 2
	}
}

// RateAt returns the arrival rate (calls/minute) in effect at time t.
func (s *ShiftSampler) RateAt(t float64) float64 {
	day := int(t/(24*60)) % 7
	minuteOfDay := math.Mod(t, 24*60)
	return s.rates[shiftIndex(minuteOfDay)] * s.dayMult[day]
}

// NextInterarrival samples the time until the next call, using the rate in
// effect at time t. Always positive.
func (s *ShiftSampler) NextInterarrival(t float64, rng *rand.Rand) float64 {
	return rng.ExpFloat64() / s.RateAt(t)
}
