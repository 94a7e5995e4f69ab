// Tracks run-wide performance metrics: response-time statistics, coverage,
// lost calls, and the fatigue indicators derived from unit counters.

package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NoDataResponseTime is the sentinel median reported when a run produced no
// in-window responses. Explicit rather than NaN so downstream fitness math
// stays well defined.
const NoDataResponseTime = 999.0

// MetricsRecord is the immutable aggregate of one completed run.
type MetricsRecord struct {
	MedianResponseMinutes float64 // NoDataResponseTime when NoData
	CoverageFraction      float64 // fraction of served calls within the bound
	ServedCalls           int
	LostCalls             int
	NoData                bool // no in-window responses were recorded

	// Fatigue indicators.
	RepositionMinutes      float64 // cumulative across the fleet
	InterruptedRepositions int
	MaxConsecutiveMissions int
	MeanBusyFraction       float64 // mean fraction of the horizon units spent on calls

	ObservationDays float64 // post-warmup window length, for per-day rates
}

// LostPerDay normalizes the lost-call count by the observation window.
func (m *MetricsRecord) LostPerDay() float64 {
	if m.ObservationDays <= 0 {
		return 0
	}
	return float64(m.LostCalls) / m.ObservationDays
}

// InterruptedPerDay normalizes the interrupted-repositioning count.
func (m *MetricsRecord) InterruptedPerDay() float64 {
	if m.ObservationDays <= 0 {
		return 0
	}
	return float64(m.InterruptedRepositions) / m.ObservationDays
}

// Print displays the aggregated metrics at the end of a run.
func (m *MetricsRecord) Print() {
	fmt.Println("=== Simulation Metrics ===")
	if m.NoData {
		fmt.Println("Median Response      : no data")
	} else {
		fmt.Printf("Median Response      : %.2f min\n", m.MedianResponseMinutes)
	}
	fmt.Printf("Coverage             : %.1f%%\n", m.CoverageFraction*100)
	fmt.Printf("Served Calls         : %d\n", m.ServedCalls)
	fmt.Printf("Lost Calls           : %d (%.2f/day)\n", m.LostCalls, m.LostPerDay())
	fmt.Printf("Repositioning Time   : %.1f min\n", m.RepositionMinutes)
	fmt.Printf("Interrupted Repos    : %d\n", m.InterruptedRepositions)
	fmt.Printf("Max Mission Streak   : %d\n", m.MaxConsecutiveMissions)
	fmt.Printf("Mean Busy Fraction   : %.1f%%\n", m.MeanBusyFraction*100)
}

// metricsAccumulator collects per-call observations during a run and turns
// them into a MetricsRecord at the end.
type metricsAccumulator struct {
	responses []float64 // post-warmup response times
	lost      int
	served    int
}

func newMetricsAccumulator() *metricsAccumulator {
	return &metricsAccumulator{}
}

func (a *metricsAccumulator) recordServed(c *Call, inWindow bool) {
	if !inWindow {
		return
	}
	a.served++
	a.responses = append(a.responses, c.ResponseTime)
}

func (a *metricsAccumulator) recordLost(inWindow bool) {
	if inWindow {
		a.lost++
	}
}

// finalize computes the MetricsRecord from the accumulated observations and
// the fleet's fatigue counters.
func (a *metricsAccumulator) finalize(cfg *Config, units []*Unit) *MetricsRecord {
	rec := &MetricsRecord{
		ServedCalls:     a.served,
		LostCalls:       a.lost,
		ObservationDays: (cfg.HorizonMinutes - cfg.WarmupMinutes) / (24 * 60),
	}

	if len(a.responses) == 0 {
		rec.NoData = true
		rec.MedianResponseMinutes = NoDataResponseTime
		rec.CoverageFraction = 0
	} else {
		sorted := append([]float64(nil), a.responses...)
		sort.Float64s(sorted)
		rec.MedianResponseMinutes = stat.Quantile(0.5, stat.Empirical, sorted, nil)

		covered := 0
		for _, r := range sorted {
			if r <= cfg.CoverageBoundMinutes {
				covered++
			}
		}
		rec.CoverageFraction = float64(covered) / float64(len(sorted))
	}

	var busy float64
	for _, u := range units {
		rec.RepositionMinutes += u.RepositionMinutes
		rec.InterruptedRepositions += u.InterruptedRepositions
		if u.MaxConsecutiveMissions > rec.MaxConsecutiveMissions {
			rec.MaxConsecutiveMissions = u.MaxConsecutiveMissions
		}
		busy += u.BusyMinutes
	}
	rec.MeanBusyFraction = busy / (float64(len(units)) * cfg.HorizonMinutes)

	return rec
}
