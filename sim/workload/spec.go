package workload

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reposim/reposim/sim"
)

// SpecError reports which field of a demand scenario spec is invalid.
// Fatal to the whole run.
type SpecError struct {
	Field  string
	Reason string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("demand spec: field %q: %s", e.Field, e.Reason)
}

// PointSpec is a named coordinate (station or hospital).
type PointSpec struct {
	ID  int     `yaml:"id"`
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// RegionSpec is the bounding box call locations are drawn from.
type RegionSpec struct {
	MinLat float64 `yaml:"min_lat"`
	MaxLat float64 `yaml:"max_lat"`
	MinLon float64 `yaml:"min_lon"`
	MaxLon float64 `yaml:"max_lon"`
}

// ShiftRates holds the base arrival rate (calls/minute) per 8-hour shift:
// shift 1 = 05:00-13:00, shift 2 = 13:00-21:00, shift 3 = the rest.
type ShiftRates struct {
	Shift1 float64 `yaml:"shift1"`
	Shift2 float64 `yaml:"shift2"`
	Shift3 float64 `yaml:"shift3"`
}

// Spec is the top-level demand scenario configuration.
// Loaded from YAML via LoadSpec(path); zero fields are defaulted.
type Spec struct {
	Name       string `yaml:"name"`
	TotalDays  int    `yaml:"total_days"`
	WarmupDays int    `yaml:"warmup_days"`

	Stations     []PointSpec `yaml:"stations"`
	Hospitals    []PointSpec `yaml:"hospitals"`
	HomeStations []int       `yaml:"home_stations"` // station ID per unit

	Region         RegionSpec         `yaml:"region"`
	ShiftRates     ShiftRates         `yaml:"shift_rates"`
	DayMultipliers map[string]float64 `yaml:"day_multipliers"`

	TreatTimeMean       float64 `yaml:"treat_time_mean"`       // minutes, exponential
	HospitalProb        float64 `yaml:"hospital_prob"`         // P(transport required)
	HandoverMeanMinutes float64 `yaml:"handover_mean_minutes"` // minutes, exponential
}

// dayNames in simulation order; day 0 is a Monday.
var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// defaultDayMultipliers modulate the shift rates by day of week.
var defaultDayMultipliers = map[string]float64{
	"Monday": 1.0, "Tuesday": 0.8, "Wednesday": 0.8, "Thursday": 1.0,
	"Friday": 1.2, "Saturday": 1.2, "Sunday": 1.0,
}

// ApplyDefaults fills zero-valued fields with the demo defaults.
// Idempotent.
func (s *Spec) ApplyDefaults() {
	if s.TotalDays == 0 {
		s.TotalDays = 35
	}
	if s.WarmupDays == 0 && s.TotalDays > 7 {
		s.WarmupDays = 7
	}
	if s.ShiftRates == (ShiftRates{}) {
		s.ShiftRates = ShiftRates{Shift1: 0.2967, Shift2: 0.2967, Shift3: 0.1483}
	}
	if s.DayMultipliers == nil {
		s.DayMultipliers = defaultDayMultipliers
	}
	if s.TreatTimeMean == 0 {
		s.TreatTimeMean = 1.0 / 15.0
	}
	if s.HospitalProb == 0 {
		s.HospitalProb = 0.7
	}
	if s.HandoverMeanMinutes == 0 {
		s.HandoverMeanMinutes = 35
	}
}

// Validate checks the spec after defaulting.
func (s *Spec) Validate() error {
	if len(s.Stations) == 0 {
		return &SpecError{Field: "stations", Reason: "at least one station required"}
	}
	for i, st := range s.Stations {
		if st.ID != i+1 {
			return &SpecError{Field: "stations", Reason: fmt.Sprintf("station IDs must be dense 1..N, got %d at index %d", st.ID, i)}
		}
	}
	if len(s.Hospitals) == 0 {
		return &SpecError{Field: "hospitals", Reason: "at least one hospital required"}
	}
	if len(s.HomeStations) == 0 {
		return &SpecError{Field: "home_stations", Reason: "at least one unit required"}
	}
	for i, hs := range s.HomeStations {
		if hs < 1 || hs > len(s.Stations) {
			return &SpecError{Field: "home_stations", Reason: fmt.Sprintf("unit %d assigned to unknown station %d", i, hs)}
		}
	}
	if s.Region.MinLat >= s.Region.MaxLat || s.Region.MinLon >= s.Region.MaxLon {
		return &SpecError{Field: "region", Reason: "bounding box is empty"}
	}
	if s.TotalDays <= 0 {
		return &SpecError{Field: "total_days", Reason: "must be positive"}
	}
	if s.WarmupDays < 0 || s.WarmupDays >= s.TotalDays {
		return &SpecError{Field: "warmup_days", Reason: "must be in [0, total_days)"}
	}
	if s.ShiftRates.Shift1 <= 0 || s.ShiftRates.Shift2 <= 0 || s.ShiftRates.Shift3 <= 0 {
		return &SpecError{Field: "shift_rates", Reason: "all shift rates must be positive"}
	}
	for _, day := range dayNames {
		m, ok := s.DayMultipliers[day]
		if !ok {
			return &SpecError{Field: "day_multipliers", Reason: fmt.Sprintf("missing multiplier for %s", day)}
		}
		if m <= 0 {
			return &SpecError{Field: "day_multipliers", Reason: fmt.Sprintf("multiplier for %s must be positive", day)}
		}
	}
	if s.HospitalProb < 0 || s.HospitalProb > 1 {
		return &SpecError{Field: "hospital_prob", Reason: "must be in [0, 1]"}
	}
	if s.TreatTimeMean <= 0 {
		return &SpecError{Field: "treat_time_mean", Reason: "must be positive"}
	}
	if s.HandoverMeanMinutes <= 0 {
		return &SpecError{Field: "handover_mean_minutes", Reason: "must be positive"}
	}
	return nil
}

// HorizonMinutes returns the total simulated time.
func (s *Spec) HorizonMinutes() float64 {
	return float64(s.TotalDays) * 24 * 60
}

// WarmupMinutes returns the warmup window length.
func (s *Spec) WarmupMinutes() float64 {
	return float64(s.WarmupDays) * 24 * 60
}

// Topology converts the spec's geography into the simulator's form.
func (s *Spec) Topology() *sim.Topology {
	t := &sim.Topology{
		Stations:     make([]sim.Station, len(s.Stations)),
		Hospitals:    make([]sim.Hospital, len(s.Hospitals)),
		HomeStations: make([]sim.StationID, len(s.HomeStations)),
	}
	for i, st := range s.Stations {
		t.Stations[i] = sim.Station{ID: sim.StationID(st.ID), Lat: st.Lat, Lon: st.Lon}
	}
	for i, h := range s.Hospitals {
		t.Hospitals[i] = sim.Hospital{ID: h.ID, Lat: h.Lat, Lon: h.Lon}
	}
	for i, hs := range s.HomeStations {
		t.HomeStations[i] = sim.StationID(hs)
	}
	return t
}

// LoadSpec reads a demand scenario from a YAML file, applies defaults, and
// validates it.
func LoadSpec(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading demand spec %s: %w", path, err)
	}
	var spec Spec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parsing demand spec %s: %w", path, err)
	}
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}
