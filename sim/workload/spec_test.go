package workload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposim/reposim/sim"
)

func minimalSpec() *Spec {
	return &Spec{
		Name: "test",
		Stations: []PointSpec{
			{ID: 1, Lat: 53.46, Lon: -113.58},
			{ID: 2, Lat: 53.52, Lon: -113.50},
		},
		Hospitals:    []PointSpec{{ID: 0, Lat: 53.52, Lon: -113.50}},
		HomeStations: []int{1, 2},
		Region:       RegionSpec{MinLat: 53.4, MaxLat: 53.6, MinLon: -113.7, MaxLon: -113.3},
	}
}

func TestSpec_ApplyDefaults(t *testing.T) {
	s := minimalSpec()
	s.ApplyDefaults()

	assert.Equal(t, 35, s.TotalDays)
	assert.Equal(t, 7, s.WarmupDays)
	assert.InDelta(t, 0.2967, s.ShiftRates.Shift1, 1e-9)
	assert.InDelta(t, 0.2967, s.ShiftRates.Shift2, 1e-9)
	assert.InDelta(t, 0.1483, s.ShiftRates.Shift3, 1e-9)
	assert.InDelta(t, 1.2, s.DayMultipliers["Friday"], 1e-9)
	assert.InDelta(t, 1.0/15.0, s.TreatTimeMean, 1e-9)
	assert.InDelta(t, 0.7, s.HospitalProb, 1e-9)
	assert.InDelta(t, 35, s.HandoverMeanMinutes, 1e-9)

	require.NoError(t, s.Validate())
}

func TestSpec_ShortRunsSkipWarmup(t *testing.T) {
	s := minimalSpec()
	s.TotalDays = 3
	s.ApplyDefaults()
	assert.Equal(t, 0, s.WarmupDays)
}

func TestSpec_ValidateNamesTheField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
		field  string
	}{
		{"no stations", func(s *Spec) { s.Stations = nil }, "stations"},
		{"sparse station ids", func(s *Spec) { s.Stations[1].ID = 5 }, "stations"},
		{"no hospitals", func(s *Spec) { s.Hospitals = nil }, "hospitals"},
		{"no units", func(s *Spec) { s.HomeStations = nil }, "home_stations"},
		{"unknown home station", func(s *Spec) { s.HomeStations[0] = 9 }, "home_stations"},
		{"empty region", func(s *Spec) { s.Region.MaxLat = s.Region.MinLat }, "region"},
		{"negative days", func(s *Spec) { s.TotalDays = -1 }, "total_days"},
		{"warmup covers run", func(s *Spec) { s.WarmupDays = s.TotalDays }, "warmup_days"},
		{"zero shift rate", func(s *Spec) { s.ShiftRates.Shift3 = 0 }, "shift_rates"},
		{"missing day multiplier", func(s *Spec) { delete(s.DayMultipliers, "Sunday") }, "day_multipliers"},
		{"hospital prob above one", func(s *Spec) { s.HospitalProb = 1.1 }, "hospital_prob"},
		{"zero treat time", func(s *Spec) { s.TreatTimeMean = -1 }, "treat_time_mean"},
		{"zero handover", func(s *Spec) { s.HandoverMeanMinutes = -1 }, "handover_mean_minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := minimalSpec()
			s.ApplyDefaults()
			// Copy so mutations of the shared default map stay local.
			mults := make(map[string]float64, len(s.DayMultipliers))
			for k, v := range s.DayMultipliers {
				mults[k] = v
			}
			s.DayMultipliers = mults

			tt.mutate(s)
			err := s.Validate()
			require.Error(t, err)

			var specErr *SpecError
			require.ErrorAs(t, err, &specErr)
			assert.Equal(t, tt.field, specErr.Field)
		})
	}
}

func TestSpec_HorizonAndWarmupMinutes(t *testing.T) {
	s := minimalSpec()
	s.TotalDays = 10
	s.WarmupDays = 2
	assert.InDelta(t, 14400, s.HorizonMinutes(), 1e-9)
	assert.InDelta(t, 2880, s.WarmupMinutes(), 1e-9)
}

func TestSpec_TopologyConversion(t *testing.T) {
	topo := minimalSpec().Topology()

	require.Len(t, topo.Stations, 2)
	assert.Equal(t, sim.StationID(2), topo.Stations[1].ID)
	assert.InDelta(t, 53.52, topo.Stations[1].Lat, 1e-9)
	require.Len(t, topo.Hospitals, 1)
	assert.Equal(t, []sim.StationID{1, 2}, topo.HomeStations)
}

func TestLoadSpec_FromYAML(t *testing.T) {
	doc := `
name: yaml-test
total_days: 10
warmup_days: 2
stations:
  - {id: 1, lat: 53.46, lon: -113.58}
  - {id: 2, lat: 53.52, lon: -113.50}
hospitals:
  - {id: 0, lat: 53.52, lon: -113.50}
home_stations: [1, 2]
region:
  min_lat: 53.4
  max_lat: 53.6
  min_lon: -113.7
  max_lon: -113.3
shift_rates:
  shift1: 0.3
  shift2: 0.25
  shift3: 0.1
hospital_prob: 0.5
`
	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := LoadSpec(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml-test", s.Name)
	assert.Equal(t, 10, s.TotalDays)
	assert.Equal(t, 2, s.WarmupDays)
	assert.InDelta(t, 0.25, s.ShiftRates.Shift2, 1e-9)
	assert.InDelta(t, 0.5, s.HospitalProb, 1e-9)
	// Unset fields are defaulted.
	assert.InDelta(t, 35, s.HandoverMeanMinutes, 1e-9)
}

func TestLoadSpec_InvalidSpecRejected(t *testing.T) {
	doc := `
name: broken
stations:
  - {id: 1, lat: 53.46, lon: -113.58}
hospitals:
  - {id: 0, lat: 53.52, lon: -113.50}
home_stations: [4]
region:
  min_lat: 53.4
  max_lat: 53.6
  min_lon: -113.7
  max_lon: -113.3
`
	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := LoadSpec(path)
	var specErr *SpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, "home_stations", specErr.Field)
}

func TestLoadSpec_MissingFile(t *testing.T) {
	_, err := LoadSpec(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
