package workload

// Built-in scenario presets. Each returns a valid Spec ready for use with
// GenerateCalls.

// ScenarioEdmontonDemo is the 17-station / 16-unit / 5-hospital Edmonton
// demo scenario with fixed geography and the default shift-structured
// demand model. Stands in for private dispatch datasets.
func ScenarioEdmontonDemo() *Spec {
	stationLat := []float64{
		53.560819, 53.459373, 53.596919, 53.458361, 53.540513, 53.524711, 53.501455,
		53.616200, 53.576052, 53.496447, 53.599942, 53.548177, 53.491966, 53.493017,
		53.553621, 53.548412, 53.570662,
	}
	stationLon := []float64{
		-113.493309, -113.591074, -113.420168, -113.393060, -113.593065, -113.456783, -113.628936,
		-113.539335, -113.459060, -113.517286, -113.465073, -113.565264, -113.494986, -113.417560,
		-113.525529, -113.500589, -113.407889,
	}
	hospitalLat := []float64{53.55696, 53.52071, 53.60444, 53.461583, 53.521115}
	hospitalLon := []float64{-113.496566, -113.523769, -113.417621, -113.429724, -113.613514}

	spec := &Spec{
		Name:         "edmonton-demo",
		HomeStations: []int{2, 2, 3, 4, 4, 6, 7, 7, 8, 8, 9, 11, 12, 13, 13, 15},
		Region: RegionSpec{
			MinLat: 53.35, MaxLat: 53.70,
			MinLon: -113.75, MaxLon: -113.25,
		},
	}
	for i := range stationLat {
		spec.Stations = append(spec.Stations, PointSpec{ID: i + 1, Lat: stationLat[i], Lon: stationLon[i]})
	}
	for i := range hospitalLat {
		spec.Hospitals = append(spec.Hospitals, PointSpec{ID: i, Lat: hospitalLat[i], Lon: hospitalLon[i]})
	}
	spec.ApplyDefaults()
	return spec
}

// ScenarioCompact is a small synthetic scenario: nStations laid out on a
// line through the demo region, nUnits spread round-robin across them, one
// central hospital. Useful for fast runs and tests.
func ScenarioCompact(nStations, nUnits, totalDays int) *Spec {
	spec := &Spec{
		Name:      "compact",
		TotalDays: totalDays,
		Region: RegionSpec{
			MinLat: 53.45, MaxLat: 53.60,
			MinLon: -113.60, MaxLon: -113.40,
		},
		Hospitals: []PointSpec{{ID: 0, Lat: 53.52, Lon: -113.50}},
	}
	for i := 0; i < nStations; i++ {
		frac := float64(i) / float64(max(nStations-1, 1))
		spec.Stations = append(spec.Stations, PointSpec{
			ID:  i + 1,
			Lat: 53.46 + 0.12*frac,
			Lon: -113.58 + 0.16*frac,
		})
	}
	for i := 0; i < nUnits; i++ {
		spec.HomeStations = append(spec.HomeStations, (i%nStations)+1)
	}
	spec.ApplyDefaults()
	return spec
}
