// Station/hospital geography and the travel-time model used by the simulator.

package sim

import "math"

// StationID identifies an ambulance station. IDs are 1-based and dense:
// a topology with N stations uses exactly the IDs 1..N.
type StationID int

// Station is a fixed ambulance base.
type Station struct {
	ID  StationID
	Lat float64
	Lon float64
}

// Hospital is a fixed transport destination.
type Hospital struct {
	ID  int
	Lat float64
	Lon float64
}

// Topology holds the fixed geography of one demand scenario: stations,
// hospitals, and the home station of every unit in the fleet.
type Topology struct {
	Stations     []Station
	Hospitals    []Hospital
	HomeStations []StationID // index = unit ID
}

// NumStations returns the number of stations in the topology.
func (t *Topology) NumStations() int {
	return len(t.Stations)
}

// FleetSize returns the number of ambulance units.
func (t *Topology) FleetSize() int {
	return len(t.HomeStations)
}

// StationByID looks up a station. The second return value is false when the
// ID is outside 1..N.
func (t *Topology) StationByID(id StationID) (Station, bool) {
	if id < 1 || int(id) > len(t.Stations) {
		return Station{}, false
	}
	return t.Stations[id-1], true
}

// NearestHospital returns the hospital closest to (lat, lon) by haversine
// distance, and the distance in km. Ties broken by hospital ID ascending.
func (t *Topology) NearestHospital(lat, lon float64) (Hospital, float64) {
	best := t.Hospitals[0]
	bestD := HaversineKm(lat, lon, best.Lat, best.Lon)
	for _, h := range t.Hospitals[1:] {
		if d := HaversineKm(lat, lon, h.Lat, h.Lon); d < bestD {
			best, bestD = h, d
		}
	}
	return best, bestD
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Travel-time curve coefficients (calibrated EMS response model).
const (
	travelB0 = 0.336
	travelB1 = 0.000058
	travelB2 = 0.0388
)

// TravelTimeMinutes converts a road distance in km to an expected travel
// time in minutes. Two-piece median-speed model with a lognormal-style
// correction factor; distances under 100m are treated as zero.
func TravelTimeMinutes(dKm float64) float64 {
	if dKm <= 0.1 {
		return 0.0
	}
	var md float64
	if dKm <= 4.13 {
		md = 2.42 * math.Sqrt(dKm)
	} else {
		md = 2.46 + 0.596*dKm
	}
	cd := math.Sqrt(travelB0*(travelB2+1)+travelB1*(travelB2+1)*md+travelB2*md*md) / md
	return md * math.Exp(cd)
}
