// Defines the Call struct that models an individual emergency call in the
// simulation. Tracks arrival, service parameters sampled by the demand
// generator, and the outcome filled in as the run progresses.

package sim

// CallOutcome is the terminal state of a call.
type CallOutcome string

const (
	OutcomePending CallOutcome = "pending"
	OutcomeServed  CallOutcome = "served"
	OutcomeLost    CallOutcome = "lost"
)

// Call models a single emergency call's lifecycle in the simulation.
// Arrival time, location and service durations are fixed by the demand
// generator before the run starts; response time, serving unit and outcome
// are derived during simulation.
type Call struct {
	ID          int
	ArrivalTime float64 // minutes since run start
	Lat         float64
	Lon         float64
	Priority    int

	TreatMinutes     float64 // on-scene treatment duration
	HospitalRequired bool    // whether the patient needs transport
	HandoverMinutes  float64 // hospital handover duration, if transported

	ResponseTime float64 // arrival -> on-scene, set when served
	ServedBy     int     // unit ID, -1 until assigned
	Outcome      CallOutcome

	deadline float64 // patience bound under the queue policy
}

// NewCall constructs a pending call with no assigned unit.
func NewCall(id int, arrival, lat, lon float64) *Call {
	return &Call{
		ID:          id,
		ArrivalTime: arrival,
		Lat:         lat,
		Lon:         lon,
		ServedBy:    -1,
		Outcome:     OutcomePending,
	}
}
