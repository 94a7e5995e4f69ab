package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event has a Timestamp (minutes since run start) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	Execute(*Simulator)
}

// CallArrivalEvent represents a new emergency call entering the system.
type CallArrivalEvent struct {
	time float64
	Call *Call
}

func (e *CallArrivalEvent) Timestamp() float64 { return e.time }

// Execute selects the nearest dispatchable unit for the call, or records the
// call lost (or queues it, under the queue policy) when none is available.
func (e *CallArrivalEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Arrival: call %d at %.2f min", e.Call.ID, e.time)
	sim.handleArrival(e.Call, e.time)
}

// DispatchStartEvent represents a unit committing to a call and beginning
// its drive to the scene.
type DispatchStartEvent struct {
	time float64
	Unit *Unit
	Call *Call
}

func (e *DispatchStartEvent) Timestamp() float64 { return e.time }

func (e *DispatchStartEvent) Execute(sim *Simulator) {
	lat, lon := e.Unit.Lat, e.Unit.Lon
	travel := TravelTimeMinutes(HaversineKm(lat, lon, e.Call.Lat, e.Call.Lon))
	logrus.Debugf("<< Dispatch: unit %d -> call %d, travel %.2f min", e.Unit.ID, e.Call.ID, travel)
	sim.Schedule(&OnSceneArrivalEvent{time: e.time + travel, Unit: e.Unit, Call: e.Call})
}

// OnSceneArrivalEvent represents the unit reaching the call location.
// The call's response time is fixed here.
type OnSceneArrivalEvent struct {
	time float64
	Unit *Unit
	Call *Call
}

func (e *OnSceneArrivalEvent) Timestamp() float64 { return e.time }

func (e *OnSceneArrivalEvent) Execute(sim *Simulator) {
	c, u := e.Call, e.Unit
	c.ResponseTime = e.time - c.ArrivalTime
	c.Outcome = OutcomeServed
	u.Status = StatusOnScene
	u.Lat, u.Lon = c.Lat, c.Lon
	sim.acc.recordServed(c, sim.inWindow(c))
	logrus.Debugf("<< OnScene: unit %d at call %d, response %.2f min", u.ID, c.ID, c.ResponseTime)

	if c.HospitalRequired {
		u.Status = StatusTransporting
		hosp, dKm := sim.cfg.Topology.NearestHospital(c.Lat, c.Lon)
		arrive := e.time + c.TreatMinutes + TravelTimeMinutes(dKm)
		sim.Schedule(&TransportCompleteEvent{time: arrive, Unit: u, Hospital: hosp, Call: c})
	} else {
		sim.Schedule(&UnitAvailableEvent{time: e.time + c.TreatMinutes, Unit: u, Lat: c.Lat, Lon: c.Lon})
	}
}

// TransportCompleteEvent represents the unit arriving at the hospital.
// The unit frees after the handover duration.
type TransportCompleteEvent struct {
	time     float64
	Unit     *Unit
	Hospital Hospital
	Call     *Call
}

func (e *TransportCompleteEvent) Timestamp() float64 { return e.time }

func (e *TransportCompleteEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Transport: unit %d at hospital %d", e.Unit.ID, e.Hospital.ID)
	e.Unit.Lat, e.Unit.Lon = e.Hospital.Lat, e.Hospital.Lon
	sim.Schedule(&UnitAvailableEvent{
		time: e.time + e.Call.HandoverMinutes,
		Unit: e.Unit,
		Lat:  e.Hospital.Lat,
		Lon:  e.Hospital.Lon,
	})
}

// UnitAvailableEvent represents a unit returning to service at (Lat, Lon).
// Freed units first serve the pending-call queue, then consult the
// repositioning table.
type UnitAvailableEvent struct {
	time float64
	Unit *Unit
	Lat  float64
	Lon  float64
}

func (e *UnitAvailableEvent) Timestamp() float64 { return e.time }

func (e *UnitAvailableEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Available: unit %d at %.2f min", e.Unit.ID, e.time)
	e.Unit.endMission(e.time, e.Lat, e.Lon)
	sim.onUnitFreed(e.Unit, e.time)
}

// RepositionStartEvent represents a repositioning directive taking effect:
// the unit begins relocating toward Target.
type RepositionStartEvent struct {
	time   float64
	Unit   *Unit
	Target Station
}

func (e *RepositionStartEvent) Timestamp() float64 { return e.time }

func (e *RepositionStartEvent) Execute(sim *Simulator) {
	u := e.Unit
	if u.Status != StatusIdle {
		// The unit was grabbed by dispatch at the same timestamp.
		return
	}
	travel := TravelTimeMinutes(HaversineKm(u.Lat, u.Lon, e.Target.Lat, e.Target.Lon))
	u.beginReposition(e.time, e.time+travel, e.Target)
	logrus.Debugf("<< RepositionStart: unit %d -> station %d, travel %.2f min", u.ID, e.Target.ID, travel)
	sim.Schedule(&RepositionCompleteEvent{time: e.time + travel, Unit: u, leg: u.repoSeq})
}

// RepositionCompleteEvent represents the unit parking at its target station.
// Stale events (the leg was interrupted by dispatch) are ignored.
type RepositionCompleteEvent struct {
	time float64
	Unit *Unit
	leg  int64
}

func (e *RepositionCompleteEvent) Timestamp() float64 { return e.time }

func (e *RepositionCompleteEvent) Execute(sim *Simulator) {
	u := e.Unit
	if u.Status != StatusRepositioning || u.repoSeq != e.leg {
		return
	}
	u.finishReposition(e.time)
	logrus.Debugf("<< RepositionComplete: unit %d at station %d", u.ID, u.Station)
}
