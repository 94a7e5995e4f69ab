// Defines the Unit struct that models a single ambulance in the simulation.
// Tracks position, status transitions, and the fatigue counters reported
// in the final metrics.

package sim

// UnitStatus represents the lifecycle state of an ambulance unit.
type UnitStatus string

const (
	StatusIdle          UnitStatus = "idle"
	StatusDispatched    UnitStatus = "dispatched"
	StatusOnScene       UnitStatus = "on-scene"
	StatusTransporting  UnitStatus = "transporting"
	StatusRepositioning UnitStatus = "repositioning"
	StatusOutOfService  UnitStatus = "out-of-service"
)

// Unit is the mutable per-run state of one ambulance. A Unit is owned by a
// single Simulator invocation and never shared across evaluations.
type Unit struct {
	ID      int
	Station StationID // current (or last assigned) home station
	Lat     float64
	Lon     float64
	Status  UnitStatus

	Call *Call // call the unit is committed to, nil unless serving

	// Fatigue accounting.
	BusyMinutes            float64
	RepositionMinutes      float64
	InterruptedRepositions int
	ConsecutiveMissions    int
	MaxConsecutiveMissions int

	// In-flight repositioning leg, used to interpolate the unit's position
	// when it is grabbed by dispatch mid-move.
	repoStartTime    float64
	repoETA          float64
	repoFromLat      float64
	repoFromLon      float64
	repoTarget       StationID
	repoTargetLat    float64
	repoTargetLon    float64
	repoSeq          int64 // increments per leg; stale completion events check it
	lastIdleStart    float64
	dispatchedAt     float64
}

// Committed reports whether the unit is serving a call. Committed units are
// never re-tasked, neither by dispatch nor by a repositioning directive.
func (u *Unit) Committed() bool {
	return u.Status == StatusDispatched || u.Status == StatusOnScene || u.Status == StatusTransporting
}

// Dispatchable reports whether the unit can be assigned a new call.
// Idle units and repositioning units qualify; repositioning is interrupted.
func (u *Unit) Dispatchable() bool {
	return u.Status == StatusIdle || u.Status == StatusRepositioning
}

// PositionAt returns the unit's location at the given time. Units parked at
// a station or committed to a call report their stored position; a
// repositioning unit is interpolated linearly along its leg.
func (u *Unit) PositionAt(now float64) (float64, float64) {
	if u.Status != StatusRepositioning || u.repoETA <= u.repoStartTime {
		return u.Lat, u.Lon
	}
	frac := (now - u.repoStartTime) / (u.repoETA - u.repoStartTime)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	lat := u.repoFromLat + frac*(u.repoTargetLat-u.repoFromLat)
	lon := u.repoFromLon + frac*(u.repoTargetLon-u.repoFromLon)
	return lat, lon
}

// beginReposition records the start of a relocation leg toward target.
func (u *Unit) beginReposition(now, eta float64, target Station) {
	u.Status = StatusRepositioning
	u.repoSeq++
	u.repoStartTime = now
	u.repoETA = eta
	u.repoFromLat = u.Lat
	u.repoFromLon = u.Lon
	u.repoTarget = target.ID
	u.repoTargetLat = target.Lat
	u.repoTargetLon = target.Lon
}

// finishReposition parks the unit at its target station.
func (u *Unit) finishReposition(now float64) {
	u.Station = u.repoTarget
	u.Lat = u.repoTargetLat
	u.Lon = u.repoTargetLon
	u.RepositionMinutes += now - u.repoStartTime
	u.Status = StatusIdle
	u.lastIdleStart = now
}

// interruptReposition aborts an in-flight relocation at the unit's current
// interpolated position and counts the interruption.
func (u *Unit) interruptReposition(now float64) {
	u.Lat, u.Lon = u.PositionAt(now)
	u.RepositionMinutes += now - u.repoStartTime
	u.InterruptedRepositions++
	u.Status = StatusIdle
}

// beginMission marks the unit as dispatched to the given call and updates
// the consecutive-mission streak. A streak resets only when the unit had at
// least restMinutes of uninterrupted idle time before this dispatch.
func (u *Unit) beginMission(now float64, c *Call, restMinutes float64) {
	if u.Status == StatusRepositioning {
		u.interruptReposition(now)
	}
	if u.Status == StatusIdle && now-u.lastIdleStart >= restMinutes {
		u.ConsecutiveMissions = 0
	}
	u.ConsecutiveMissions++
	if u.ConsecutiveMissions > u.MaxConsecutiveMissions {
		u.MaxConsecutiveMissions = u.ConsecutiveMissions
	}
	u.Status = StatusDispatched
	u.Call = c
	u.dispatchedAt = now
}

// endMission releases the unit at (lat, lon) and accrues busy time.
func (u *Unit) endMission(now, lat, lon float64) {
	u.BusyMinutes += now - u.dispatchedAt
	u.Lat = lat
	u.Lon = lon
	u.Call = nil
	u.Status = StatusIdle
	u.lastIdleStart = now
}
