// sim/simulator.go
package sim

import (
	"container/heap"

	"github.com/sirupsen/logrus"
)

// eventEntry pairs an event with its insertion sequence number so that
// same-timestamp events replay in the order they were scheduled.
type eventEntry struct {
	ev  Event
	seq int64
}

// EventQueue implements heap.Interface with deterministic ordering.
// Ordering: timestamp → insertion sequence.
type EventQueue []eventEntry

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	if eq[i].ev.Timestamp() != eq[j].ev.Timestamp() {
		return eq[i].ev.Timestamp() < eq[j].ev.Timestamp()
	}
	return eq[i].seq < eq[j].seq
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(eventEntry))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator is the core object that holds simulation time, system state, and
// the event loop. One Simulator runs one policy against one call stream;
// it is strictly sequential and never shared across evaluations.
type Simulator struct {
	Clock float64
	cfg   *Config
	table *RepositionTable

	queue EventQueue
	seq   int64

	Units   []*Unit
	pending []*Call // waiting calls under the queue policy

	acc *metricsAccumulator

	activation int // uncommitted-unit count below which repositioning activates
}

// NewSimulator builds a Simulator for one run. The call stream is scheduled
// up front as arrival events. Config errors are fatal and surfaced here,
// before any event runs.
func NewSimulator(cfg *Config, table *RepositionTable, calls []*Call) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, &ConfigError{Field: "RepositionTable", Reason: "missing"}
	}

	s := &Simulator{
		cfg:        cfg,
		table:      table,
		queue:      make(EventQueue, 0, len(calls)),
		acc:        newMetricsAccumulator(),
		activation: cfg.ActivationCount(),
	}

	topo := cfg.Topology
	s.Units = make([]*Unit, topo.FleetSize())
	for i, home := range topo.HomeStations {
		st, _ := topo.StationByID(home)
		s.Units[i] = &Unit{
			ID:      i,
			Station: home,
			Lat:     st.Lat,
			Lon:     st.Lon,
			Status:  StatusIdle,
		}
	}

	for _, c := range calls {
		s.Schedule(&CallArrivalEvent{time: c.ArrivalTime, Call: c})
	}
	return s, nil
}

// Schedule pushes an event into the simulator's queue, stamping it with the
// next insertion sequence number.
func (sim *Simulator) Schedule(ev Event) {
	sim.seq++
	heap.Push(&sim.queue, eventEntry{ev: ev, seq: sim.seq})
}

// Run drains the event queue, or stops at the time horizon, whichever comes
// first, and returns the run's metrics record.
func (sim *Simulator) Run() *MetricsRecord {
	for len(sim.queue) > 0 {
		entry := heap.Pop(&sim.queue).(eventEntry)
		if entry.ev.Timestamp() > sim.cfg.HorizonMinutes {
			break
		}
		sim.Clock = entry.ev.Timestamp()
		entry.ev.Execute(sim)
	}
	sim.drainPending()
	logrus.Debugf("[%.1f min] simulation ended", sim.Clock)
	return sim.acc.finalize(sim.cfg, sim.Units)
}

// inWindow reports whether a call counts toward metrics (arrived after
// warmup).
func (sim *Simulator) inWindow(c *Call) bool {
	return c.ArrivalTime >= sim.cfg.WarmupMinutes
}

// handleArrival implements the dispatch policy: nearest dispatchable unit,
// ties broken by station ID then unit ID ascending. With no unit available
// the call is lost immediately (drop policy) or queued with a patience
// bound (queue policy).
func (sim *Simulator) handleArrival(c *Call, now float64) {
	u := sim.nearestDispatchable(c, now)
	if u == nil {
		if sim.cfg.LostCallPolicy == LostCallQueue {
			c.deadline = now + sim.cfg.QueuePatienceMinutes
			sim.pending = append(sim.pending, c)
			return
		}
		sim.loseCall(c)
		return
	}
	sim.dispatch(u, c, now)
}

// dispatch commits the unit to the call and emits the dispatch-start event.
func (sim *Simulator) dispatch(u *Unit, c *Call, now float64) {
	u.beginMission(now, c, sim.cfg.RestMinutes)
	c.ServedBy = u.ID
	sim.Schedule(&DispatchStartEvent{time: now, Unit: u, Call: c})
}

func (sim *Simulator) loseCall(c *Call) {
	c.Outcome = OutcomeLost
	sim.acc.recordLost(sim.inWindow(c))
	logrus.Debugf("<< Lost: call %d at %.2f min", c.ID, c.ArrivalTime)
}

// nearestDispatchable selects the closest idle or repositioning unit by
// haversine distance from its current (possibly interpolated) position.
func (sim *Simulator) nearestDispatchable(c *Call, now float64) *Unit {
	var best *Unit
	var bestD float64
	for _, u := range sim.Units {
		if !u.Dispatchable() {
			continue
		}
		lat, lon := u.PositionAt(now)
		d := HaversineKm(lat, lon, c.Lat, c.Lon)
		if best == nil || d < bestD {
			best, bestD = u, d
			continue
		}
		if d == bestD && (u.Station < best.Station || (u.Station == best.Station && u.ID < best.ID)) {
			best = u
		}
	}
	return best
}

// available counts units not committed to a call.
func (sim *Simulator) available() int {
	n := 0
	for _, u := range sim.Units {
		if u.Dispatchable() {
			n++
		}
	}
	return n
}

// onUnitFreed runs after a unit returns to service: serve the pending queue
// first, otherwise consult the repositioning table for the freed unit.
func (sim *Simulator) onUnitFreed(u *Unit, now float64) {
	for len(sim.pending) > 0 {
		c := sim.pending[0]
		sim.pending = sim.pending[1:]
		if c.deadline < now {
			sim.loseCall(c)
			continue
		}
		sim.dispatch(u, c, now)
		return
	}
	sim.maybeReposition(u, now)
}

// maybeReposition issues a repositioning directive to the freed unit when
// system availability has fallen below the activation threshold and the
// table prescribes a station other than the unit's current one.
func (sim *Simulator) maybeReposition(u *Unit, now float64) {
	avail := sim.available()
	if avail >= sim.activation {
		return
	}
	targets := sim.table.TargetsFor(avail)
	if len(targets) == 0 {
		return
	}

	var best Station
	bestSet := false
	var bestD float64
	for _, id := range targets {
		st, ok := sim.cfg.Topology.StationByID(id)
		if !ok {
			continue
		}
		d := HaversineKm(u.Lat, u.Lon, st.Lat, st.Lon)
		if !bestSet || d < bestD || (d == bestD && st.ID < best.ID) {
			best, bestD, bestSet = st, d, true
		}
	}
	if !bestSet || best.ID == u.Station {
		return
	}
	sim.Schedule(&RepositionStartEvent{time: now, Unit: u, Target: best})
}

// drainPending finalizes calls still waiting when the run ends.
func (sim *Simulator) drainPending() {
	for _, c := range sim.pending {
		sim.loseCall(c)
	}
	sim.pending = nil
}
