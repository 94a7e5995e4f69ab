package sim

import (
	"fmt"
	"math"
)

// LostCallPolicy selects how calls that find no dispatchable unit are
// handled.
type LostCallPolicy string

const (
	// LostCallDrop records the call as lost immediately. Default.
	LostCallDrop LostCallPolicy = "drop"
	// LostCallQueue holds the call in a FIFO queue until a unit frees or
	// the patience bound expires.
	LostCallQueue LostCallPolicy = "queue"
)

// Config groups the parameters of one simulation run. Demand (the call
// stream) is passed separately to NewSimulator because it is generated per
// evaluation replication.
type Config struct {
	Topology *Topology

	// Theta is the availability threshold: the fraction of the fleet that
	// must remain uncommitted before repositioning rules activate.
	Theta float64

	HorizonMinutes float64 // total simulated time
	WarmupMinutes  float64 // calls arriving before this are excluded from metrics

	CoverageBoundMinutes float64 // response-time bound for the coverage metric
	RestMinutes          float64 // idle time that resets a unit's mission streak

	LostCallPolicy       LostCallPolicy
	QueuePatienceMinutes float64 // only used with LostCallQueue
}

// ConfigError reports which configuration field is invalid and why. It is
// fatal to the whole run, never downgraded to a per-candidate failure.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("simulation config: field %q: %s", e.Field, e.Reason)
}

// Validate checks the configuration before any event runs.
func (c *Config) Validate() error {
	if c.Topology == nil {
		return &ConfigError{Field: "Topology", Reason: "missing"}
	}
	if c.Topology.NumStations() == 0 {
		return &ConfigError{Field: "Topology.Stations", Reason: "at least one station required"}
	}
	if c.Topology.FleetSize() == 0 {
		return &ConfigError{Field: "Topology.HomeStations", Reason: "at least one unit required"}
	}
	if len(c.Topology.Hospitals) == 0 {
		return &ConfigError{Field: "Topology.Hospitals", Reason: "at least one hospital required"}
	}
	for i, hs := range c.Topology.HomeStations {
		if _, ok := c.Topology.StationByID(hs); !ok {
			return &ConfigError{
				Field:  "Topology.HomeStations",
				Reason: fmt.Sprintf("unit %d assigned to unknown station %d", i, hs),
			}
		}
	}
	if c.Theta < 0 || c.Theta > 1 || math.IsNaN(c.Theta) {
		return &ConfigError{Field: "Theta", Reason: fmt.Sprintf("must be in [0, 1], got %v", c.Theta)}
	}
	if c.HorizonMinutes <= 0 {
		return &ConfigError{Field: "HorizonMinutes", Reason: "must be positive"}
	}
	if c.WarmupMinutes < 0 || c.WarmupMinutes >= c.HorizonMinutes {
		return &ConfigError{Field: "WarmupMinutes", Reason: "must be in [0, horizon)"}
	}
	if c.CoverageBoundMinutes <= 0 {
		return &ConfigError{Field: "CoverageBoundMinutes", Reason: "must be positive"}
	}
	switch c.LostCallPolicy {
	case LostCallDrop:
	case LostCallQueue:
		if c.QueuePatienceMinutes <= 0 {
			return &ConfigError{Field: "QueuePatienceMinutes", Reason: "must be positive under queue policy"}
		}
	default:
		return &ConfigError{Field: "LostCallPolicy", Reason: fmt.Sprintf("unknown policy %q", c.LostCallPolicy)}
	}
	return nil
}

// ActivationCount returns the number of uncommitted units below which
// repositioning activates, derived from Theta and the fleet size.
func (c *Config) ActivationCount() int {
	return int(math.Ceil(c.Theta * float64(c.Topology.FleetSize())))
}
