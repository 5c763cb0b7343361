package policy

import (
	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
)

// NeedsBoost reports whether the car should detour for boost this tick.
// Boost-seeking is suppressed while the ball is close to the car and close
// to the own goal, whatever the boost level.
func NeedsBoost(snap *components.Snapshot, cfg *config.Config) bool {
	b := cfg.Boost
	if snap.Me.Boost > b.Enough {
		return false
	}
	if snap.BallDistance() < b.BallNearCar &&
		geom.Distance(snap.Ball.Location, snap.OwnGoal.Location) < b.BallNearOwn {
		return false
	}
	if snap.Me.Airborne {
		return false
	}
	return snap.Me.Boost < b.Low
}

// NearestPad returns the closest active pad. Airborne cars get none.
// Ties keep the earlier pad in snapshot order.
func NearestPad(snap *components.Snapshot) (components.BoostPad, bool) {
	if snap.Me.Airborne {
		return components.BoostPad{}, false
	}
	var (
		best  components.BoostPad
		found bool
		bestD float64
	)
	for _, pad := range snap.Pads {
		if !pad.Active {
			continue
		}
		d := geom.Distance(snap.Me.Location, pad.Location)
		if !found || d < bestD {
			best, bestD, found = pad, d, true
		}
	}
	return best, found
}
