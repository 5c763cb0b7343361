package sim

import (
	"math"

	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
	"github.com/pthm-cable/striker/opportunity"
	"github.com/pthm-cable/striker/policy"
)

// Car handling limits of the kinematic model.
const (
	groundSpeed = 1410.0 // top speed without boost
	fallSpeed   = 500.0  // descent rate when not flying
)

// intent is what the top action wants from the car this tick.
type intent struct {
	target geom.Vec
	speed  float64
	fly    bool

	// aim is where a ball contact sends the ball
	aim    geom.Vec
	hasAim bool
}

// plan turns the top stack entry into an intent, or reports it complete.
func plan(e *stackEntry, w *World, cfg *config.Config) (intent, bool) {
	h := cfg.Harness
	now := w.Time()
	car := w.Car()
	ball := w.Ball()

	switch a := e.action.(type) {
	case policy.KickoffAction:
		if !w.IsKickoff() {
			return intent{}, true
		}
		return intent{target: ball.Location, speed: h.MaxSpeed, aim: w.foeGoal(), hasAim: true}, false

	case policy.ShootAction:
		if e.contacted {
			return intent{}, true
		}
		opp := a.Opportunity
		loc, ok := opp.Location()
		if !ok {
			return intent{target: ball.Location, speed: h.MaxSpeed, aim: opp.Target, hasAim: true}, false
		}
		if now > opp.InterceptTime+h.ReachSlack {
			return intent{}, true
		}
		// Arrive on time rather than early
		left := math.Max(opp.InterceptTime-now, w.dt())
		speed := math.Min(h.MaxSpeed, geom.Distance(car.Location, loc)/left)
		return intent{
			target: loc,
			speed:  speed,
			fly:    opp.Class == opportunity.Aerial,
			aim:    opp.Target,
			hasAim: true,
		}, false

	case policy.GoToAction:
		if geom.Distance(geom.Flat(car.Location), geom.Flat(a.Target)) < h.ArrivalTolerance {
			return intent{}, true
		}
		return intent{target: a.Target, speed: h.MaxSpeed}, false

	case policy.CollectBoostAction:
		if !e.padTaken && !w.PadActive(a.Pad.Index) {
			e.padTaken = true
		}
		if !e.padTaken {
			return intent{target: a.Pad.Location, speed: h.MaxSpeed}, false
		}
		if !a.HasWaypoint || geom.Distance(geom.Flat(car.Location), geom.Flat(a.Waypoint)) < h.ArrivalTolerance {
			return intent{}, true
		}
		return intent{target: a.Waypoint, speed: h.MaxSpeed}, false

	case policy.ShortShotAction:
		if e.contacted {
			return intent{}, true
		}
		return intent{target: ball.Location, speed: h.MaxSpeed, aim: a.Target, hasAim: true}, false
	}

	// Unknown actions are dropped
	return intent{}, true
}

// stepCar moves the car toward the intent target under the kinematic model.
func stepCar(car *components.Car, in intent, active bool, dt float64, cfg *config.Config) {
	h := cfg.Harness

	var v geom.Vec
	if active {
		to := in.target
		if !in.fly {
			to.Z = car.Location.Z
		}
		dist := geom.Distance(car.Location, to)
		if dir, ok := geom.Direction(car.Location, to); ok {
			speed := math.Min(in.speed, dist/dt)
			limit := groundSpeed
			if (speed > groundSpeed || in.fly) && car.Boost > 0 {
				limit = h.MaxSpeed
				car.Boost = math.Max(0, car.Boost-h.BoostPerSecond*dt)
			}
			v = geom.Scale(math.Min(speed, limit), dir)
			car.Forward = geom.Flat(dir)
		}
	}
	if !(active && in.fly && car.Boost > 0) && car.Location.Z > carRestHeight {
		v.Z = -fallSpeed
	}

	car.Velocity = v
	car.Location = geom.Add(car.Location, geom.Scale(dt, v))
	car.Location.X = geom.Clamp(car.Location.X, -cfg.Field.HalfWidth, cfg.Field.HalfWidth)
	car.Location.Y = geom.Clamp(car.Location.Y, -cfg.Field.HalfLength, cfg.Field.HalfLength)
	car.Location.Z = geom.Clamp(car.Location.Z, carRestHeight, cfg.Field.Ceiling)
	car.Airborne = car.Location.Z > airborneAbove
}

// strike sends the ball from the car toward aim at shot speed.
func strike(ball *components.Ball, car *components.Car, aim geom.Vec, cfg *config.Config) {
	dir, ok := geom.Direction(ball.Location, aim)
	if !ok {
		if dir, ok = geom.Normalize(car.Forward); !ok {
			dir = geom.V(0, 1, 0)
		}
	}
	dir = geom.Flat(dir)
	if d, ok := geom.Normalize(dir); ok {
		dir = d
	}
	speed := cfg.Harness.ShotSpeed
	ball.Velocity = geom.Scale(speed, dir)
	ball.Velocity.Z = speed * strikeLift
}

// strikeLift is the vertical share of a strike.
const strikeLift = 0.15
