package opportunity

import (
	"math"

	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
)

// Alignment returns how well striking the ball from car sends it to target:
// the dot product of the car->ball and ball->target unit vectors, plus the
// ball->target unit vector itself. ok is false when either direction is
// undefined (car on the ball, or ball on the target).
func Alignment(car, ball, target geom.Vec) (alignment float64, shot geom.Vec, ok bool) {
	shot, ok = geom.Direction(ball, target)
	if !ok {
		return 0, geom.Vec{}, false
	}
	approach, ok := geom.Direction(car, ball)
	if !ok {
		return 0, geom.Vec{}, false
	}
	// Unit vectors, but rounding can leave the product a hair outside [-1, 1]
	return geom.Clamp(geom.Dot(approach, shot), -1, 1), shot, true
}

// ApproachDirection returns Backward when the ball sits more than maxAngle
// radians away from where the car is facing, Forward otherwise.
func ApproachDirection(car components.Car, ball geom.Vec, maxAngle float64) int8 {
	if geom.Angle(car.Forward, geom.Sub(ball, car.Location)) > maxAngle {
		return Backward
	}
	return Forward
}

// Classify turns one forecast sample into a candidate, if it supports one.
func Classify(snap *components.Snapshot, s Sample, cfg *config.Config) (Opportunity, bool) {
	loc := s.Location
	if math.Abs(loc.Y) > cfg.Field.HalfLength {
		return Opportunity{}, false
	}

	shots := cfg.Shots
	switch {
	case loc.Z < shots.GroundMaxHeight:
		alignment, shot, ok := Alignment(snap.Me.Location, loc, snap.FoeGoal.Location)
		if !ok || alignment <= shots.GroundMinAlignment {
			return Opportunity{}, false
		}
		return Opportunity{
			Class:         GroundOrJump,
			BallLocation:  loc,
			InterceptTime: s.Time,
			ShotVector:    shot,
			Alignment:     alignment,
			Direction:     ApproachDirection(snap.Me, loc, shots.BackwardApproachAngle),
			Target:        snap.FoeGoal.Location,
		}, true

	case loc.Z < shots.AerialMaxHeight && snap.Me.Boost > shots.AerialMinBoost:
		alignment, shot, ok := Alignment(snap.Me.Location, loc, snap.FoeGoal.Location)
		if !ok || alignment <= shots.AerialMinAlignment {
			return Opportunity{}, false
		}
		return Opportunity{
			Class:         Aerial,
			BallLocation:  loc,
			InterceptTime: s.Time,
			ShotVector:    shot,
			Alignment:     alignment,
			Target:        snap.FoeGoal.Location,
		}, true
	}

	return Opportunity{}, false
}

// DetectImmediate checks the present-tick ball for a close, low, roughly
// aligned tap. It never looks at the forecast.
func DetectImmediate(snap *components.Snapshot, cfg *config.Config) (Opportunity, bool) {
	imm := cfg.Immediate
	ball := snap.Ball.Location
	if snap.BallDistance() >= imm.MaxDistance || ball.Z >= imm.MaxHeight {
		return Opportunity{}, false
	}
	alignment, _, ok := Alignment(snap.Me.Location, ball, snap.FoeGoal.Location)
	if !ok || alignment <= imm.MinAlignment {
		return Opportunity{}, false
	}
	return Opportunity{Class: Immediate, Target: snap.FoeGoal.Location}, true
}
