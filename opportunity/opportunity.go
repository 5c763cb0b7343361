// Package opportunity turns a ball forecast into ranked shot candidates.
//
// The pipeline is: Samples (sub-sample the forecast) -> Classify (ground/jump
// or aerial) -> Immediate (present-tick tap) -> Filter (feasibility) ->
// Rank (quality score). Every stage is a pure function of its inputs.
package opportunity

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/striker/geom"
)

// Class discriminates the opportunity variants.
type Class uint8

const (
	GroundOrJump Class = iota // ball low enough to drive or jump into
	Aerial                    // ball in the aerial band, needs boost
	Immediate                 // present-tick tap toward the goal, no intercept data
)

func (c Class) String() string {
	switch c {
	case GroundOrJump:
		return "ground_or_jump"
	case Aerial:
		return "aerial"
	case Immediate:
		return "immediate"
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// Approach directions for ground or jump shots.
const (
	Forward  int8 = 1
	Backward int8 = -1
)

// Opportunity is a candidate shot.
//
// GroundOrJump and Aerial carry BallLocation, InterceptTime, ShotVector and
// Alignment; Direction is set for GroundOrJump only. Immediate carries only
// Target. Use Location to read the ball location so callers stay exhaustive
// over Class.
type Opportunity struct {
	Class         Class
	BallLocation  geom.Vec
	InterceptTime float64  // absolute simulation seconds
	ShotVector    geom.Vec // unit vector ball -> target
	Alignment     float64  // car->ball . ShotVector, in [-1, 1]
	Direction     int8
	Target        geom.Vec
}

// Location returns the intercept ball location, or false for variants that
// have none.
func (o Opportunity) Location() (geom.Vec, bool) {
	switch o.Class {
	case GroundOrJump, Aerial:
		return o.BallLocation, true
	case Immediate:
		return geom.Vec{}, false
	}
	panic(fmt.Sprintf("opportunity: unknown class %d", o.Class))
}

// LogValue implements slog.LogValuer for structured logging.
func (o Opportunity) LogValue() slog.Value {
	if o.Class == Immediate {
		return slog.GroupValue(
			slog.String("class", o.Class.String()),
			slog.Any("target", []float64{o.Target.X, o.Target.Y, o.Target.Z}),
		)
	}
	return slog.GroupValue(
		slog.String("class", o.Class.String()),
		slog.Any("ball", []float64{o.BallLocation.X, o.BallLocation.Y, o.BallLocation.Z}),
		slog.Float64("intercept", o.InterceptTime),
		slog.Float64("alignment", o.Alignment),
		slog.Int("direction", int(o.Direction)),
	)
}
