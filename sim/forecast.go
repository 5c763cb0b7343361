package sim

import (
	"math"

	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
)

// Goal mouth dimensions of the standard arena.
const (
	goalHalfWidth = 892.755
	goalHeight    = 642.775
)

// inGoalMouth reports whether the ball is within the goal opening in x and z.
func inGoalMouth(loc geom.Vec) bool {
	return math.Abs(loc.X) < goalHalfWidth && loc.Z < goalHeight
}

// stepBall advances the ball by dt under gravity and bounces it off the
// floor, ceiling and walls. The back walls are open inside the goal mouth.
func stepBall(b *components.Ball, dt float64, cfg *config.Config) {
	h := cfg.Harness
	r := h.BallRadius

	b.Velocity.Z += h.Gravity * dt
	b.Location = geom.Add(b.Location, geom.Scale(dt, b.Velocity))

	// Floor, with a settle threshold so a resting ball stops bouncing
	if b.Location.Z < r {
		b.Location.Z = r
		if b.Velocity.Z < 0 {
			b.Velocity.Z = -b.Velocity.Z * h.Restitution
			if b.Velocity.Z < -2*h.Gravity*dt {
				b.Velocity.Z = 0
			}
		}
	}
	if top := cfg.Field.Ceiling - r; b.Location.Z > top {
		b.Location.Z = top
		b.Velocity.Z = -math.Abs(b.Velocity.Z) * h.Restitution
	}

	if side := cfg.Field.HalfWidth - r; math.Abs(b.Location.X) > side {
		b.Location.X = math.Copysign(side, b.Location.X)
		b.Velocity.X = -b.Velocity.X * h.Restitution
	}

	if back := cfg.Field.HalfLength - r; math.Abs(b.Location.Y) > back && !inGoalMouth(b.Location) {
		b.Location.Y = math.Copysign(back, b.Location.Y)
		b.Velocity.Y = -b.Velocity.Y * h.Restitution
	}
}

// Forecast integrates the ball forward at the forecast resolution.
// Slice i is the ball state at now + i/SlicesPerSecond, so slice 0 is the
// present tick.
func Forecast(ball components.Ball, now float64, cfg *config.Config) components.Prediction {
	rate := cfg.Prediction.SlicesPerSecond
	n := int(cfg.Harness.ForecastSeconds * float64(rate))
	if n <= 0 {
		return components.Prediction{}
	}
	dt := 1 / float64(rate)

	slices := make([]components.Slice, n)
	b := ball
	for i := range slices {
		slices[i] = components.Slice{
			Time:     now + float64(i)*dt,
			Location: b.Location,
			Velocity: b.Velocity,
		}
		stepBall(&b, dt, cfg)
	}
	return components.Prediction{Slices: slices}
}

// Predictor returns a predictor that forecasts from the given ball state.
func Predictor(ball components.Ball, now float64, cfg *config.Config) components.Predictor {
	return components.PredictorFunc(func() components.Prediction {
		return Forecast(ball, now, cfg)
	})
}
