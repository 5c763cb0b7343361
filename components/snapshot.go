package components

import (
	"log/slog"

	"github.com/pthm-cable/striker/geom"
)

// Snapshot is the read-only view of the world for one decision tick.
// The collaborator refreshes it every tick; the decision core never mutates it.
type Snapshot struct {
	Time    float64 // simulation seconds
	Me      Car
	Ball    Ball
	OwnGoal Goal
	FoeGoal Goal
	Pads    []BoostPad
	Kickoff bool // kickoff pause flagged by the engine
}

// BallDistance returns the distance from the car to the present-tick ball.
func (s *Snapshot) BallDistance() float64 {
	return geom.Distance(s.Me.Location, s.Ball.Location)
}

// LogValue implements slog.LogValuer for structured logging.
func (s *Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("time", s.Time),
		slog.Float64("boost", s.Me.Boost),
		slog.Bool("airborne", s.Me.Airborne),
		slog.Any("car", []float64{s.Me.Location.X, s.Me.Location.Y, s.Me.Location.Z}),
		slog.Any("ball", []float64{s.Ball.Location.X, s.Ball.Location.Y, s.Ball.Location.Z}),
		slog.Bool("kickoff", s.Kickoff),
	)
}
