// Package telemetry records what the agent decided and how the harness responded.
package telemetry

import (
	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/policy"
)

// EventType identifies harness outcome events.
type EventType uint8

const (
	EventBallContact EventType = iota // car struck the ball
	EventGoalFor                      // ball crossed the opponent goal line
	EventGoalAgainst                  // ball crossed the own goal line
	EventPadPickup
	EventActionTimeout // an action was abandoned by the stack owner
)

var eventNames = [...]string{
	EventBallContact:   "ball_contact",
	EventGoalFor:       "goal_for",
	EventGoalAgainst:   "goal_against",
	EventPadPickup:     "pad_pickup",
	EventActionTimeout: "action_timeout",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event is a single harness outcome.
type Event struct {
	Type EventType
	Tick int32
	Time float64
}

// DecisionRecord is one row of decisions.csv.
type DecisionRecord struct {
	Tick       int32   `csv:"tick"`
	Time       float64 `csv:"time"`
	Kind       string  `csv:"kind"`
	Class      string  `csv:"class"`
	Score      float64 `csv:"score"`
	Candidates int     `csv:"candidates"`
	Boost      float64 `csv:"boost"`
	CarX       float64 `csv:"car_x"`
	CarY       float64 `csv:"car_y"`
	BallX      float64 `csv:"ball_x"`
	BallY      float64 `csv:"ball_y"`
	BallZ      float64 `csv:"ball_z"`
	TargetX    float64 `csv:"target_x"`
	TargetY    float64 `csv:"target_y"`
	PadIndex   int     `csv:"pad"`
	Tap        bool    `csv:"tap"`
}

// NewDecisionRecord flattens a decision and the snapshot it was made from.
func NewDecisionRecord(tick int32, snap *components.Snapshot, d policy.Decision) DecisionRecord {
	r := DecisionRecord{
		Tick:       tick,
		Time:       snap.Time,
		Kind:       d.Kind.String(),
		Candidates: d.Candidates,
		Boost:      snap.Me.Boost,
		CarX:       snap.Me.Location.X,
		CarY:       snap.Me.Location.Y,
		BallX:      snap.Ball.Location.X,
		BallY:      snap.Ball.Location.Y,
		BallZ:      snap.Ball.Location.Z,
		PadIndex:   -1,
	}

	switch d.Kind {
	case policy.KindShoot:
		r.Class = d.Shot.Class.String()
		r.Score = d.Score
		if loc, ok := d.Shot.Location(); ok {
			r.TargetX, r.TargetY = loc.X, loc.Y
		} else {
			r.TargetX, r.TargetY = d.Shot.Target.X, d.Shot.Target.Y
		}
	case policy.KindGoToBoost:
		r.PadIndex = d.Pad.Index
		r.TargetX, r.TargetY = d.Pad.Location.X, d.Pad.Location.Y
	case policy.KindGoToDefensive, policy.KindGoToOffensive:
		r.TargetX, r.TargetY = d.Target.X, d.Target.Y
		r.Tap = d.Tap
	}
	return r
}
