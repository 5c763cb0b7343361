// Package policy picks the agent's next action from the world snapshot.
//
// Decide is a pure function of the snapshot, the forecast and the
// feasibility predicate. Agent is the thin adapter that consults Decide when
// the action stack is idle and pushes the resulting actions.
package policy

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
	"github.com/pthm-cable/striker/opportunity"
)

// Kind discriminates decision outcomes.
type Kind uint8

const (
	KindNone Kind = iota
	KindKickoff
	KindShoot
	KindGoToBoost
	KindGoToDefensive
	KindGoToOffensive
)

var kindNames = [...]string{
	KindNone:          "none",
	KindKickoff:       "kickoff",
	KindShoot:         "shoot",
	KindGoToBoost:     "goto_boost",
	KindGoToDefensive: "goto_defensive",
	KindGoToOffensive: "goto_offensive",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Kinds lists every decision kind in order.
func Kinds() []Kind {
	return []Kind{KindNone, KindKickoff, KindShoot, KindGoToBoost, KindGoToDefensive, KindGoToOffensive}
}

// Decision is the outcome of one decision cycle.
type Decision struct {
	Kind Kind

	// KindShoot
	Shot  opportunity.Opportunity
	Score float64

	// KindGoToBoost
	Pad         components.BoostPad
	Waypoint    geom.Vec
	HasWaypoint bool

	// KindGoToDefensive, KindGoToOffensive
	Target geom.Vec
	Facing geom.Vec
	Tap    bool // offensive only: tap the ball toward TapAt first
	TapAt  geom.Vec

	// Candidates is the number of opportunities that survived filtering.
	Candidates int
}

// Actions returns the actions to push, in push order.
func (d Decision) Actions() []Action {
	switch d.Kind {
	case KindNone:
		return nil
	case KindKickoff:
		return []Action{KickoffAction{}}
	case KindShoot:
		return []Action{ShootAction{Opportunity: d.Shot}}
	case KindGoToBoost:
		return []Action{CollectBoostAction{Pad: d.Pad, Waypoint: d.Waypoint, HasWaypoint: d.HasWaypoint}}
	case KindGoToDefensive:
		return []Action{GoToAction{Target: d.Target, Facing: d.Facing}}
	case KindGoToOffensive:
		actions := []Action{GoToAction{Target: d.Target, Facing: d.Facing}}
		if d.Tap {
			// Pushed last so a LIFO stack runs the tap before the move
			actions = append(actions, ShortShotAction{Target: d.TapAt})
		}
		return actions
	}
	panic(fmt.Sprintf("policy: unknown decision kind %d", d.Kind))
}

// LogValue implements slog.LogValuer for structured logging.
func (d Decision) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", d.Kind.String()),
		slog.Int("candidates", d.Candidates),
	}
	switch d.Kind {
	case KindShoot:
		attrs = append(attrs, slog.Any("shot", d.Shot), slog.Float64("score", d.Score))
	case KindGoToBoost:
		attrs = append(attrs, slog.Int("pad", d.Pad.Index), slog.Bool("waypoint", d.HasWaypoint))
	case KindGoToDefensive, KindGoToOffensive:
		attrs = append(attrs,
			slog.Any("target", []float64{d.Target.X, d.Target.Y, d.Target.Z}),
			slog.Bool("tap", d.Tap),
		)
	}
	return slog.GroupValue(attrs...)
}

// Decide picks the next behavior for an idle agent:
// kickoff, boost detour, best shot, then defensive or offensive positioning.
func Decide(snap *components.Snapshot, pred components.Prediction, check opportunity.Feasibility, cfg *config.Config) Decision {
	if snap.Kickoff {
		return Decision{Kind: KindKickoff}
	}

	opps := opportunity.Find(snap, pred, check, cfg)
	ranked := opportunity.Rank(snap, opps, cfg.Ranking.Order)

	if NeedsBoost(snap, cfg) {
		if pad, ok := NearestPad(snap); ok {
			d := Decision{Kind: KindGoToBoost, Pad: pad, Candidates: len(ranked)}
			for _, r := range ranked {
				if loc, ok := r.Location(); ok {
					d.Waypoint, d.HasWaypoint = loc, true
					break
				}
			}
			return d
		}
	}

	if len(ranked) > 0 {
		best := ranked[0]
		return Decision{Kind: KindShoot, Shot: best.Opportunity, Score: best.Score, Candidates: len(ranked)}
	}

	if NeedsDefense(snap, cfg) {
		return Decision{
			Kind:   KindGoToDefensive,
			Target: DefensivePosition(snap, cfg),
			Facing: geom.Sub(snap.FoeGoal.Location, snap.Me.Location),
		}
	}

	d := Decision{
		Kind:   KindGoToOffensive,
		Target: OffensivePosition(snap, cfg),
		Facing: geom.Sub(snap.Ball.Location, snap.Me.Location),
	}
	if snap.BallDistance() < cfg.Positioning.TapRange {
		d.Tap, d.TapAt = true, snap.FoeGoal.Location
	}
	return d
}
