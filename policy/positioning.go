package policy

import (
	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
)

// NeedsDefense reports whether the fallback should guard the own goal: the
// ball is nearer the own goal than the opponent's, or it is travelling toward
// the own goal faster than the threat speed.
func NeedsDefense(snap *components.Snapshot, cfg *config.Config) bool {
	ball := snap.Ball.Location
	toOwn := geom.Distance(snap.OwnGoal.Location, ball)
	toFoe := geom.Distance(snap.FoeGoal.Location, ball)
	if toOwn < toFoe {
		return true
	}

	// Ball on the goal center has no direction; its speed toward the goal is 0
	dir, _ := geom.Direction(ball, snap.OwnGoal.Location)
	return geom.Dot(snap.Ball.Velocity, dir) > cfg.Positioning.ThreatSpeed
}

// DefensivePosition returns a point between the own goal and the ball, at
// most DefensiveMaxDepth out from the goal, kept laterally inside the posts.
func DefensivePosition(snap *components.Snapshot, cfg *config.Config) geom.Vec {
	p := cfg.Positioning
	goal := snap.OwnGoal.Location
	ball := snap.Ball.Location

	out, _ := geom.Direction(goal, ball)
	depth := min(p.DefensiveMaxDepth, geom.Distance(ball, goal)*p.DefensiveDepthFrac)
	target := geom.Add(goal, geom.Scale(depth, out))
	target.X = geom.Clamp(target.X, -p.DefensiveMaxX, p.DefensiveMaxX)
	return target
}

// OffensivePosition returns a point OffensiveStandoff behind the ball on the
// line from the opponent goal, clamped away from the walls.
func OffensivePosition(snap *components.Snapshot, cfg *config.Config) geom.Vec {
	p := cfg.Positioning
	ball := snap.Ball.Location

	toGoal, _ := geom.Direction(ball, snap.FoeGoal.Location)
	target := geom.Add(ball, geom.Scale(-p.OffensiveStandoff, toGoal))
	target.X = geom.Clamp(target.X, -p.OffensiveMaxX, p.OffensiveMaxX)
	target.Y = geom.Clamp(target.Y, -p.OffensiveMaxY, p.OffensiveMaxY)
	return target
}
