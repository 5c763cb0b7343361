package policy

import (
	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/geom"
	"github.com/pthm-cable/striker/opportunity"
)

// Action is a queued behavior handed to the collaborator's action stack.
// The agent only constructs actions; the stack owner runs them.
type Action interface {
	Name() string
}

// Stack is the collaborator-owned action stack.
type Stack interface {
	Len() int
	Push(Action)
}

// KickoffAction runs the kickoff routine.
type KickoffAction struct{}

// ShootAction attempts a ranked opportunity.
type ShootAction struct {
	Opportunity opportunity.Opportunity
}

// GoToAction drives to Target and arrives facing along Facing.
type GoToAction struct {
	Target geom.Vec
	Facing geom.Vec
}

// CollectBoostAction drives over Pad, then continues toward Waypoint if set.
type CollectBoostAction struct {
	Pad         components.BoostPad
	Waypoint    geom.Vec
	HasWaypoint bool
}

// ShortShotAction taps the present-tick ball toward Target.
type ShortShotAction struct {
	Target geom.Vec
}

func (KickoffAction) Name() string      { return "kickoff" }
func (ShootAction) Name() string        { return "shoot" }
func (GoToAction) Name() string         { return "goto" }
func (CollectBoostAction) Name() string { return "goto_boost" }
func (ShortShotAction) Name() string    { return "short_shot" }
