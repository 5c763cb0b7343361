// Package components defines the world state the agent reads each tick.
//
// The same structs double as ECS components in the headless harness, so they
// carry no pointers and no behavior beyond small accessors.
package components

import "github.com/pthm-cable/striker/geom"

// Team identifies a side of the field.
type Team uint8

const (
	TeamBlue   Team = iota // defends -y
	TeamOrange             // defends +y
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamBlue {
		return TeamOrange
	}
	return TeamBlue
}

func (t Team) String() string {
	if t == TeamBlue {
		return "blue"
	}
	return "orange"
}

// Car is the state of a vehicle.
type Car struct {
	Location geom.Vec
	Velocity geom.Vec
	Forward  geom.Vec // facing direction, not necessarily unit length
	Boost    float64  // 0..100
	Airborne bool
	Team     Team
}

// Ball is the present-tick ball state.
type Ball struct {
	Location geom.Vec
	Velocity geom.Vec
}

// Goal marks the center of a goal mouth.
type Goal struct {
	Location geom.Vec
	Team     Team
}

// BoostPad is a boost pickup on the field floor.
type BoostPad struct {
	Index    int
	Location geom.Vec
	Active   bool
	Large    bool
}

// Goals returns the goals of a standard arena with the given half length.
func Goals(halfLength float64) (blue, orange Goal) {
	blue = Goal{Location: geom.V(0, -halfLength, 0), Team: TeamBlue}
	orange = Goal{Location: geom.V(0, halfLength, 0), Team: TeamOrange}
	return blue, orange
}
