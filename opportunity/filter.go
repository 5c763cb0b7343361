package opportunity

import (
	"fmt"

	"github.com/pthm-cable/striker/components"
)

// Feasibility decides whether a located candidate can actually be executed,
// typically a reachability check. It is supplied by the caller.
type Feasibility interface {
	Viable(snap *components.Snapshot, opp Opportunity) bool
}

// FeasibilityFunc adapts a function to the Feasibility interface.
type FeasibilityFunc func(snap *components.Snapshot, opp Opportunity) bool

// Viable calls f.
func (f FeasibilityFunc) Viable(snap *components.Snapshot, opp Opportunity) bool {
	return f(snap, opp)
}

// AlwaysViable accepts every candidate.
var AlwaysViable Feasibility = FeasibilityFunc(func(*components.Snapshot, Opportunity) bool { return true })

// Filter keeps GroundOrJump and Aerial candidates the predicate accepts.
// Immediate candidates have no intercept to check and pass through.
// A nil predicate accepts everything. The input slice is not modified.
func Filter(snap *components.Snapshot, opps []Opportunity, check Feasibility) []Opportunity {
	if check == nil {
		check = AlwaysViable
	}
	kept := make([]Opportunity, 0, len(opps))
	for _, o := range opps {
		switch o.Class {
		case GroundOrJump, Aerial:
			if check.Viable(snap, o) {
				kept = append(kept, o)
			}
		case Immediate:
			kept = append(kept, o)
		default:
			panic(fmt.Sprintf("opportunity: unknown class %d", o.Class))
		}
	}
	return kept
}
