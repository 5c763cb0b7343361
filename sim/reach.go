package sim

import (
	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
	"github.com/pthm-cable/striker/opportunity"
)

// Reachability accepts a located candidate when the car could cover the
// distance to it at top speed before the intercept time, plus a slack.
func Reachability(cfg *config.Config) opportunity.Feasibility {
	return opportunity.FeasibilityFunc(func(snap *components.Snapshot, opp opportunity.Opportunity) bool {
		loc, ok := opp.Location()
		if !ok {
			return true
		}
		left := opp.InterceptTime - snap.Time
		if left < 0 {
			return false
		}
		reach := cfg.Harness.MaxSpeed * (left + cfg.Harness.ReachSlack)
		return reach >= geom.Distance(snap.Me.Location, loc)
	})
}
