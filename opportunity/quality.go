package opportunity

import (
	"fmt"
	"math"
	"sort"

	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
)

// Score weights. These are design constants, not configuration.
const (
	ImmediateScore = -10.0

	alignmentWeight = 2.0
	timeWeight      = 0.5
	onTargetWeight  = 1.5
	distanceDivisor = 10000.0
	onTargetSpread  = 800.0  // lateral offset from goal center at which on-target reaches 0
	reachSpeed      = 2300.0 // max traversal speed used for the reach bonus
	reachBonus      = 1.5
)

// Score rates a candidate; higher is better.
func Score(snap *components.Snapshot, o Opportunity) float64 {
	switch o.Class {
	case Immediate:
		return ImmediateScore
	case GroundOrJump, Aerial:
		ballDist := geom.Distance(snap.Me.Location, o.BallLocation)
		timeFactor := o.InterceptTime - snap.Time
		onTarget := 1.0 - math.Abs(o.BallLocation.X-snap.FoeGoal.Location.X)/onTargetSpread

		var bonus float64
		if reachSpeed*timeFactor >= ballDist {
			bonus = reachBonus
		}

		return o.Alignment*alignmentWeight -
			timeFactor*timeWeight +
			onTarget*onTargetWeight -
			ballDist/distanceDivisor +
			bonus
	}
	panic(fmt.Sprintf("opportunity: unknown class %d", o.Class))
}

// Scored pairs a candidate with its score.
type Scored struct {
	Opportunity
	Score float64
}

// Rank scores candidates and orders them so the head is the pick.
// With config.RankDescending the head has the highest score; with
// config.RankAscending the head has the lowest. Ties keep input order.
func Rank(snap *components.Snapshot, opps []Opportunity, order string) []Scored {
	ranked := make([]Scored, len(opps))
	for i, o := range opps {
		ranked[i] = Scored{Opportunity: o, Score: Score(snap, o)}
	}
	if order == config.RankAscending {
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score < ranked[j].Score })
	} else {
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	}
	return ranked
}
