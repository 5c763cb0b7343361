package opportunity

import (
	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
)

// Find runs the sampler, classifier and immediate detector, then filters the
// candidates. Forecast candidates come first in time order, followed by the
// immediate tap if there is one.
func Find(snap *components.Snapshot, pred components.Prediction, check Feasibility, cfg *config.Config) []Opportunity {
	var found []Opportunity
	for s := range Samples(snap.Time, pred, cfg) {
		if o, ok := Classify(snap, s, cfg); ok {
			found = append(found, o)
		}
	}
	if o, ok := DetectImmediate(snap, cfg); ok {
		found = append(found, o)
	}
	return Filter(snap, found, check)
}
