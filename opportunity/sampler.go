package opportunity

import (
	"iter"

	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
)

// Sample is a sub-sampled forecast point.
type Sample struct {
	Time     float64 // absolute simulation seconds
	Location geom.Vec
}

// Samples walks the forecast from HorizonStart to HorizonEnd in HorizonStep
// increments. The sequence stops at the end of a short forecast and skips
// slices stamped before now.
func Samples(now float64, pred components.Prediction, cfg *config.Config) iter.Seq[Sample] {
	d := cfg.Derived
	return func(yield func(Sample) bool) {
		for i := d.FirstIndex; i <= d.LastIndex; i += d.Stride {
			slice, ok := pred.At(i)
			if !ok {
				return
			}
			if slice.Time < now {
				continue
			}
			if !yield(Sample{Time: slice.Time, Location: slice.Location}) {
				return
			}
		}
	}
}
