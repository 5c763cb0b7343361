package components

import "github.com/pthm-cable/striker/geom"

// Slice is one forecast entry: where the ball will be at an absolute time.
type Slice struct {
	Time     float64
	Location geom.Vec
	Velocity geom.Vec
}

// Prediction is an ordered, finite ball forecast at a fixed resolution.
// It is requested fresh every tick and never stored by the agent.
type Prediction struct {
	Slices []Slice
}

// Len returns the number of slices.
func (p Prediction) Len() int {
	return len(p.Slices)
}

// At returns slice i, or false when i is outside the forecast.
func (p Prediction) At(i int) (Slice, bool) {
	if i < 0 || i >= len(p.Slices) {
		return Slice{}, false
	}
	return p.Slices[i], true
}

// Predictor supplies the ball forecast for the current tick.
type Predictor interface {
	BallPrediction() Prediction
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func() Prediction

// BallPrediction calls f.
func (f PredictorFunc) BallPrediction() Prediction {
	return f()
}
