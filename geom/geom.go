// Package geom provides the vector helpers used by the decision core.
//
// Vectors are gonum r3 values. Normalization never divides by a zero length:
// callers get the zero vector and false instead of NaN components.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a 3D vector in field coordinates (x lateral, y toward the orange goal, z up).
type Vec = r3.Vec

// epsilon below which a vector length is treated as zero.
const epsilon = 1e-9

// V is shorthand for building a Vec.
func V(x, y, z float64) Vec {
	return Vec{X: x, Y: y, Z: z}
}

// Add returns a+b.
func Add(a, b Vec) Vec { return r3.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vec) Vec { return r3.Sub(a, b) }

// Scale returns f*v.
func Scale(f float64, v Vec) Vec { return r3.Scale(f, v) }

// Dot returns the dot product of a and b.
func Dot(a, b Vec) float64 { return r3.Dot(a, b) }

// Magnitude returns the Euclidean length of v.
func Magnitude(v Vec) float64 { return r3.Norm(v) }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec) float64 { return r3.Norm(r3.Sub(a, b)) }

// Flat returns v with its z component zeroed.
func Flat(v Vec) Vec { return Vec{X: v.X, Y: v.Y} }

// Normalize returns the unit vector colinear with v.
// For zero-length or non-finite input it returns the zero vector and false.
func Normalize(v Vec) (Vec, bool) {
	n := r3.Norm(v)
	if n < epsilon || math.IsNaN(n) || math.IsInf(n, 0) {
		return Vec{}, false
	}
	return r3.Scale(1/n, v), true
}

// Direction returns the unit vector pointing from -> to.
func Direction(from, to Vec) (Vec, bool) {
	return Normalize(r3.Sub(to, from))
}

// Angle returns the angle in radians between a and b, in [0, Pi].
// Zero-length input yields 0.
func Angle(a, b Vec) float64 {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na < epsilon || nb < epsilon {
		return 0
	}
	return math.Acos(Clamp(r3.Dot(a, b)/(na*nb), -1, 1))
}

// Clamp clamps v between lo and hi.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
