package geom

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		in     Vec
		want   Vec
		wantOK bool
	}{
		{"axis", V(0, 5, 0), V(0, 1, 0), true},
		{"diagonal", V(3, 4, 0), V(0.6, 0.8, 0), true},
		{"zero", V(0, 0, 0), V(0, 0, 0), false},
		{"tiny", V(1e-12, 0, 0), V(0, 0, 0), false},
		{"nan", V(math.NaN(), 0, 0), V(0, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%v) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if Distance(got, tt.want) > tol {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if ok && math.Abs(Magnitude(got)-1) > tol {
				t.Errorf("|Normalize(%v)| = %v, want 1", tt.in, Magnitude(got))
			}
		})
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec
		want float64
	}{
		{"same", V(1, 0, 0), V(2, 0, 0), 0},
		{"right", V(1, 0, 0), V(0, 3, 0), math.Pi / 2},
		{"opposite", V(1, 0, 0), V(-1, 0, 0), math.Pi},
		{"zero operand", V(0, 0, 0), V(1, 0, 0), 0},
		// Rounding can push the cosine just past -1
		{"nearly opposite", V(1, 1e-17, 0), V(-1, 0, 0), math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Angle(tt.a, tt.b)
			if math.IsNaN(got) || math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Angle(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	d, ok := Direction(V(0, 0, 0), V(0, -3000, 0))
	if !ok || Distance(d, V(0, -1, 0)) > tol {
		t.Errorf("Direction = %v, %v; want (0,-1,0), true", d, ok)
	}
	if _, ok := Direction(V(1, 2, 3), V(1, 2, 3)); ok {
		t.Error("Direction between equal points should not be ok")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(1200, -800, 800); got != 800 {
		t.Errorf("Clamp(1200) = %v, want 800", got)
	}
	if got := Clamp(-1200, -800, 800); got != -800 {
		t.Errorf("Clamp(-1200) = %v, want -800", got)
	}
	if got := Clamp(10, -800, 800); got != 10 {
		t.Errorf("Clamp(10) = %v, want 10", got)
	}
}

func TestDistanceAndFlat(t *testing.T) {
	if got := Distance(V(0, 0, 0), V(3, 4, 0)); math.Abs(got-5) > tol {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := Flat(V(1, 2, 3)); got != V(1, 2, 0) {
		t.Errorf("Flat = %v, want (1,2,0)", got)
	}
}
