package telemetry

import (
	"math"
	"testing"
)

func TestComputeScoreStats(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		mean   float64
		p10    float64
		p50    float64
		p90    float64
	}{
		{"single", []float64{2.5}, 2.5, 2.5, 2.5, 2.5},
		{"unsorted", []float64{5, 1, 4, 2, 3}, 3, 1, 2.5, 4.5},
		{"ten", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5.5, 1, 5, 9},
		{"negative", []float64{-10, -10, 0, 10}, -2.5, -10, -10, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, p10, p50, p90 := ComputeScoreStats(tt.values)
			for _, c := range []struct {
				label     string
				got, want float64
			}{
				{"mean", mean, tt.mean},
				{"p10", p10, tt.p10},
				{"p50", p50, tt.p50},
				{"p90", p90, tt.p90},
			} {
				if math.Abs(c.got-c.want) > 0.001 {
					t.Errorf("%s = %v, want %v", c.label, c.got, c.want)
				}
			}
		})
	}
}

func TestComputeScoreStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeScoreStats(nil)

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestComputeScoreStatsDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeScoreStats(values)

	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input was modified: %v", values)
	}
}

func TestShotRate(t *testing.T) {
	if got := (WindowStats{}).ShotRate(); got != 0 {
		t.Errorf("empty window shot rate = %v, want 0", got)
	}
	if got := (WindowStats{Decisions: 8, Shots: 2}).ShotRate(); got != 0.25 {
		t.Errorf("shot rate = %v, want 0.25", got)
	}
}
