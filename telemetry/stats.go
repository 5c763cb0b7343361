package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Decisions acted on during the window
	Decisions int `csv:"decisions"`
	Kickoffs  int `csv:"kickoffs"`
	Shots     int `csv:"shots"`
	BoostRuns int `csv:"boost_runs"`
	Defensive int `csv:"defensive"`
	Offensive int `csv:"offensive"`

	// Candidate pool and committed shot quality
	CandidatesMean float64 `csv:"candidates_mean"`
	ScoreMean      float64 `csv:"score_mean"`
	ScoreP10       float64 `csv:"score_p10"`
	ScoreP50       float64 `csv:"score_p50"`
	ScoreP90       float64 `csv:"score_p90"`

	// Harness outcomes
	Contacts     int `csv:"contacts"`
	GoalsFor     int `csv:"goals_for"`
	GoalsAgainst int `csv:"goals_against"`
	PadPickups   int `csv:"pad_pickups"`
	Timeouts     int `csv:"timeouts"`
}

// ShotRate returns the fraction of decisions that committed to a shot.
func (s WindowStats) ShotRate() float64 {
	if s.Decisions == 0 {
		return 0
	}
	return float64(s.Shots) / float64(s.Decisions)
}

// ComputeScoreStats calculates mean and percentiles. Returns zeros for empty input.
func ComputeScoreStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	p50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	p90 = stat.Quantile(0.90, stat.LinInterp, sorted, nil)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("decisions", s.Decisions),
		slog.Int("kickoffs", s.Kickoffs),
		slog.Int("shots", s.Shots),
		slog.Int("boost_runs", s.BoostRuns),
		slog.Int("defensive", s.Defensive),
		slog.Int("offensive", s.Offensive),
		slog.Float64("shot_rate", s.ShotRate()),
		slog.Float64("candidates_mean", s.CandidatesMean),
		slog.Float64("score_mean", s.ScoreMean),
		slog.Float64("score_p10", s.ScoreP10),
		slog.Float64("score_p50", s.ScoreP50),
		slog.Float64("score_p90", s.ScoreP90),
		slog.Int("contacts", s.Contacts),
		slog.Int("goals_for", s.GoalsFor),
		slog.Int("goals_against", s.GoalsAgainst),
		slog.Int("pad_pickups", s.PadPickups),
		slog.Int("timeouts", s.Timeouts),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
