package telemetry

import "github.com/pthm-cable/striker/policy"

// Collector accumulates decisions and events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	decisions    map[policy.Kind]int
	candidates   []float64
	shotScores   []float64
	contacts     int
	goalsFor     int
	goalsAgainst int
	pickups      int
	timeouts     int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		decisions:           make(map[policy.Kind]int),
	}
}

// RecordDecision records a decision the agent acted on.
func (c *Collector) RecordDecision(d policy.Decision) {
	c.decisions[d.Kind]++
	c.candidates = append(c.candidates, float64(d.Candidates))
	if d.Kind == policy.KindShoot {
		c.shotScores = append(c.shotScores, d.Score)
	}
}

// RecordEvent records a harness outcome.
func (c *Collector) RecordEvent(e Event) {
	switch e.Type {
	case EventBallContact:
		c.contacts++
	case EventGoalFor:
		c.goalsFor++
	case EventGoalAgainst:
		c.goalsAgainst++
	case EventPadPickup:
		c.pickups++
	case EventActionTimeout:
		c.timeouts++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Pending returns true if ticks have passed since the last flush.
func (c *Collector) Pending(currentTick int32) bool {
	return currentTick > c.windowStartTick
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32) WindowStats {
	total := 0
	for _, n := range c.decisions {
		total += n
	}

	scoreMean, scoreP10, scoreP50, scoreP90 := ComputeScoreStats(c.shotScores)
	candMean, _, _, _ := ComputeScoreStats(c.candidates)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Decisions: total,
		Kickoffs:  c.decisions[policy.KindKickoff],
		Shots:     c.decisions[policy.KindShoot],
		BoostRuns: c.decisions[policy.KindGoToBoost],
		Defensive: c.decisions[policy.KindGoToDefensive],
		Offensive: c.decisions[policy.KindGoToOffensive],

		CandidatesMean: candMean,
		ScoreMean:      scoreMean,
		ScoreP10:       scoreP10,
		ScoreP50:       scoreP50,
		ScoreP90:       scoreP90,

		Contacts:     c.contacts,
		GoalsFor:     c.goalsFor,
		GoalsAgainst: c.goalsAgainst,
		PadPickups:   c.pickups,
		Timeouts:     c.timeouts,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	clear(c.decisions)
	c.candidates = c.candidates[:0]
	c.shotScores = c.shotScores[:0]
	c.contacts = 0
	c.goalsFor = 0
	c.goalsAgainst = 0
	c.pickups = 0
	c.timeouts = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
