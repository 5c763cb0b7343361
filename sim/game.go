// Package sim is a headless harness that runs the agent against a simple
// kinematic arena: ballistic ball with bounces, boost pads, kickoffs, goals.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"go.opentelemetry.io/otel/metric"

	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
	"github.com/pthm-cable/striker/journal"
	"github.com/pthm-cable/striker/policy"
	"github.com/pthm-cable/striker/telemetry"
)

// contactCooldown keeps one touch from registering on consecutive ticks.
const contactCooldown = 0.25

// Options configures a Game.
type Options struct {
	Config   *config.Config
	Seed     int64
	Output   *telemetry.OutputManager // nil disables CSV output
	Journal  *journal.Journal         // nil disables the journal
	Meter    metric.Meter             // nil uses the global meter provider
	Logger   *slog.Logger             // nil uses slog.Default()
	LogStats bool                     // log window stats at info level

	// StatsCallback receives every closed stats window, including the
	// partial one flushed by Close.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete harness state.
type Game struct {
	cfg    *config.Config
	world  *World
	agent  *policy.Agent
	stack  ActionStack
	logger *slog.Logger

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	journal   *journal.Journal
	logStats  bool
	onStats   func(telemetry.WindowStats)

	tick         int32
	contactUntil float64
	score        [2]int // goals for, goals against
}

// NewGame creates a harness with the car on a kickoff spot.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := &Game{
		cfg:       cfg,
		world:     NewWorld(cfg, rand.New(rand.NewSource(opts.Seed))),
		logger:    logger,
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:    opts.Output,
		journal:   opts.Journal,
		logStats:  opts.LogStats,
		onStats:   opts.StatsCallback,
	}

	agent, err := policy.NewAgent(cfg, Reachability(cfg), policy.AgentOptions{
		Meter:    opts.Meter,
		Logger:   logger,
		Observer: func(_ *components.Snapshot, d policy.Decision) {
			g.collector.RecordDecision(d)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}
	g.agent = agent

	return g, nil
}

// Tick returns the number of completed steps.
func (g *Game) Tick() int32 {
	return g.tick
}

// World returns the arena.
func (g *Game) World() *World {
	return g.world
}

// Stack returns the action stack.
func (g *Game) Stack() *ActionStack {
	return &g.stack
}

// Score returns goals for and against.
func (g *Game) Score() (goalsFor, goalsAgainst int) {
	return g.score[0], g.score[1]
}

// Step runs a single tick: decide, execute the top action, integrate
// physics, then record telemetry.
func (g *Game) Step(ctx context.Context) error {
	dt := g.cfg.Derived.DT
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseSnapshot)
	snap := g.world.Snapshot()

	g.perf.StartPhase(telemetry.PhaseDecide)
	predictor := Predictor(snap.Ball, snap.Time, g.cfg)
	d, decided := g.agent.Tick(ctx, &snap, predictor, &g.stack)
	if decided {
		if err := g.recordDecision(ctx, &snap, d); err != nil {
			return err
		}
	}

	g.perf.StartPhase(telemetry.PhaseExecute)
	in, active := g.execute(ctx)

	g.perf.StartPhase(telemetry.PhasePhysics)
	g.physics(ctx, in, active, dt)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.tick++
	err := g.flushTelemetry()
	g.perf.EndTick()
	return err
}

// Run steps until maxTicks steps have run or ctx is done.
func (g *Game) Run(ctx context.Context, maxTicks int32) error {
	for g.tick < maxTicks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// execute pops finished or timed-out actions and returns the intent of the
// action left on top.
func (g *Game) execute(ctx context.Context) (intent, bool) {
	now := g.world.Time()
	for {
		e := g.stack.top()
		if e == nil {
			return intent{}, false
		}
		if !e.begun {
			e.begun, e.started = true, now
		}
		if now-e.started > g.cfg.Harness.ActionTimeout {
			g.logger.DebugContext(ctx, "action timed out", "action", e.action.Name(), "time", now)
			g.stack.Pop()
			g.emit(ctx, telemetry.EventActionTimeout)
			continue
		}
		in, done := plan(e, g.world, g.cfg)
		if done {
			g.stack.Pop()
			continue
		}
		return in, true
	}
}

// physics moves the car and ball, resolves contacts, pads and goals.
func (g *Game) physics(ctx context.Context, in intent, active bool, dt float64) {
	w := g.world
	car := w.Car()
	ball := w.Ball()

	stepCar(car, in, active, dt, g.cfg)
	stepBall(ball, dt, g.cfg)
	w.advance(dt)
	now := w.Time()

	if now >= g.contactUntil && geom.Distance(car.Location, ball.Location) < g.cfg.Harness.ContactRange {
		aim := w.foeGoal()
		if active && in.hasAim {
			aim = in.aim
		}
		strike(ball, car, aim, g.cfg)
		g.contactUntil = now + contactCooldown
		if e := g.stack.top(); e != nil {
			e.contacted = true
		}
		g.emit(ctx, telemetry.EventBallContact)
	}

	for range w.updatePads(dt) {
		g.emit(ctx, telemetry.EventPadPickup)
	}

	if math.Abs(ball.Location.Y) > g.cfg.Field.HalfLength+g.cfg.Harness.BallRadius {
		g.goal(ctx, ball.Location.Y > 0)
	}
}

// goal records a goal and resets to kickoff.
func (g *Game) goal(ctx context.Context, scored bool) {
	if scored {
		g.score[0]++
		g.emit(ctx, telemetry.EventGoalFor)
	} else {
		g.score[1]++
		g.emit(ctx, telemetry.EventGoalAgainst)
	}
	g.logger.InfoContext(ctx, "goal",
		"tick", g.tick,
		"scored", scored,
		"for", g.score[0],
		"against", g.score[1],
	)
	g.stack.Clear()
	g.contactUntil = 0
	g.world.ResetKickoff()
}

func (g *Game) emit(ctx context.Context, t telemetry.EventType) {
	now := g.world.Time()
	g.collector.RecordEvent(telemetry.Event{Type: t, Tick: g.tick, Time: now})
	if err := g.journal.RecordOutcome(ctx, g.tick, now, t.String()); err != nil {
		g.logger.ErrorContext(ctx, "failed to journal outcome", "event", t.String(), "error", err)
	}
}

func (g *Game) recordDecision(ctx context.Context, snap *components.Snapshot, d policy.Decision) error {
	if err := g.output.WriteDecision(telemetry.NewDecisionRecord(g.tick, snap, d)); err != nil {
		return err
	}
	if err := g.journal.RecordDecision(ctx, g.tick, snap, d); err != nil {
		return fmt.Errorf("journaling decision: %w", err)
	}
	return nil
}

// flushTelemetry writes window and perf stats when a window closes.
func (g *Game) flushTelemetry() error {
	if !g.collector.ShouldFlush(g.tick) {
		return nil
	}

	stats := g.collector.Flush(g.tick)
	perfStats := g.perf.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}
	if g.onStats != nil {
		g.onStats(stats)
	}

	if err := g.output.WriteWindow(stats); err != nil {
		return err
	}
	return g.output.WritePerf(perfStats, stats.WindowEndTick)
}

// Close flushes the last partial window and closes the journal.
func (g *Game) Close(ctx context.Context) error {
	var errs []error
	if g.collector.Pending(g.tick) {
		stats := g.collector.Flush(g.tick)
		if g.onStats != nil {
			g.onStats(stats)
		}
		if err := g.output.WriteWindow(stats); err != nil {
			errs = append(errs, err)
		}
	}
	if err := g.journal.Close(ctx, g.tick); err != nil {
		errs = append(errs, fmt.Errorf("closing journal: %w", err))
	}
	return errors.Join(errs...)
}
