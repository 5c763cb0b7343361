package sim

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
	"github.com/pthm-cable/striker/journal"
	"github.com/pthm-cable/striker/telemetry"
)

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Meter = noop.NewMeterProvider().Meter("test")
	g, err := NewGame(opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func TestFirstStepIsKickoff(t *testing.T) {
	g := newTestGame(t, Options{Seed: 3})

	if err := g.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}
	names := g.Stack().Names()
	if len(names) != 1 || names[0] != "kickoff" {
		t.Errorf("stack = %v, want [kickoff]", names)
	}
	if g.Tick() != 1 {
		t.Errorf("tick = %d, want 1", g.Tick())
	}
}

func TestAgentYieldsWhileActionRuns(t *testing.T) {
	g := newTestGame(t, Options{Seed: 3})
	ctx := context.Background()

	// The kickoff action stays on the stack until the car reaches the ball
	for range 10 {
		if err := g.Step(ctx); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if g.Stack().Len() != 1 {
		t.Errorf("stack len = %d, want the single kickoff action", g.Stack().Len())
	}
}

func TestGoalResetsKickoff(t *testing.T) {
	cfg := config.Cfg()
	g := newTestGame(t, Options{Seed: 3})
	ball := g.World().Ball()
	ball.Location = geom.V(0, cfg.Field.HalfLength-50, cfg.Harness.BallRadius)
	ball.Velocity = geom.V(0, 2000, 0)

	ctx := context.Background()
	for range 30 {
		if err := g.Step(ctx); err != nil {
			t.Fatalf("Step: %v", err)
		}
		if f, _ := g.Score(); f > 0 {
			break
		}
	}

	goalsFor, goalsAgainst := g.Score()
	if goalsFor != 1 || goalsAgainst != 0 {
		t.Fatalf("score = %d-%d, want 1-0", goalsFor, goalsAgainst)
	}
	if !g.World().IsKickoff() {
		t.Error("world should be back in kickoff after a goal")
	}
	if g.Stack().Len() != 0 {
		t.Errorf("stack should be cleared after a goal, has %v", g.Stack().Names())
	}
}

func TestRunCancelled(t *testing.T) {
	g := newTestGame(t, Options{Seed: 3})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Run(ctx, 100); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if g.Tick() != 0 {
		t.Errorf("tick = %d, want 0", g.Tick())
	}
}

func TestRunRecordsOutputs(t *testing.T) {
	ctx := context.Background()
	cfg := config.Cfg()
	dir := t.TempDir()

	out, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	j, err := journal.Open(ctx, journal.Memory, 5, cfg.Harness.TickRate)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}

	g := newTestGame(t, Options{Seed: 5, Output: out, Journal: j})
	ticks := int32(15 * cfg.Harness.TickRate)
	if err := g.Run(ctx, ticks); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if g.Tick() != ticks {
		t.Fatalf("tick = %d, want %d", g.Tick(), ticks)
	}

	if err := j.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	mix, err := j.DecisionMix(ctx)
	if err != nil {
		t.Fatalf("DecisionMix: %v", err)
	}
	kinds := map[string]int64{}
	var total int64
	for _, m := range mix {
		kinds[m.Kind] = m.Count
		total += m.Count
	}
	if kinds["kickoff"] == 0 {
		t.Errorf("expected a kickoff decision, got %v", mix)
	}
	if total < 2 {
		t.Errorf("expected the agent to decide again after the kickoff, got %v", mix)
	}

	if err := g.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("output Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "decisions.csv"))
	if err != nil {
		t.Fatal(err)
	}
	rows := strings.Split(strings.TrimSpace(string(data)), "\n")
	if int64(len(rows)-1) != total {
		t.Errorf("decisions.csv has %d rows, journal has %d", len(rows)-1, total)
	}

	// 15 seconds with 10 second windows: one full window plus the partial one at close
	data, err = os.ReadFile(filepath.Join(dir, "windows.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if rows := strings.Split(strings.TrimSpace(string(data)), "\n"); len(rows) != 3 {
		t.Errorf("windows.csv has %d lines, want header + 2", len(rows))
	}
}

func TestCloseWithoutSinks(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})
	if err := g.Close(context.Background()); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestStatsCallbackSeesEveryWindow(t *testing.T) {
	cfg := config.Default()
	var windows []telemetry.WindowStats
	g := newTestGame(t, Options{
		Config: cfg,
		Seed:   5,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})

	ctx := context.Background()
	// One full window plus half of the next.
	ticks := int32(1.5 * cfg.Telemetry.StatsWindow * float64(cfg.Harness.TickRate))
	if err := g.Run(ctx, ticks); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("windows before Close = %d, want 1", len(windows))
	}
	if err := g.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("windows after Close = %d, want 2", len(windows))
	}
	if windows[1].WindowEndTick != ticks {
		t.Errorf("last window ends at %d, want %d", windows[1].WindowEndTick, ticks)
	}
	if windows[0].Kickoffs < 1 {
		t.Errorf("first window kickoffs = %d, want at least 1", windows[0].Kickoffs)
	}
}
