package policy

import (
	"context"
	"fmt"
	"math"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
	"github.com/pthm-cable/striker/opportunity"
)

func init() {
	config.MustInit("")
}

const now = 50.0

var rejectAll = opportunity.FeasibilityFunc(func(*components.Snapshot, opportunity.Opportunity) bool { return false })

func testSnapshot() *components.Snapshot {
	blue, orange := components.Goals(5120)
	return &components.Snapshot{
		Time: now,
		Me: components.Car{
			Location: geom.V(0, 0, 17),
			Forward:  geom.V(0, 1, 0),
			Boost:    100,
		},
		Ball:    components.Ball{Location: geom.V(0, 0, 93)},
		OwnGoal: blue,
		FoeGoal: orange,
		Pads: []components.BoostPad{
			{Index: 0, Location: geom.V(-3072, -4096, 73), Active: true, Large: true},
			{Index: 1, Location: geom.V(3072, -4096, 73), Active: true, Large: true},
			{Index: 2, Location: geom.V(0, -2816, 70), Active: true},
			{Index: 3, Location: geom.V(0, 2816, 70), Active: true},
		},
	}
}

// rollingPrediction forecasts the ball rolling from start with velocity vel.
func rollingPrediction(start, vel geom.Vec) components.Prediction {
	slices := make([]components.Slice, 361)
	for i := range slices {
		dt := float64(i) / 60
		slices[i] = components.Slice{Time: now + dt, Location: geom.Add(start, geom.Scale(dt, vel)), Velocity: vel}
	}
	return components.Prediction{Slices: slices}
}

func TestNeedsBoost(t *testing.T) {
	cfg := config.Cfg()

	tests := []struct {
		name     string
		boost    float64
		airborne bool
		car      geom.Vec
		ball     geom.Vec
		want     bool
	}{
		// Ball 2000 from the car and 4000 from the own goal: not both near
		{"low boost, ball far", 20, false, geom.V(0, 880, 17), geom.V(0, -1120, 0), true},
		// Ball 1000 from the car and 2000 from the own goal: suppressed
		{"low boost, defending", 20, false, geom.V(0, -2120, 17), geom.V(0, -3120, 0), false},
		{"enough boost", 60, false, geom.V(0, 880, 17), geom.V(0, -1120, 0), false},
		{"between low and enough", 40, false, geom.V(0, 880, 17), geom.V(0, -1120, 0), false},
		{"airborne", 10, true, geom.V(0, 880, 17), geom.V(0, -1120, 0), false},
		// Near the car but far from the own goal: no suppression
		{"ball near car only", 10, false, geom.V(0, 3000, 17), geom.V(0, 3500, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := testSnapshot()
			snap.Me.Boost = tt.boost
			snap.Me.Airborne = tt.airborne
			snap.Me.Location = tt.car
			snap.Ball.Location = tt.ball

			if got := NeedsBoost(snap, cfg); got != tt.want {
				t.Errorf("NeedsBoost = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNearestPad(t *testing.T) {
	snap := testSnapshot()

	pad, ok := NearestPad(snap)
	if !ok || pad.Index != 2 {
		t.Errorf("NearestPad = %d, %v; want pad 2", pad.Index, ok)
	}

	// Inactive pads are skipped
	snap.Pads[2].Active = false
	pad, ok = NearestPad(snap)
	if !ok || pad.Index != 3 {
		t.Errorf("NearestPad = %d, %v; want pad 3", pad.Index, ok)
	}

	for i := range snap.Pads {
		snap.Pads[i].Active = false
	}
	if _, ok := NearestPad(snap); ok {
		t.Error("NearestPad found a pad with none active")
	}

	snap = testSnapshot()
	snap.Me.Airborne = true
	if _, ok := NearestPad(snap); ok {
		t.Error("NearestPad returned a pad for an airborne car")
	}
}

func TestDecideScenarioBoostDetour(t *testing.T) {
	cfg := config.Cfg()
	snap := testSnapshot()
	snap.Me.Boost = 20
	snap.Me.Location = geom.V(0, 880, 17)
	snap.Ball.Location = geom.V(0, -1120, 0)

	d := Decide(snap, components.Prediction{}, opportunity.AlwaysViable, cfg)
	if d.Kind != KindGoToBoost {
		t.Fatalf("Kind = %v, want %v", d.Kind, KindGoToBoost)
	}
	if d.HasWaypoint {
		t.Error("waypoint set without opportunities")
	}
	acts := d.Actions()
	if len(acts) != 1 {
		t.Fatalf("got %d actions, want 1", len(acts))
	}
	if _, ok := acts[0].(CollectBoostAction); !ok {
		t.Errorf("action = %T, want CollectBoostAction", acts[0])
	}
}

func TestDecideScenarioBoostSuppressed(t *testing.T) {
	cfg := config.Cfg()
	snap := testSnapshot()
	snap.Me.Boost = 20
	snap.Me.Location = geom.V(0, -2120, 17)
	snap.Ball.Location = geom.V(0, -3120, 0)

	d := Decide(snap, components.Prediction{}, opportunity.AlwaysViable, cfg)
	if d.Kind == KindGoToBoost {
		t.Fatal("boost detour taken while defending near the own goal")
	}
	if d.Kind != KindGoToDefensive {
		t.Errorf("Kind = %v, want %v", d.Kind, KindGoToDefensive)
	}
}

func TestDecideBoostWaypoint(t *testing.T) {
	cfg := config.Cfg()
	snap := testSnapshot()
	snap.Me.Boost = 20
	snap.Me.Location = geom.V(0, -3000, 17)
	snap.Ball.Location = geom.V(0, 0, 93)
	pred := rollingPrediction(geom.V(0, 0, 93), geom.V(0, 500, 0))

	d := Decide(snap, pred, opportunity.AlwaysViable, cfg)
	if d.Kind != KindGoToBoost {
		t.Fatalf("Kind = %v, want %v", d.Kind, KindGoToBoost)
	}
	if !d.HasWaypoint {
		t.Fatal("expected a waypoint toward the best opportunity")
	}

	ranked := opportunity.Rank(snap, opportunity.Find(snap, pred, opportunity.AlwaysViable, cfg), cfg.Ranking.Order)
	want, _ := ranked[0].Location()
	if d.Waypoint != want {
		t.Errorf("Waypoint = %v, want %v", d.Waypoint, want)
	}
}

func TestDecideBoostWithoutPads(t *testing.T) {
	cfg := config.Cfg()
	snap := testSnapshot()
	snap.Me.Boost = 20
	snap.Me.Location = geom.V(0, -3000, 17)
	snap.Pads = nil
	pred := rollingPrediction(geom.V(0, 0, 93), geom.V(0, 500, 0))

	d := Decide(snap, pred, opportunity.AlwaysViable, cfg)
	if d.Kind != KindShoot {
		t.Errorf("Kind = %v, want %v when no pad is active", d.Kind, KindShoot)
	}
}

func TestDecideShoot(t *testing.T) {
	cfg := config.Cfg()
	snap := testSnapshot()
	snap.Me.Location = geom.V(0, -1000, 17)
	snap.Ball.Location = geom.V(0, 0, 93)
	pred := rollingPrediction(geom.V(0, 0, 93), geom.V(0, 500, 0))

	d := Decide(snap, pred, opportunity.AlwaysViable, cfg)
	if d.Kind != KindShoot {
		t.Fatalf("Kind = %v, want %v", d.Kind, KindShoot)
	}
	if d.Shot.Class == opportunity.Immediate {
		t.Error("immediate tap preferred over a forecast shot")
	}

	ranked := opportunity.Rank(snap, opportunity.Find(snap, pred, opportunity.AlwaysViable, cfg), config.RankDescending)
	for _, r := range ranked {
		if r.Score > d.Score {
			t.Errorf("picked score %v but %v was available", d.Score, r.Score)
		}
	}
	if d.Candidates != len(ranked) {
		t.Errorf("Candidates = %d, want %d", d.Candidates, len(ranked))
	}
}

func TestDecideAscendingOrderTakesLowestScore(t *testing.T) {
	cfg := *config.Cfg()
	cfg.Ranking.Order = config.RankAscending

	snap := testSnapshot()
	snap.Me.Location = geom.V(0, -1000, 17)
	pred := rollingPrediction(geom.V(0, 0, 93), geom.V(0, 500, 0))

	d := Decide(snap, pred, opportunity.AlwaysViable, &cfg)
	if d.Kind != KindShoot {
		t.Fatalf("Kind = %v, want %v", d.Kind, KindShoot)
	}
	// The immediate tap always scores -10 and so heads an ascending ranking
	if d.Shot.Class != opportunity.Immediate || d.Score != opportunity.ImmediateScore {
		t.Errorf("picked %v scoring %v, want the immediate tap", d.Shot.Class, d.Score)
	}
}

func TestDecideScenarioDefensiveClamp(t *testing.T) {
	cfg := config.Cfg()
	snap := testSnapshot()
	snap.Me.Location = geom.V(0, 0, 17)
	snap.Ball.Location = geom.V(3000, -4000, 93)

	d := Decide(snap, components.Prediction{}, rejectAll, cfg)
	if d.Kind != KindGoToDefensive {
		t.Fatalf("Kind = %v, want %v", d.Kind, KindGoToDefensive)
	}
	if d.Target.X < -800 || d.Target.X > 800 {
		t.Errorf("Target.X = %v, want within [-800, 800]", d.Target.X)
	}
	if d.Target.X != 800 {
		t.Errorf("Target.X = %v, want clamped to 800", d.Target.X)
	}
	wantFacing := geom.Sub(snap.FoeGoal.Location, snap.Me.Location)
	if d.Facing != wantFacing {
		t.Errorf("Facing = %v, want %v", d.Facing, wantFacing)
	}
}

func TestDefensivePositionDepth(t *testing.T) {
	cfg := config.Cfg()
	snap := testSnapshot()

	// Ball 600 out from the goal: stand halfway
	snap.Ball.Location = geom.V(0, -4520, 0)
	got := DefensivePosition(snap, cfg)
	if math.Abs(got.Y-(-4820)) > 1e-6 || got.X != 0 {
		t.Errorf("DefensivePosition = %v, want (0,-4820,0)", got)
	}

	// Far ball: capped at 1000 out
	snap.Ball.Location = geom.V(0, 3000, 0)
	got = DefensivePosition(snap, cfg)
	if math.Abs(got.Y-(-4120)) > 1e-6 {
		t.Errorf("DefensivePosition = %v, want y=-4120", got)
	}

	// Ball on the goal center: stay on the goal
	snap.Ball.Location = snap.OwnGoal.Location
	got = DefensivePosition(snap, cfg)
	if got != snap.OwnGoal.Location {
		t.Errorf("DefensivePosition = %v, want the goal center", got)
	}
}

func TestNeedsDefenseVelocity(t *testing.T) {
	cfg := config.Cfg()
	snap := testSnapshot()
	snap.Ball.Location = geom.V(0, 500, 93)

	if NeedsDefense(snap, cfg) {
		t.Error("stationary ball on the attacking half should not need defense")
	}

	snap.Ball.Velocity = geom.V(0, -600, 0)
	if !NeedsDefense(snap, cfg) {
		t.Error("ball rushing the own goal should need defense")
	}

	snap.Ball.Velocity = geom.V(0, -400, 0)
	if NeedsDefense(snap, cfg) {
		t.Error("slow ball toward own goal should not need defense")
	}
}

func TestDecideOffensiveWithTap(t *testing.T) {
	cfg := config.Cfg()
	snap := testSnapshot()
	snap.Ball.Location = geom.V(0, 1000, 93)
	// Car between ball and opponent goal: no immediate tap qualifies
	snap.Me.Location = geom.V(0, 1400, 17)

	d := Decide(snap, components.Prediction{}, rejectAll, cfg)
	if d.Kind != KindGoToOffensive {
		t.Fatalf("Kind = %v, want %v", d.Kind, KindGoToOffensive)
	}
	if !d.Tap || d.TapAt != snap.FoeGoal.Location {
		t.Errorf("Tap = %v at %v, want tap at the opponent goal", d.Tap, d.TapAt)
	}
	if d.Target.Y > snap.Ball.Location.Y {
		t.Errorf("Target %v is not behind the ball", d.Target)
	}

	acts := d.Actions()
	if len(acts) != 2 {
		t.Fatalf("got %d actions, want 2", len(acts))
	}
	if _, ok := acts[0].(GoToAction); !ok {
		t.Errorf("first action = %T, want GoToAction", acts[0])
	}
	if _, ok := acts[1].(ShortShotAction); !ok {
		t.Errorf("second action = %T, want ShortShotAction", acts[1])
	}
}

func TestOffensivePositionClamp(t *testing.T) {
	cfg := config.Cfg()
	snap := testSnapshot()
	snap.Ball.Location = geom.V(3900, 4900, 93)

	got := OffensivePosition(snap, cfg)
	if got.X < -3000 || got.X > 3000 || got.Y < -4000 || got.Y > 4000 {
		t.Errorf("OffensivePosition = %v escapes the clamp", got)
	}
}

func TestDecideKickoff(t *testing.T) {
	cfg := config.Cfg()
	snap := testSnapshot()
	snap.Kickoff = true
	snap.Me.Boost = 0

	d := Decide(snap, components.Prediction{}, opportunity.AlwaysViable, cfg)
	if d.Kind != KindKickoff {
		t.Errorf("Kind = %v, want %v", d.Kind, KindKickoff)
	}
}

func TestKindString(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range Kinds() {
		name := k.String()
		if name == fmt.Sprintf("kind(%d)", uint8(k)) || seen[name] {
			t.Errorf("Kind %d has no unique name: %q", uint8(k), name)
		}
		seen[name] = true
	}
	if got := Kind(99).String(); got != "kind(99)" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}

type sliceStack struct {
	actions []Action
}

func (s *sliceStack) Len() int      { return len(s.actions) }
func (s *sliceStack) Push(a Action) { s.actions = append(s.actions, a) }

func newTestAgent(t *testing.T, obs Observer) *Agent {
	t.Helper()
	a, err := NewAgent(config.Cfg(), opportunity.AlwaysViable, AgentOptions{
		Meter:    noop.NewMeterProvider().Meter("test"),
		Observer: obs,
	})
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	return a
}

func TestAgentYieldsToRunningAction(t *testing.T) {
	agent := newTestAgent(t, nil)
	stack := &sliceStack{actions: []Action{GoToAction{}}}
	predictor := components.PredictorFunc(func() components.Prediction {
		t.Fatal("forecast requested while an action is running")
		return components.Prediction{}
	})

	if _, acted := agent.Tick(context.Background(), testSnapshot(), predictor, stack); acted {
		t.Error("agent acted with a non-empty stack")
	}
	if stack.Len() != 1 {
		t.Errorf("stack len = %d, want 1", stack.Len())
	}
}

func TestAgentPushesDecision(t *testing.T) {
	var observed []Decision
	agent := newTestAgent(t, func(_ *components.Snapshot, d Decision) { observed = append(observed, d) })

	snap := testSnapshot()
	snap.Me.Location = geom.V(0, -1000, 17)
	pred := rollingPrediction(geom.V(0, 0, 93), geom.V(0, 500, 0))
	stack := &sliceStack{}

	d, acted := agent.Tick(context.Background(), snap, components.PredictorFunc(func() components.Prediction { return pred }), stack)
	if !acted {
		t.Fatal("agent did not act on an empty stack")
	}
	if d.Kind != KindShoot {
		t.Errorf("Kind = %v, want %v", d.Kind, KindShoot)
	}
	if stack.Len() != 1 {
		t.Fatalf("stack len = %d, want 1", stack.Len())
	}
	if _, ok := stack.actions[0].(ShootAction); !ok {
		t.Errorf("pushed %T, want ShootAction", stack.actions[0])
	}
	if len(observed) != 1 || observed[0].Kind != KindShoot {
		t.Errorf("observer saw %v", observed)
	}
}

func TestAgentKickoffSkipsForecast(t *testing.T) {
	agent := newTestAgent(t, nil)
	snap := testSnapshot()
	snap.Kickoff = true
	stack := &sliceStack{}
	predictor := components.PredictorFunc(func() components.Prediction {
		t.Fatal("forecast requested during kickoff")
		return components.Prediction{}
	})

	d, acted := agent.Tick(context.Background(), snap, predictor, stack)
	if !acted || d.Kind != KindKickoff {
		t.Fatalf("Tick = %v, %v; want kickoff", d.Kind, acted)
	}
	if _, ok := stack.actions[0].(KickoffAction); !ok {
		t.Errorf("pushed %T, want KickoffAction", stack.actions[0])
	}
}
