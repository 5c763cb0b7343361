package sim

import (
	"math"
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/geom"
)

// Car and pad heights above the floor.
const (
	carRestHeight = 17.0
	padHeight     = 73.0
	airborneAbove = 50.0
)

// Small pads come back faster than large ones.
const smallPadRespawnFrac = 0.4

// Kickoff spawn spots for the blue car, mirrored in x at random.
var kickoffSpawns = []geom.Vec{
	{X: 0, Y: -4608, Z: carRestHeight},
	{X: 2048, Y: -2560, Z: carRestHeight},
	{X: 256, Y: -3840, Z: carRestHeight},
}

// padLayout is the large pad set plus a ring of small pads.
var padLayout = []struct {
	x, y  float64
	large bool
}{
	{-3072, -4096, true}, {3072, -4096, true},
	{-3584, 0, true}, {3584, 0, true},
	{-3072, 4096, true}, {3072, 4096, true},
	{0, -4240, false}, {-1792, -4184, false}, {1792, -4184, false},
	{0, -2816, false}, {-940, -3308, false}, {940, -3308, false},
	{-1788, -2300, false}, {1788, -2300, false},
	{-2048, -1036, false}, {2048, -1036, false}, {0, -1024, false},
	{-1024, 0, false}, {1024, 0, false},
	{0, 1024, false}, {-2048, 1036, false}, {2048, 1036, false},
	{-1788, 2300, false}, {1788, 2300, false},
	{0, 2816, false}, {-940, 3310, false}, {940, 3308, false},
	{0, 4240, false}, {-1792, 4184, false}, {1792, 4184, false},
}

// PadTimer counts down until an inactive pad becomes active again.
type PadTimer struct {
	Remaining float64
}

// World holds the arena entities in an ECS world.
type World struct {
	cfg *config.Config
	rng *rand.Rand
	ecs *ecs.World

	carMap  *ecs.Map1[components.Car]
	ballMap *ecs.Map1[components.Ball]
	padMap  *ecs.Map2[components.BoostPad, PadTimer]
	goalMap *ecs.Map1[components.Goal]

	padFilter  ecs.Filter2[components.BoostPad, PadTimer]
	goalFilter ecs.Filter1[components.Goal]

	car  ecs.Entity
	ball ecs.Entity
	time float64
}

// NewWorld builds the arena in kickoff position.
func NewWorld(cfg *config.Config, rng *rand.Rand) *World {
	w := ecs.NewWorld()
	world := &World{
		cfg:        cfg,
		rng:        rng,
		ecs:        w,
		carMap:     ecs.NewMap1[components.Car](w),
		ballMap:    ecs.NewMap1[components.Ball](w),
		padMap:     ecs.NewMap2[components.BoostPad, PadTimer](w),
		goalMap:    ecs.NewMap1[components.Goal](w),
		padFilter:  *ecs.NewFilter2[components.BoostPad, PadTimer](w),
		goalFilter: *ecs.NewFilter1[components.Goal](w),
	}

	blue, orange := components.Goals(cfg.Field.HalfLength)
	world.goalMap.NewEntity(&blue)
	world.goalMap.NewEntity(&orange)

	for i, p := range padLayout {
		pad := components.BoostPad{
			Index:    i,
			Location: geom.V(p.x, p.y, padHeight),
			Active:   true,
			Large:    p.large,
		}
		world.padMap.NewEntity(&pad, &PadTimer{})
	}

	car := components.Car{Team: components.TeamBlue}
	ball := components.Ball{}
	world.car = world.carMap.NewEntity(&car)
	world.ball = world.ballMap.NewEntity(&ball)
	world.ResetKickoff()

	return world
}

// Time returns the simulation time in seconds.
func (w *World) Time() float64 {
	return w.time
}

// Car returns the controlled car for in-place updates.
func (w *World) Car() *components.Car {
	return w.carMap.Get(w.car)
}

// Ball returns the ball for in-place updates.
func (w *World) Ball() *components.Ball {
	return w.ballMap.Get(w.ball)
}

// ResetKickoff puts the ball at center and the car on a kickoff spot.
func (w *World) ResetKickoff() {
	spawn := kickoffSpawns[w.rng.Intn(len(kickoffSpawns))]
	if w.rng.Intn(2) == 1 {
		spawn.X = -spawn.X
	}

	car := w.Car()
	car.Location = spawn
	car.Velocity = geom.Vec{}
	car.Forward = geom.Sub(geom.V(0, 0, carRestHeight), spawn)
	car.Boost = w.cfg.Harness.StartBoost
	car.Airborne = false

	ball := w.Ball()
	ball.Location = geom.V(0, 0, w.cfg.Harness.BallRadius)
	ball.Velocity = geom.Vec{}
}

// IsKickoff reports whether the ball rests at center, which is how the
// harness detects a kickoff pause.
func (w *World) IsKickoff() bool {
	ball := w.Ball()
	atCenter := math.Hypot(ball.Location.X, ball.Location.Y) < 1
	return atCenter && geom.Magnitude(ball.Velocity) < w.cfg.Harness.KickoffSpeedTol
}

// Snapshot copies the world state into the agent's view.
func (w *World) Snapshot() components.Snapshot {
	snap := components.Snapshot{
		Time:    w.time,
		Me:      *w.Car(),
		Ball:    *w.Ball(),
		Kickoff: w.IsKickoff(),
	}

	goals := w.goalFilter.Query()
	for goals.Next() {
		g := goals.Get()
		if g.Team == snap.Me.Team {
			snap.OwnGoal = *g
		} else {
			snap.FoeGoal = *g
		}
	}

	pads := w.padFilter.Query()
	for pads.Next() {
		pad, _ := pads.Get()
		snap.Pads = append(snap.Pads, *pad)
	}
	sort.Slice(snap.Pads, func(i, j int) bool { return snap.Pads[i].Index < snap.Pads[j].Index })

	return snap
}

// PadActive reports whether the pad with the given index is active.
func (w *World) PadActive(index int) bool {
	active := false
	query := w.padFilter.Query()
	for query.Next() {
		pad, _ := query.Get()
		if pad.Index == index {
			active = pad.Active
		}
	}
	return active
}

// updatePads picks up active pads under the car and counts down respawn
// timers. It returns the number of pads picked up.
func (w *World) updatePads(dt float64) int {
	h := w.cfg.Harness
	car := w.Car()
	picked := 0

	query := w.padFilter.Query()
	for query.Next() {
		pad, timer := query.Get()

		if !pad.Active {
			timer.Remaining -= dt
			if timer.Remaining <= 0 {
				pad.Active = true
				timer.Remaining = 0
			}
			continue
		}

		if car.Airborne || car.Boost >= 100 || geom.Distance(geom.Flat(car.Location), geom.Flat(pad.Location)) > h.PickupRange {
			continue
		}

		gain, respawn := h.SmallPadBoost, h.PadRespawn*smallPadRespawnFrac
		if pad.Large {
			gain, respawn = 100, h.PadRespawn
		}
		car.Boost = math.Min(100, car.Boost+gain)
		pad.Active = false
		timer.Remaining = respawn
		picked++
	}
	return picked
}

// foeGoal returns the location of the goal the car attacks.
func (w *World) foeGoal() geom.Vec {
	foe := w.Car().Team.Opponent()
	var loc geom.Vec
	query := w.goalFilter.Query()
	for query.Next() {
		if g := query.Get(); g.Team == foe {
			loc = g.Location
		}
	}
	return loc
}

func (w *World) dt() float64 {
	return w.cfg.Derived.DT
}

func (w *World) advance(dt float64) {
	w.time += dt
}
