package main

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/sim"
	"github.com/pthm-cable/striker/telemetry"
)

// FitnessEvaluator runs headless matches and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	lastResult  matchResult // mean over seeds from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// Fitness weights. Goal difference dominates; contacts and shot quality
// separate configs that draw.
const (
	weightGoal    = 10.0
	weightContact = 0.05
	weightQuality = 1.0

	// failedFitness is reported for matches that could not be played.
	failedFitness = 1e9
)

// matchResult summarises one match, or the mean over several.
type matchResult struct {
	GoalsFor     float64
	GoalsAgainst float64
	Contacts     float64
	ScoreMean    float64 // mean committed shot score over windows with shots
	Failed       bool
}

// LastResult returns the seed-averaged outcome of the most recent evaluation.
func (fe *FitnessEvaluator) LastResult() matchResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResult
}

// BestFitness returns the lowest fitness seen so far.
func (fe *FitnessEvaluator) BestFitness() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestFitness
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel; each match owns its world and agent.
	results := make([]matchResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runMatch(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var mean matchResult
	var total float64
	for _, r := range results {
		total += computeFitness(r)
		mean.GoalsFor += r.GoalsFor
		mean.GoalsAgainst += r.GoalsAgainst
		mean.Contacts += r.Contacts
		mean.ScoreMean += r.ScoreMean
		mean.Failed = mean.Failed || r.Failed
	}
	n := float64(len(fe.seeds))
	mean.GoalsFor /= n
	mean.GoalsAgainst /= n
	mean.Contacts /= n
	mean.ScoreMean /= n
	avgFitness := total / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastResult = mean
	fe.mu.Unlock()

	return avgFitness
}

// runMatch plays one headless match with cfg and collects its windows.
func (fe *FitnessEvaluator) runMatch(cfg *config.Config, seed int64) matchResult {
	var windows []telemetry.WindowStats
	g, err := sim.NewGame(sim.Options{
		Config: cfg,
		Seed:   seed,
		Logger: slog.New(slog.DiscardHandler),
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		slog.Error("creating match", "seed", seed, "error", err)
		return matchResult{Failed: true}
	}

	ctx := context.Background()
	runErr := g.Run(ctx, fe.maxTicks)
	closeErr := g.Close(ctx)
	if runErr != nil || closeErr != nil {
		slog.Error("match failed", "seed", seed, "run_error", runErr, "close_error", closeErr)
		return matchResult{Failed: true}
	}
	return summarise(windows)
}

// summarise totals outcome counters across windows.
func summarise(windows []telemetry.WindowStats) matchResult {
	var r matchResult
	var scored int
	for _, w := range windows {
		r.GoalsFor += float64(w.GoalsFor)
		r.GoalsAgainst += float64(w.GoalsAgainst)
		r.Contacts += float64(w.Contacts)
		if w.Shots > 0 {
			r.ScoreMean += w.ScoreMean
			scored++
		}
	}
	if scored > 0 {
		r.ScoreMean /= float64(scored)
	}
	return r
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
func computeFitness(r matchResult) float64 {
	if r.Failed {
		return failedFitness
	}
	return -(weightGoal*(r.GoalsFor-r.GoalsAgainst) +
		weightContact*r.Contacts +
		weightQuality*r.ScoreMean)
}
