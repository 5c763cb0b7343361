package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/journal"
	"github.com/pthm-cable/striker/sim"
	"github.com/pthm-cable/striker/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	journalPath := flag.String("journal", "", "SQLite file for the decision journal (empty = disabled)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = until interrupted)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Use config stats window if not overridden by CLI
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, runOptions{
		seed:        rngSeed,
		logStats:    *logStats,
		outputDir:   *outputDir,
		journalPath: *journalPath,
		maxTicks:    *maxTicks,
	}); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	seed        int64
	logStats    bool
	outputDir   string
	journalPath string
	maxTicks    int
}

func run(ctx context.Context, cfg *config.Config, opts runOptions) (err error) {
	output, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, output.Close())
	}()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	j, err := journal.Open(ctx, opts.journalPath, opts.seed, cfg.Harness.TickRate)
	if err != nil {
		return err
	}

	g, err := sim.NewGame(sim.Options{
		Config:   cfg,
		Seed:     opts.seed,
		Output:   output,
		Journal:  j,
		LogStats: opts.logStats,
	})
	if err != nil {
		return errors.Join(err, j.Close(ctx, 0))
	}

	limit := int32(math.MaxInt32)
	if opts.maxTicks > 0 {
		limit = int32(min(opts.maxTicks, math.MaxInt32))
	}

	slog.Info("starting headless run",
		"seed", opts.seed,
		"stats_window", cfg.Telemetry.StatsWindow,
		"max_ticks", opts.maxTicks,
		"output_dir", output.Dir(),
		"journal", opts.journalPath,
	)

	runErr := g.Run(ctx, limit)
	if errors.Is(runErr, context.Canceled) {
		slog.Info("interrupted", "tick", g.Tick())
		runErr = nil
	}

	// Close with a fresh context so the journal still flushes after an interrupt
	closeCtx := context.WithoutCancel(ctx)
	logDecisionMix(closeCtx, j)
	closeErr := g.Close(closeCtx)

	goalsFor, goalsAgainst := g.Score()
	slog.Info("run finished",
		"tick", g.Tick(),
		"goals_for", goalsFor,
		"goals_against", goalsAgainst,
	)
	return errors.Join(runErr, closeErr)
}

// logDecisionMix summarises the journaled decisions of this run by kind.
func logDecisionMix(ctx context.Context, j *journal.Journal) {
	if j == nil {
		return
	}
	if err := j.Flush(ctx); err != nil {
		slog.Error("failed to flush journal", "error", err)
		return
	}
	mix, err := j.DecisionMix(ctx)
	if err != nil {
		slog.Error("failed to summarise journal", "error", err)
		return
	}
	attrs := make([]any, 0, 2*len(mix))
	for _, kc := range mix {
		attrs = append(attrs, kc.Kind, kc.Count)
	}
	slog.Info("decision mix", "run", j.RunID(), slog.Group("kinds", attrs...))
}
