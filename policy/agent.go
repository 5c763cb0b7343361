package policy

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/pthm-cable/striker/components"
	"github.com/pthm-cable/striker/config"
	"github.com/pthm-cable/striker/opportunity"
)

const instrumentationName = "github.com/pthm-cable/striker/policy"

// Observer receives every decision the agent acts on.
type Observer func(snap *components.Snapshot, d Decision)

// AgentOptions configures an Agent. Zero values fall back to the global
// meter provider and the default slog logger.
type AgentOptions struct {
	Meter    metric.Meter
	Logger   *slog.Logger
	Observer Observer
}

// Agent adapts Decide to a collaborator action stack.
type Agent struct {
	cfg      *config.Config
	check    opportunity.Feasibility
	logger   *slog.Logger
	observer Observer

	decisions metric.Int64Counter
	scores    metric.Float64Histogram
}

// NewAgent creates an agent that judges shots with check.
func NewAgent(cfg *config.Config, check opportunity.Feasibility, opts AgentOptions) (*Agent, error) {
	meter := opts.Meter
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	decisions, err := meter.Int64Counter("striker.decisions",
		metric.WithDescription("Decisions taken by the agent, by kind"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating decisions counter: %w", err)
	}
	scores, err := meter.Float64Histogram("striker.shot.score",
		metric.WithDescription("Quality score of the shot the agent committed to"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating score histogram: %w", err)
	}

	return &Agent{
		cfg:       cfg,
		check:     check,
		logger:    logger,
		observer:  opts.Observer,
		decisions: decisions,
		scores:    scores,
	}, nil
}

// Tick runs one decision cycle. While the stack holds an action the agent
// yields and returns false. Otherwise it decides, pushes the actions and
// returns the decision.
func (a *Agent) Tick(ctx context.Context, snap *components.Snapshot, predictor components.Predictor, stack Stack) (Decision, bool) {
	if stack.Len() > 0 {
		return Decision{}, false
	}

	var pred components.Prediction
	if !snap.Kickoff {
		pred = predictor.BallPrediction()
	}

	d := Decide(snap, pred, a.check, a.cfg)
	for _, action := range d.Actions() {
		stack.Push(action)
	}

	kind := metric.WithAttributes(attribute.String("kind", d.Kind.String()))
	a.decisions.Add(ctx, 1, kind)
	if d.Kind == KindShoot {
		a.scores.Record(ctx, d.Score, metric.WithAttributes(attribute.String("class", d.Shot.Class.String())))
	}

	a.logger.DebugContext(ctx, "decision", "tick_time", snap.Time, "decision", d)
	if a.observer != nil {
		a.observer(snap, d)
	}
	return d, true
}
