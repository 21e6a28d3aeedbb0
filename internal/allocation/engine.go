package allocation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-mandate/internal/domain"
	"github.com/ahrav/go-mandate/internal/ports"
)

// tracerName identifies this package's spans.
const tracerName = "github.com/ahrav/go-mandate/internal/allocation"

// Engine runs the complete seat-allocation pipeline for one election
// year against an injected vote store. The computation is a pure batch
// transform over an immutable snapshot: it either yields a complete,
// internally consistent result or fails entirely and yields nothing.
// Engine is stateless between runs and safe for concurrent use across
// different years.
type Engine struct {
	votes   ports.VoteStore
	cfg     Config
	metrics ports.MetricsCollector
	tracer  trace.Tracer
	log     *logrus.Logger
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithMetrics wires a metrics collector into the engine.
func WithMetrics(m ports.MetricsCollector) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger wires a structured logger into the engine.
func WithLogger(log *logrus.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates an Engine over the given vote store and validated
// configuration.
func NewEngine(votes ports.VoteStore, cfg Config, opts ...EngineOption) (*Engine, error) {
	if votes == nil {
		return nil, fmt.Errorf("%w: vote store is required", domain.ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		votes:   votes,
		cfg:     cfg,
		metrics: ports.NoopMetrics{},
		tracer:  otel.Tracer(tracerName),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine's electoral parameters.
func (e *Engine) Config() Config { return e.cfg }

// ComputeSeatAllocation runs the eight-stage pipeline for one election
// year and returns the complete result. Reprocessing the same snapshot
// yields an identical roster, so failed runs can be retried wholesale.
//
// Stage failures propagate as StageError values naming the stage and
// the offending entity; no partial result is ever returned.
func (e *Engine) ComputeSeatAllocation(ctx context.Context, year int) (*domain.Result, error) {
	runID := uuid.NewString()
	started := time.Now()

	ctx, span := e.tracer.Start(ctx, "allocation.compute",
		trace.WithAttributes(
			attribute.Int("election.year", year),
			attribute.String("run.id", runID),
		))
	defer span.End()

	result, err := e.compute(ctx, year, runID)

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		e.log.WithFields(logrus.Fields{"year": year, "run_id": runID}).
			Errorf("seat allocation failed: %v", err)
	}
	e.metrics.RecordLatency("compute_seat_allocation", time.Since(started),
		map[string]string{"year": fmt.Sprint(year)})
	e.metrics.RecordCounter("allocation_runs_total", 1,
		map[string]string{"year": fmt.Sprint(year), "status": status})

	if err != nil {
		return nil, err
	}

	for seatType, count := range result.SeatsByType() {
		e.metrics.RecordGauge("allocation_seats", float64(count),
			map[string]string{"year": fmt.Sprint(year), "seat_type": string(seatType)})
	}

	e.log.WithFields(logrus.Fields{
		"year":     year,
		"run_id":   runID,
		"roster":   len(result.Roster),
		"duration": time.Since(started).String(),
	}).Info("seat allocation computed")
	return result, nil
}

// compute executes the stages in their fixed order, checking for
// cancellation between stages. Data flows strictly forward; no stage
// reads a later stage's output.
func (e *Engine) compute(ctx context.Context, year int, runID string) (*domain.Result, error) {
	ref, snap, err := e.loadInputs(ctx, year)
	if err != nil {
		return nil, err
	}

	var (
		agg      *Aggregates
		winners  []domain.ConstituencyWinner
		qual     *Qualification
		federal  *FederalResult
		states   []domain.StateAllocation
		cov      *Coverage
		seats    []ListSeat
		assembly *domain.Result
	)

	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{stageAggregate, func(context.Context) error {
			agg, err = AggregateVotes(ref, snap)
			return err
		}},
		{stageWinners, func(context.Context) error {
			winners = ResolveWinners(agg)
			return nil
		}},
		{stageQualification, func(context.Context) error {
			qual = QualifyParties(agg, winners, e.cfg)
			return nil
		}},
		{stageFederal, func(context.Context) error {
			federal, err = ApportionFederal(agg, winners, qual, e.cfg)
			return err
		}},
		{stageStates, func(stageCtx context.Context) error {
			states, err = ApportionStates(stageCtx, agg, federal)
			return err
		}},
		{stageCoverage, func(context.Context) error {
			cov = ResolveCoverage(agg, federal, states)
			return nil
		}},
		{stageListSeats, func(context.Context) error {
			seats = FillListSeats(agg, states, cov)
			return nil
		}},
		{stageRoster, func(context.Context) error {
			assembly = AssembleRoster(agg, qual, federal, states, cov, seats, e.cfg, runID, time.Now().UTC())
			return VerifyResult(assembly, federal)
		}},
	}

	for _, stage := range stages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := e.runStage(ctx, stage.name, stage.run); err != nil {
			return nil, err
		}
	}

	if len(cov.Displaced) > 0 {
		e.log.WithFields(logrus.Fields{"year": year, "displaced": len(cov.Displaced)}).
			Warn("constituency winners displaced by second-vote coverage")
	}

	return assembly, nil
}

// runStage wraps one stage in a span and a latency observation.
func (e *Engine) runStage(ctx context.Context, name string, run func(context.Context) error) error {
	stageCtx, span := e.tracer.Start(ctx, "allocation.stage."+name)
	defer span.End()

	started := time.Now()
	err := run(stageCtx)
	e.metrics.RecordHistogram("allocation_stage_duration_seconds",
		time.Since(started).Seconds(), map[string]string{"stage": name})
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// loadInputs performs the two one-shot bulk reads concurrently. These
// are the run's only suspension points.
func (e *Engine) loadInputs(ctx context.Context, year int) (*domain.ReferenceData, *domain.VoteSnapshot, error) {
	var (
		ref  *domain.ReferenceData
		snap *domain.VoteSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ref, err = e.votes.GetReferenceData(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = e.votes.GetVoteAggregates(gctx, year)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("loading inputs for year %d: %w", year, err)
	}
	return ref, snap, nil
}
