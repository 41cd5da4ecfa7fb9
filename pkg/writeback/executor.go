// Package writeback applies reconciliation candidates to the knowledge base,
// one at a time and throttled, recording a terminal outcome for each.
package writeback

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agentstation/linksync/internal/validation"
	"github.com/agentstation/linksync/pkg/constants"
	"github.com/agentstation/linksync/pkg/errors"
	"github.com/agentstation/linksync/pkg/links"
	"github.com/agentstation/linksync/pkg/logging"
	"github.com/agentstation/linksync/pkg/metrics"
	"github.com/agentstation/linksync/pkg/queue"
	"github.com/agentstation/linksync/pkg/wikibase"
)

// Remote is the knowledge base the executor writes to. Implementations own
// the authenticated session.
type Remote interface {
	FetchItem(ctx context.Context, id string) (*wikibase.Item, error)
	SaveItem(ctx context.Context, item *wikibase.Item, summary string) error
}

// Config is the write policy of an Executor.
type Config struct {
	// Property receives the local identifier, e.g. P7003.
	Property string `validate:"required"`
	// Summary is attached to every edit.
	Summary string `validate:"required"`
	// Interval is the minimum spacing between two dispatches.
	Interval time.Duration `validate:"gte=0"`
}

// DefaultConfig returns the production write policy.
func DefaultConfig() Config {
	return Config{
		Property: constants.CatalogProperty,
		Summary:  constants.WriteSummary,
		Interval: constants.DefaultWriteInterval,
	}
}

// Option configures an Executor.
type Option func(*Executor)

// WithThrottle replaces the interval throttle built from Config.Interval.
func WithThrottle(t Throttle) Option {
	return func(e *Executor) {
		e.throttle = t
	}
}

// WithLogger sets the logger. Without it the logger is taken from the context.
func WithLogger(l *zerolog.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// WithMetrics records outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// WithTracer sets the tracer used for per-candidate spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Executor) {
		e.tracer = t
	}
}

// WithClock sets the time source for outcome timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// WithObserver calls fn with every outcome as soon as it is final.
func WithObserver(fn func(Outcome)) Option {
	return func(e *Executor) {
		e.observe = fn
	}
}

// Executor writes candidates serially. It is not safe for concurrent use.
type Executor struct {
	remote   Remote
	cfg      Config
	throttle Throttle
	logger   *zerolog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
	observe  func(Outcome)
}

// New creates an executor.
func New(remote Remote, cfg Config, opts ...Option) (*Executor, error) {
	if remote == nil {
		return nil, errors.NewValidationError("remote", nil, "remote is required")
	}
	if err := validation.Struct(cfg); err != nil {
		return nil, err
	}

	e := &Executor{
		remote: remote,
		cfg:    cfg,
		tracer: otel.Tracer("linksync/writeback"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.throttle == nil {
		e.throttle = NewIntervalThrottle(cfg.Interval)
	}
	return e, nil
}

// Execute writes every batched candidate in order and returns one outcome per
// candidate, in the same order. A failed candidate never stops the batch.
// Once ctx is done, the remaining candidates fail with the cancellation.
func (e *Executor) Execute(ctx context.Context, batch *queue.Batch) []Outcome {
	items := batch.Items()
	outcomes := make([]Outcome, 0, len(items))

	for _, c := range items {
		waitStart := e.now()
		if err := e.wait(ctx); err != nil {
			outcomes = append(outcomes, e.finish(ctx, c, waitStart, StageWaiting, wikibase.Unchanged, err))
			continue
		}
		e.metrics.ThrottleWaited(e.now().Sub(waitStart))
		outcomes = append(outcomes, e.Write(ctx, c))
	}
	return outcomes
}

func (e *Executor) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}
	if err := e.throttle.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}
	return nil
}

// Write applies a single candidate without throttling.
func (e *Executor) Write(ctx context.Context, c links.Record) Outcome {
	ctx, span := e.tracer.Start(ctx, "writeback.Write", trace.WithAttributes(
		attribute.String("linksync.item", c.ExternalID),
		attribute.String("linksync.local_id", c.LocalID),
		attribute.String("linksync.property", e.cfg.Property),
	))
	defer span.End()

	start := e.now()

	item, err := e.remote.FetchItem(ctx, c.ExternalID)
	if err != nil {
		return e.traced(span, e.finish(ctx, c, start, StageFetching, wikibase.Unchanged, err))
	}
	if item == nil {
		err = errors.NewNotFoundError("item", c.ExternalID)
		return e.traced(span, e.finish(ctx, c, start, StageClaiming, wikibase.Unchanged, err))
	}

	change := item.UpsertClaim(e.cfg.Property, c.LocalID)
	span.AddEvent("claim", trace.WithAttributes(attribute.String("linksync.change", change.String())))

	if err := e.remote.SaveItem(ctx, item, e.cfg.Summary); err != nil {
		return e.traced(span, e.finish(ctx, c, start, StagePersisting, change, err))
	}
	return e.traced(span, e.finish(ctx, c, start, StageDone, change, nil))
}

func (e *Executor) traced(span trace.Span, o Outcome) Outcome {
	span.SetAttributes(
		attribute.String("linksync.status", string(o.Status)),
		attribute.String("linksync.stage", string(o.Stage)),
	)
	if o.Err != nil {
		span.RecordError(o.Err)
		span.SetStatus(codes.Error, o.Reason)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return o
}

// finish builds the terminal outcome and records it in logs and metrics.
func (e *Executor) finish(ctx context.Context, c links.Record, start time.Time, stage Stage, change wikibase.Change, err error) Outcome {
	end := e.now()
	o := Outcome{
		Candidate: c,
		Status:    StatusWritten,
		Stage:     stage,
		Action:    change.String(),
		Changed:   change.Changed(),
		Elapsed:   end.Sub(start),
		Timestamp: end,
	}
	if err != nil {
		o.Status = StatusFailed
		o.Action = ""
		o.Changed = false
		o.Err = &errors.RemoteWriteError{
			ItemID:  c.ExternalID,
			LocalID: c.LocalID,
			Stage:   string(stage),
			Err:     err,
		}
		o.Reason = err.Error()
	}

	e.metrics.WriteFinished(string(o.Status), string(o.Stage), o.Elapsed)
	e.log(ctx, o)
	if e.observe != nil {
		e.observe(o)
	}
	return o
}

func (e *Executor) log(ctx context.Context, o Outcome) {
	logger := e.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	if o.Failed() {
		logger.Warn().
			Str("item", o.Candidate.ExternalID).
			Str("local_id", o.Candidate.LocalID).
			Str("stage", string(o.Stage)).
			Str("reason", o.Reason).
			Msg("Write-back failed")
		return
	}
	logger.Info().
		Str("item", o.Candidate.ExternalID).
		Str("local_id", o.Candidate.LocalID).
		Str("action", o.Action).
		Dur("elapsed", o.Elapsed).
		Msg("Write-back succeeded")
}
