package linksync

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/linksync/pkg/constants"
	"github.com/agentstation/linksync/pkg/errors"
	"github.com/agentstation/linksync/pkg/links"
	"github.com/agentstation/linksync/pkg/logging"
	"github.com/agentstation/linksync/pkg/queue"
	"github.com/agentstation/linksync/pkg/reconcile"
	"github.com/agentstation/linksync/pkg/writeback"
)

// RunOptions controls a single run.
type RunOptions struct {
	// DryRun computes and reports the batch without writing anything.
	DryRun bool
}

// Run reconciles the two sources and, unless dry or without a remote,
// writes the capped batch back. A source that cannot be loaded aborts the
// run before reconciliation. Per-row and per-candidate failures never abort;
// they are recorded in the report and Report.Err aggregates the latter.
func (s *Syncer) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: s.config.now(),
		DryRun:    opts.DryRun,
		Limit:     s.config.batchLimit,
	}
	ctx = logging.WithLogger(ctx, s.logger(ctx))
	ctx = logging.WithRun(ctx, report.RunID)
	logger := logging.FromContext(ctx)

	// Step 1: Load both sides concurrently
	catalogRows, kbRows, err := s.load(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Source loading failed")
		return nil, err
	}

	// Step 2: Normalize each side into comparable records
	catalogLinks, catalogSkips := links.Normalize(constants.SourceCatalog, catalogRows, s.config.catalogFields)
	kbLinks, kbSkips := links.Normalize(constants.SourceKnowledgeBase, kbRows, s.config.knowledgeBaseFields)
	report.Skips = append(catalogSkips, kbSkips...)
	s.config.metrics.SourceLoaded(constants.SourceCatalog, len(catalogLinks), len(catalogSkips))
	s.config.metrics.SourceLoaded(constants.SourceKnowledgeBase, len(kbLinks), len(kbSkips))
	for _, skip := range report.Skips {
		logger.Debug().Str("source", skip.Source).Int("row", skip.Index).Str("reason", skip.Reason).Msg("Skipped row")
	}

	// Step 3: Reconcile and cap the batch
	candidates := reconcile.Reconcile(catalogLinks, kbLinks)
	batch := queue.Enqueue(candidates, s.config.batchLimit)
	report.Stats = reconcile.Compare(catalogLinks, kbLinks)
	report.Candidates = len(candidates)
	report.Batch = batch.Items()
	report.Dropped = batch.Dropped()
	s.config.metrics.Reconciled(len(candidates), batch.Len())

	logger.Info().
		Int("catalog_pairs", report.Stats.CatalogPairs).
		Int("knowledge_base_pairs", report.Stats.KnowledgeBasePairs).
		Int("skipped", len(report.Skips)).
		Int("candidates", report.Candidates).
		Int("batched", batch.Len()).
		Msg("Reconciled sources")

	s.hooks.candidates(report)

	// Step 4: Write back unless dry or candidate-only
	if !opts.DryRun && s.CanWrite() && batch.Len() > 0 {
		remote, err := s.remote(ctx)
		if err != nil {
			// the run still reports its candidates; Report.Err carries the failure
			logger.Warn().Err(err).Msg("Write phase disabled, remote unavailable")
			report.WriteError = err.Error()
			report.writeErr = err
		} else {
			outcomes, err := s.write(ctx, remote, batch)
			if err != nil {
				return nil, err
			}
			report.WritePhase = true
			report.Outcomes = outcomes
			report.Written, report.Failed = writeback.Count(outcomes)
		}
	}

	// Step 5: Finish the report
	report.FinishedAt = s.config.now()
	s.config.metrics.RunFinished(report.FinishedAt)

	logger.Info().
		Bool("dry_run", report.DryRun).
		Bool("write_phase", report.WritePhase).
		Int("written", report.Written).
		Int("failed", report.Failed).
		Dur("duration", report.Duration()).
		Msg("Run finished")
	return report, nil
}

func (s *Syncer) logger(ctx context.Context) *zerolog.Logger {
	if s.config.logger != nil {
		return s.config.logger
	}
	return logging.FromContext(ctx)
}

// load fetches both sides concurrently. Either failure cancels the other.
func (s *Syncer) load(ctx context.Context) (catalogRows, kbRows []links.Row, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := loadSource(gctx, constants.SourceCatalog, s.config.catalog)
		catalogRows = rows
		return err
	})
	g.Go(func() error {
		rows, err := loadSource(gctx, constants.SourceKnowledgeBase, s.config.knowledgeBase)
		kbRows = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return catalogRows, kbRows, nil
}

func loadSource(ctx context.Context, name string, src RowSource) ([]links.Row, error) {
	ctx = logging.WithSource(ctx, name)
	rows, err := src.Rows(ctx)
	if err != nil {
		if !errors.IsSourceUnavailable(err) {
			err = errors.NewSourceUnavailableError(name, "", err)
		}
		return nil, err
	}
	logging.FromContext(ctx).Debug().Int("rows", len(rows)).Msg("Loaded source")
	return rows, nil
}

// remote returns the configured remote, connecting on demand.
func (s *Syncer) remote(ctx context.Context) (writeback.Remote, error) {
	if s.config.remote != nil {
		return s.config.remote, nil
	}
	return s.config.connect(ctx)
}

func (s *Syncer) write(ctx context.Context, remote writeback.Remote, batch *queue.Batch) ([]writeback.Outcome, error) {
	opts := []writeback.Option{
		writeback.WithLogger(logging.FromContext(ctx)),
		writeback.WithMetrics(s.config.metrics),
		writeback.WithClock(s.config.now),
		writeback.WithObserver(s.hooks.outcome),
	}
	if s.config.throttle != nil {
		opts = append(opts, writeback.WithThrottle(s.config.throttle))
	}

	executor, err := writeback.New(remote, s.config.write, opts...)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, batch), nil
}
