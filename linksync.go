// Package linksync finds catalog links missing from a knowledge base and
// writes them back.
//
// A Syncer loads link rows from a catalog source and a knowledge-base
// source, normalizes both sides into comparable records, computes the
// catalog links the knowledge base lacks, caps them into a batch and, unless
// running dry, writes each one back through a throttled executor:
//
//	s, err := linksync.New(
//		linksync.WithCatalogSource(catalog.NewScanner(dir)),
//		linksync.WithKnowledgeBaseSource(sparql.NewSource(client, "")),
//		linksync.WithRemote(wikibaseClient),
//	)
//	report, err := s.Run(ctx, linksync.RunOptions{})
package linksync

import (
	"context"
	"fmt"

	"github.com/agentstation/linksync/pkg/errors"
	"github.com/agentstation/linksync/pkg/links"
	"github.com/agentstation/linksync/pkg/writeback"
)

// RowSource produces the raw rows of one side of the reconciliation.
type RowSource interface {
	Rows(ctx context.Context) ([]links.Row, error)
}

// RowSourceFunc adapts a function to RowSource.
type RowSourceFunc func(ctx context.Context) ([]links.Row, error)

// Rows implements RowSource.
func (f RowSourceFunc) Rows(ctx context.Context) ([]links.Row, error) {
	return f(ctx)
}

// RemoteFunc returns a ready remote, typically logging in first.
type RemoteFunc func(ctx context.Context) (writeback.Remote, error)

// Syncer runs reconciliation and write-back. Runs are independent; nothing
// is kept between them.
type Syncer struct {
	config *config
	hooks  *hooks
}

// New creates a Syncer. Both sources are required; the remote is optional
// and without it every run reports candidates only.
func New(opts ...Option) (*Syncer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	if cfg.catalog == nil {
		return nil, errors.NewValidationError("catalog", nil, "a catalog source is required")
	}
	if cfg.knowledgeBase == nil {
		return nil, errors.NewValidationError("knowledge_base", nil, "a knowledge-base source is required")
	}

	return &Syncer{config: cfg, hooks: newHooks()}, nil
}

// CanWrite reports whether a remote is configured.
func (s *Syncer) CanWrite() bool {
	return s.config.remote != nil || s.config.connect != nil
}

// BatchLimit returns the cap applied to each run's batch.
func (s *Syncer) BatchLimit() int {
	return s.config.batchLimit
}
