package linksync

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/linksync/pkg/constants"
	"github.com/agentstation/linksync/pkg/errors"
	"github.com/agentstation/linksync/pkg/links"
	"github.com/agentstation/linksync/pkg/metrics"
	"github.com/agentstation/linksync/pkg/writeback"
)

// Option is a function that configures a Syncer
type Option func(*config) error

type config struct {
	catalog             RowSource
	catalogFields       links.FieldMap
	knowledgeBase       RowSource
	knowledgeBaseFields links.FieldMap

	remote   writeback.Remote
	connect  RemoteFunc
	write    writeback.Config
	throttle writeback.Throttle

	batchLimit int
	logger     *zerolog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func defaultConfig() *config {
	fields := links.FieldMap{External: constants.ColumnExternalID, Local: constants.ColumnLocalID}
	return &config{
		catalogFields:       fields,
		knowledgeBaseFields: fields,
		write:               writeback.DefaultConfig(),
		batchLimit:          constants.DefaultBatchLimit,
		now:                 time.Now,
	}
}

// WithCatalogSource sets the source of catalog rows
func WithCatalogSource(src RowSource) Option {
	return func(c *config) error {
		c.catalog = src
		return nil
	}
}

// WithKnowledgeBaseSource sets the source of knowledge-base rows
func WithKnowledgeBaseSource(src RowSource) Option {
	return func(c *config) error {
		c.knowledgeBase = src
		return nil
	}
}

// WithCatalogFields names the catalog row columns holding each side of a link
func WithCatalogFields(fields links.FieldMap) Option {
	return func(c *config) error {
		if fields.External == "" || fields.Local == "" {
			return errors.NewValidationError("catalog_fields", fields, "both columns are required")
		}
		c.catalogFields = fields
		return nil
	}
}

// WithKnowledgeBaseFields names the knowledge-base row columns holding each side of a link
func WithKnowledgeBaseFields(fields links.FieldMap) Option {
	return func(c *config) error {
		if fields.External == "" || fields.Local == "" {
			return errors.NewValidationError("knowledge_base_fields", fields, "both columns are required")
		}
		c.knowledgeBaseFields = fields
		return nil
	}
}

// WithRemote enables the write phase against remote
func WithRemote(remote writeback.Remote) Option {
	return func(c *config) error {
		c.remote = remote
		return nil
	}
}

// WithRemoteFunc enables the write phase against the remote returned by
// connect. It is called only when a run has candidates to write, so a run
// with nothing to write never logs in.
func WithRemoteFunc(connect RemoteFunc) Option {
	return func(c *config) error {
		if connect == nil {
			return errors.NewValidationError("remote", nil, "connect function is required")
		}
		c.connect = connect
		return nil
	}
}

// WithWriteConfig sets the property, summary and spacing of write-backs
func WithWriteConfig(cfg writeback.Config) Option {
	return func(c *config) error {
		c.write = cfg
		return nil
	}
}

// WithThrottle replaces the interval throttle derived from the write config
func WithThrottle(t writeback.Throttle) Option {
	return func(c *config) error {
		c.throttle = t
		return nil
	}
}

// WithBatchLimit caps the number of candidates written per run.
// Zero means unlimited; negative values are rejected.
func WithBatchLimit(limit int) Option {
	return func(c *config) error {
		if limit < 0 {
			return errors.NewValidationError("batch_limit", limit, "must not be negative")
		}
		c.batchLimit = limit
		return nil
	}
}

// WithLogger sets the run logger. Without it the logger comes from the run context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics records run metrics on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) error {
		c.metrics = m
		return nil
	}
}

// WithClock sets the time source used for report and outcome timestamps
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		if now == nil {
			return errors.NewValidationError("clock", nil, "clock must not be nil")
		}
		c.now = now
		return nil
	}
}
