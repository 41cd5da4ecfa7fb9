// Package app provides the application context and dependency management
// for the linksync CLI. It centralizes configuration, logging, lazily built
// remote clients and lifecycle management.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/linksync"
	"github.com/agentstation/linksync/internal/appcontext"
	"github.com/agentstation/linksync/pkg/catalog"
	"github.com/agentstation/linksync/pkg/credentials"
	"github.com/agentstation/linksync/pkg/errors"
	"github.com/agentstation/linksync/pkg/links"
	"github.com/agentstation/linksync/pkg/metrics"
	"github.com/agentstation/linksync/pkg/sparql"
	"github.com/agentstation/linksync/pkg/wikibase"
	"github.com/agentstation/linksync/pkg/writeback"
)

// App represents the linksync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Lazily built dependencies
	mu          sync.RWMutex
	metrics     *metrics.Metrics
	metricsFile string
	sparql      *sparql.Client
	remote      writeback.Remote
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Output
}

// Settings returns the run settings from the configuration.
func (a *App) Settings() appcontext.Settings {
	return a.config.Settings()
}

// Metrics returns the run metrics, creating them lazily if needed.
func (a *App) Metrics() *metrics.Metrics {
	a.mu.RLock()
	if a.metrics != nil {
		m := a.metrics
		a.mu.RUnlock()
		return m
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.metrics == nil {
		a.metrics = metrics.New()
	}
	return a.metrics
}

// Syncer builds a syncer for s. The knowledge-base client is shared between
// calls. With s.Write the remote logs in on the first run that has
// candidates to write, and the session is reused after that.
func (a *App) Syncer(_ context.Context, s appcontext.Settings) (*linksync.Syncer, error) {
	kb, err := a.sparqlClient()
	if err != nil {
		return nil, err
	}

	opts := []linksync.Option{
		linksync.WithCatalogSource(catalogSource(s)),
		linksync.WithKnowledgeBaseSource(sparql.NewSource(kb, "")),
		linksync.WithBatchLimit(s.BatchLimit),
		linksync.WithWriteConfig(writeback.Config{
			Property: a.config.Property,
			Summary:  a.config.Summary,
			Interval: s.Interval,
		}),
		linksync.WithLogger(a.logger),
		linksync.WithMetrics(a.Metrics()),
	}

	if s.Write {
		credentialsFile := s.CredentialsFile
		opts = append(opts, linksync.WithRemoteFunc(func(ctx context.Context) (writeback.Remote, error) {
			return a.remoteFor(ctx, credentialsFile)
		}))
	}

	a.mu.Lock()
	a.metricsFile = s.MetricsFile
	a.mu.Unlock()

	return linksync.New(opts...)
}

// Shutdown performs graceful shutdown of the application. It flushes the
// run metrics when a metrics file was requested.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.RLock()
	m, path := a.metrics, a.metricsFile
	a.mu.RUnlock()

	if m == nil || path == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.WriteToTextfile(path); err != nil {
		return err
	}
	a.logger.Debug().Str("path", path).Msg("Wrote metrics")
	return nil
}

func (a *App) sparqlClient() (*sparql.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sparql != nil {
		return a.sparql, nil
	}
	c, err := sparql.NewClient(sparql.Config{
		Endpoint:  a.config.SPARQLEndpoint,
		UserAgent: a.config.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	a.sparql = c
	return c, nil
}

// remoteFor returns the logged-in remote. Only a successful login is kept.
func (a *App) remoteFor(ctx context.Context, credentialsFile string) (writeback.Remote, error) {
	a.mu.RLock()
	if a.remote != nil {
		r := a.remote
		a.mu.RUnlock()
		return r, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.remote != nil {
		return a.remote, nil
	}

	creds, err := credentials.Load(credentialsFile)
	if err != nil {
		return nil, err
	}
	client, err := wikibase.NewClient(wikibase.Config{
		APIURL:    a.config.WikibaseAPI,
		UserAgent: a.config.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	if err := client.Login(ctx, creds.User, creds.Password); err != nil {
		return nil, err
	}
	a.logger.Info().Str("user", client.User()).Msg("Logged in")

	a.remote = client
	return client, nil
}

// catalogSource scans s.WorksDir, or with s.Clone brings the checkout up
// to date first and scans its works directory.
func catalogSource(s appcontext.Settings) linksync.RowSource {
	if !s.Clone {
		return catalog.NewScanner(s.WorksDir)
	}

	repo := catalog.NewRepository(s.RepoURL, s.Checkout)
	repo.Branch = s.Branch
	scanner := catalog.NewScanner(repo.WorksDir())
	return linksync.RowSourceFunc(func(ctx context.Context) ([]links.Row, error) {
		if err := repo.Ensure(ctx); err != nil {
			return nil, err
		}
		return scanner.Rows(ctx)
	})
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "is required")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRemote sets a logged-in remote, skipping credential loading
// (useful for testing).
func WithRemote(remote writeback.Remote) Option {
	return func(a *App) error {
		a.remote = remote
		return nil
	}
}

// WithSPARQLClient sets the knowledge-base client (useful for testing).
func WithSPARQLClient(c *sparql.Client) Option {
	return func(a *App) error {
		a.sparql = c
		return nil
	}
}

// Ensure App implements the command context at compile time.
var _ appcontext.Interface = (*App)(nil)
