// Package appcontext provides the application context interface shared by
// the linksync commands, so command packages do not depend on the concrete
// App and can be tested against a Mock.
package appcontext

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/linksync"
)

// Settings are the per-run sources and write policy. Commands start from
// App.Settings and override what their flags change.
type Settings struct {
	// WorksDir is the catalog works document directory.
	WorksDir string
	// Clone updates the catalog checkout before scanning it, in which case
	// the works directory inside the checkout is scanned.
	Clone    bool
	RepoURL  string
	Checkout string
	// Branch is cloned and pulled instead of the upstream default.
	Branch string

	// Write enables the write phase. Without it the syncer has no remote.
	Write           bool
	CredentialsFile string
	BatchLimit      int
	Interval        time.Duration

	// MetricsFile receives the run metrics in the textfile exposition format.
	MetricsFile string
}

// Interface defines what commands need from the application.
type Interface interface {
	// Settings returns a copy of the configured run settings.
	Settings() Settings

	// Syncer builds a syncer for s. With s.Write the syncer logs in to the
	// remote once a run has candidates; a login failure is kept in the run
	// report and satisfies errors.IsCredentialsMissing or
	// errors.IsAuthentication.
	Syncer(ctx context.Context, s Settings) (*linksync.Syncer, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
