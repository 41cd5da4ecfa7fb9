// Package sync provides the sync command, one full reconcile and
// write-back run.
package sync

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/linksync"
	"github.com/agentstation/linksync/internal/appcontext"
	"github.com/agentstation/linksync/internal/cmd/output"
	"github.com/agentstation/linksync/pkg/constants"
)

// Flags holds the sync command flags.
type Flags struct {
	DryRun      bool
	Limit       int
	WorksDir    string
	Clone       bool
	Branch      string
	Credentials string
	Interval    time.Duration
	MetricsFile string
}

// NewCommand creates the sync command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Reconcile the sources and write missing links back",
		Args:    cobra.NoArgs,
		Long: `Sync loads the catalog works and the knowledge-base links, computes the
links that exist only in the catalog and writes up to --limit of them back,
one claim per item, at most one edit per --interval.

Without usable credentials the candidates are still computed and shown,
and the command exits with an error.`,
		Example: `  linksync sync --dry-run                 # Show the batch without writing
  linksync sync --clone --limit 50        # Update the checkout, write 50 links
  linksync sync --limit 0 -o json         # Write every candidate, JSON report`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := Apply(cmd, app.Settings(), flags)
			return Execute(cmd, app, settings, flags.DryRun)
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "compute and show the batch without writing")
	cmd.Flags().IntVar(&flags.Limit, "limit", constants.DefaultBatchLimit, "maximum write-backs per run, 0 for no limit")
	cmd.Flags().StringVar(&flags.WorksDir, "works-dir", constants.DefaultWorksDir, "catalog works document directory")
	cmd.Flags().BoolVar(&flags.Clone, "clone", false, "clone or update the catalog repository first")
	cmd.Flags().StringVar(&flags.Branch, "branch", "", "catalog branch to clone and pull with --clone")
	cmd.Flags().StringVar(&flags.Credentials, "credentials", constants.DefaultCredentialsFile, "bot login file (JSON or YAML)")
	cmd.Flags().DurationVar(&flags.Interval, "interval", constants.DefaultWriteInterval, "minimum time between two edits")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "write run metrics to this file")

	return cmd
}

// Apply overrides s with every flag set on the command line.
func Apply(cmd *cobra.Command, s appcontext.Settings, flags *Flags) appcontext.Settings {
	changed := cmd.Flags().Changed
	if changed("limit") {
		s.BatchLimit = flags.Limit
	}
	if changed("works-dir") {
		s.WorksDir = flags.WorksDir
	}
	if changed("clone") {
		s.Clone = flags.Clone
	}
	if changed("branch") {
		s.Branch = flags.Branch
	}
	if changed("credentials") {
		s.CredentialsFile = flags.Credentials
	}
	if changed("interval") {
		s.Interval = flags.Interval
	}
	if changed("metrics-file") {
		s.MetricsFile = flags.MetricsFile
	}
	s.Write = !flags.DryRun
	return s
}

// Execute runs one sync and renders the report. A login failure disables
// the write phase but not the run; it is returned after the candidates are
// shown, joined with any write-back failures.
func Execute(cmd *cobra.Command, app appcontext.Interface, s appcontext.Settings, dryRun bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	syncer, err := app.Syncer(ctx, s)
	if err != nil {
		return err
	}

	report, err := syncer.Run(ctx, linksync.RunOptions{DryRun: dryRun})
	if err != nil {
		return err
	}

	view := output.ViewReport
	if dryRun || report.WriteErr() != nil {
		view = output.ViewBatch
	}
	if err := output.FormatReport(cmd.OutOrStdout(), format, view, report); err != nil {
		return err
	}
	if format.IsTable() {
		cmd.PrintErrln(output.Summary(report))
	}

	return report.Err()
}
