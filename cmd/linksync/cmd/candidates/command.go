// Package candidates provides the candidates command. It computes the
// batch a sync would write and never writes.
package candidates

import (
	"github.com/spf13/cobra"

	syncmd "github.com/agentstation/linksync/cmd/linksync/cmd/sync"
	"github.com/agentstation/linksync/internal/appcontext"
	"github.com/agentstation/linksync/pkg/constants"
)

// NewCommand creates the candidates command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &syncmd.Flags{DryRun: true}

	cmd := &cobra.Command{
		Use:     "candidates",
		Aliases: []string{"diff"},
		GroupID: "core",
		Short:   "List the links missing from the knowledge base",
		Args:    cobra.NoArgs,
		Long: `Candidates loads both sources and prints the capped, deduplicated batch
of catalog links that the knowledge base does not have yet. No credentials
are needed and nothing is written.`,
		Example: `  linksync candidates                     # First 10 candidates
  linksync candidates --limit 0 -o yaml   # Every candidate as YAML`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := syncmd.Apply(cmd, app.Settings(), flags)
			return syncmd.Execute(cmd, app, settings, true)
		},
	}

	cmd.Flags().IntVar(&flags.Limit, "limit", constants.DefaultBatchLimit, "maximum candidates to show, 0 for no limit")
	cmd.Flags().StringVar(&flags.WorksDir, "works-dir", constants.DefaultWorksDir, "catalog works document directory")
	cmd.Flags().BoolVar(&flags.Clone, "clone", false, "clone or update the catalog repository first")
	cmd.Flags().StringVar(&flags.Branch, "branch", "", "catalog branch to clone and pull with --clone")

	return cmd
}
