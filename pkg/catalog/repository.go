package catalog

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/agentstation/linksync/pkg/constants"
	"github.com/agentstation/linksync/pkg/errors"
	"github.com/agentstation/linksync/pkg/logging"
)

// Repository is a shallow git checkout of the catalog documents.
type Repository struct {
	URL  string
	Path string
	// Branch is pulled on update. Empty follows the checkout's upstream.
	Branch string
}

// NewRepository creates a repository with the standard URL and checkout path
// for any empty argument.
func NewRepository(url, path string) *Repository {
	if url == "" {
		url = constants.DefaultCatalogRepoURL
	}
	if path == "" {
		path = constants.DefaultCatalogCheckout
	}
	return &Repository{URL: url, Path: path}
}

// WorksDir returns the works document directory inside the checkout.
func (r *Repository) WorksDir() string {
	return filepath.Join(r.Path, "app", "json", "works")
}

// Exists reports whether the checkout is present.
func (r *Repository) Exists() bool {
	_, err := os.Stat(filepath.Join(r.Path, ".git"))
	return err == nil
}

// Ensure clones the repository, or discards local changes and pulls when a
// checkout already exists.
func (r *Repository) Ensure(ctx context.Context) error {
	logger := logging.FromContext(ctx).With().Str("repo", r.URL).Str("path", r.Path).Logger()

	var err error
	if r.Exists() {
		logger.Info().Msg("Updating catalog checkout")
		err = r.update(ctx)
	} else {
		logger.Info().Msg("Cloning catalog repository")
		err = r.clone(ctx)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Catalog checkout failed")
		return errors.NewSourceUnavailableError(constants.SourceCatalog, r.URL, err)
	}
	return nil
}

func (r *Repository) clone(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(r.Path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", "parent directory", err)
	}

	args := []string{"clone", "--depth", "1"}
	if r.Branch != "" {
		args = append(args, "--branch", r.Branch)
	}
	args = append(args, r.URL, r.Path)
	return git(ctx, "", "clone repository", args...)
}

func (r *Repository) update(ctx context.Context) error {
	if err := git(ctx, r.Path, "reset repository", "reset", "--hard", "HEAD"); err != nil {
		return err
	}
	args := []string{"pull", "--ff-only"}
	if r.Branch != "" {
		args = append(args, "origin", r.Branch)
	}
	return git(ctx, r.Path, "pull latest changes", args...)
}

func git(ctx context.Context, dir, operation string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...) //nolint:gosec // arguments are built from configuration
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		return &errors.ProcessError{
			Operation: operation,
			Command:   "git " + args[0],
			Output:    string(output),
			Err:       err,
		}
	}
	return nil
}
