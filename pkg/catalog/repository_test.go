package catalog

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/linksync/pkg/constants"
	"github.com/agentstation/linksync/pkg/errors"
)

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	base := []string{"-c", "user.name=linksync", "-c", "user.email=linksync@example.org", "-c", "commit.gpgsign=false"}
	cmd := exec.Command("git", append(base, args...)...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

// upstream creates a local repository with one works document.
func upstream(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	works := filepath.Join(dir, "app", "json", "works")
	require.NoError(t, os.MkdirAll(works, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(works, "1.json"), []byte(`{"id": 1}`), 0o600))

	runGit(t, dir, "init", "--quiet")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "--quiet", "-m", "initial")
	return dir
}

func TestRepositoryEnsure(t *testing.T) {
	src := upstream(t)
	repo := NewRepository("file://"+src, filepath.Join(t.TempDir(), "checkout"))
	ctx := context.Background()

	assert.False(t, repo.Exists())
	require.NoError(t, repo.Ensure(ctx))
	assert.True(t, repo.Exists())
	assert.FileExists(t, filepath.Join(repo.WorksDir(), "1.json"))

	// local edits are discarded and new upstream documents arrive on update
	require.NoError(t, os.WriteFile(filepath.Join(repo.WorksDir(), "1.json"), []byte(`garbage`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "app", "json", "works", "2.json"), []byte(`{"id": 2}`), 0o600))
	runGit(t, src, "add", ".")
	runGit(t, src, "commit", "--quiet", "-m", "second")

	require.NoError(t, repo.Ensure(ctx))
	data, err := os.ReadFile(filepath.Join(repo.WorksDir(), "1.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 1}`, string(data))
	assert.FileExists(t, filepath.Join(repo.WorksDir(), "2.json"))
}

func TestRepositoryEnsureBranch(t *testing.T) {
	src := upstream(t)
	runGit(t, src, "checkout", "--quiet", "-b", "release")
	require.NoError(t, os.WriteFile(filepath.Join(src, "app", "json", "works", "3.json"), []byte(`{"id": 3}`), 0o600))
	runGit(t, src, "add", ".")
	runGit(t, src, "commit", "--quiet", "-m", "release only")
	runGit(t, src, "checkout", "--quiet", "-")

	repo := NewRepository("file://"+src, filepath.Join(t.TempDir(), "checkout"))
	repo.Branch = "release"
	require.NoError(t, repo.Ensure(context.Background()))
	assert.FileExists(t, filepath.Join(repo.WorksDir(), "3.json"))

	other := NewRepository("file://"+src, filepath.Join(t.TempDir(), "checkout"))
	require.NoError(t, other.Ensure(context.Background()))
	assert.NoFileExists(t, filepath.Join(other.WorksDir(), "3.json"))
}

func TestRepositoryEnsureFailure(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	repo := NewRepository("file://"+filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "checkout"))

	err := repo.Ensure(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))

	var procErr *errors.ProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "git clone", procErr.Command)
}

func TestNewRepositoryDefaults(t *testing.T) {
	repo := NewRepository("", "")
	assert.Equal(t, constants.DefaultCatalogRepoURL, repo.URL)
	assert.Equal(t, constants.DefaultCatalogCheckout, repo.Path)
	assert.Equal(t, constants.DefaultWorksDir, repo.WorksDir())
}
