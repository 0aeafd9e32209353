package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolatedEnv keeps tests away from the developer's git configuration.
func isolatedEnv(home string) []string {
	return []string{
		"HOME=" + home,
		"XDG_CONFIG_HOME=" + filepath.Join(home, ".config"),
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_AUTHOR_NAME=Test",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test",
		"GIT_COMMITTER_EMAIL=test@test.com",
		"GIT_TERMINAL_PROMPT=0",
	}
}

type testRepo struct {
	Dir    string
	Remote string
	Env    []string
}

// newTestRepo creates a working repository on branch main with a bare
// remote registered as origin, both under t.TempDir().
func newTestRepo(t *testing.T) testRepo {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	root := t.TempDir()
	repo := testRepo{
		Dir:    filepath.Join(root, "work"),
		Remote: filepath.Join(root, "remote.git"),
		Env:    isolatedEnv(root),
	}
	require.NoError(t, os.MkdirAll(repo.Dir, 0o755))

	repo.git(t, root, "init", "--bare", repo.Remote)
	repo.git(t, repo.Dir, "init")
	repo.git(t, repo.Dir, "symbolic-ref", "HEAD", "refs/heads/main")
	repo.git(t, repo.Dir, "remote", "add", "origin", repo.Remote)
	return repo
}

func (r testRepo) git(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), r.Env...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

func (r testRepo) writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(r.Dir, name), []byte(content), 0o644))
}
