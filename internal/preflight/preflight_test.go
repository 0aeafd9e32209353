package preflight

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	hash  string
	found bool
	err   error
	calls int
}

func (p *fakeProber) LsRemote(context.Context, string, string) (string, bool, error) {
	p.calls++
	return p.hash, p.found, p.err
}

func lookPathOK(string) (string, error) { return "/usr/bin/git", nil }

func initRepo(t *testing.T, withRemote bool) (string, *gogit.Repository) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	require.NoError(t, err)

	if withRemote {
		_, err = repo.CreateRemote(&config.RemoteConfig{
			Name: "origin",
			URLs: []string{"https://example.com/acme/widgets.git"},
		})
		require.NoError(t, err)
	}
	return dir, repo
}

func commitFile(t *testing.T, dir string, repo *gogit.Repository) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("Initial Commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func checkByName(t *testing.T, r *Report, name string) Check {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not in report: %+v", name, r.Checks)
	return Check{}
}

func run(t *testing.T, opts Options) *Report {
	t.Helper()
	if opts.LookPath == nil {
		opts.LookPath = lookPathOK
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.Branch == "" {
		opts.Branch = "main"
	}
	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	return report
}

func TestRun_HealthyRepository(t *testing.T) {
	dir, repo := initRepo(t, true)
	commitFile(t, dir, repo)

	prober := &fakeProber{hash: "0123456789abcdef", found: true}
	report := run(t, Options{Dir: dir, Prober: prober})

	require.NoError(t, report.Err())
	assert.Equal(t, StatusOK, checkByName(t, report, "git").Status)
	assert.Equal(t, StatusOK, checkByName(t, report, "repository").Status)
	assert.Equal(t, "origin -> https://example.com/acme/widgets.git", checkByName(t, report, "remote").Detail)
	assert.Equal(t, StatusOK, checkByName(t, report, "branch").Status)

	reach := checkByName(t, report, "reachable")
	assert.Equal(t, StatusOK, reach.Status)
	assert.Equal(t, "origin/main at 0123456", reach.Detail)
	assert.Equal(t, 1, prober.calls)
}

func TestRun_MissingGitBinary(t *testing.T) {
	dir, repo := initRepo(t, true)
	commitFile(t, dir, repo)

	report := run(t, Options{
		Dir:      dir,
		Offline:  true,
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
	})

	assert.Equal(t, StatusFail, checkByName(t, report, "git").Status)
	assert.ErrorIs(t, report.Err(), ErrChecksFailed)
}

func TestRun_NotARepository(t *testing.T) {
	report := run(t, Options{Dir: t.TempDir(), Offline: true})

	assert.Equal(t, StatusFail, checkByName(t, report, "repository").Status)
	assert.Len(t, report.Checks, 2)
	assert.ErrorIs(t, report.Err(), ErrChecksFailed)
}

func TestRun_MissingRemoteSkipsProbe(t *testing.T) {
	dir, repo := initRepo(t, false)
	commitFile(t, dir, repo)

	prober := &fakeProber{}
	report := run(t, Options{Dir: dir, Prober: prober})

	remote := checkByName(t, report, "remote")
	assert.Equal(t, StatusFail, remote.Status)
	assert.Contains(t, remote.Detail, `"origin" is not configured`)
	assert.Zero(t, prober.calls)

	err := report.Err()
	assert.ErrorIs(t, err, ErrChecksFailed)
	assert.Contains(t, err.Error(), "remote")
}

func TestRun_UnbornBranchWarns(t *testing.T) {
	dir, _ := initRepo(t, true)

	report := run(t, Options{Dir: dir, Offline: true})

	branch := checkByName(t, report, "branch")
	assert.Equal(t, StatusWarn, branch.Status)
	assert.Contains(t, branch.Detail, "no commits yet")
	assert.NoError(t, report.Err())
}

func TestRun_OtherBranchWarns(t *testing.T) {
	dir, repo := initRepo(t, true)
	commitFile(t, dir, repo)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("feature"),
		Create: true,
	}))

	report := run(t, Options{Dir: dir, Offline: true})

	branch := checkByName(t, report, "branch")
	assert.Equal(t, StatusWarn, branch.Status)
	assert.Equal(t, "on feature; push sends main, not the current branch", branch.Detail)
	assert.NoError(t, report.Err())
}

func TestRun_MissingBranchFails(t *testing.T) {
	dir, repo := initRepo(t, true)
	commitFile(t, dir, repo)

	report := run(t, Options{Dir: dir, Branch: "trunk", Offline: true})

	branch := checkByName(t, report, "branch")
	assert.Equal(t, StatusFail, branch.Status)
	assert.Contains(t, branch.Detail, `"trunk" does not exist`)
}

func TestRun_RemoteBranchMissingWarns(t *testing.T) {
	dir, repo := initRepo(t, true)
	commitFile(t, dir, repo)

	report := run(t, Options{Dir: dir, Prober: &fakeProber{found: false}})

	reach := checkByName(t, report, "reachable")
	assert.Equal(t, StatusWarn, reach.Status)
	assert.NoError(t, report.Err())
}

func TestRun_UnreachableRemoteFails(t *testing.T) {
	dir, repo := initRepo(t, true)
	commitFile(t, dir, repo)

	report := run(t, Options{Dir: dir, Prober: &fakeProber{err: errors.New("could not resolve host")}})

	reach := checkByName(t, report, "reachable")
	assert.Equal(t, StatusFail, reach.Status)
	assert.Equal(t, "could not resolve host", reach.Detail)
	assert.ErrorIs(t, report.Err(), ErrChecksFailed)
}

func TestRun_OfflineSkipsProbe(t *testing.T) {
	dir, repo := initRepo(t, true)
	commitFile(t, dir, repo)

	prober := &fakeProber{}
	report := run(t, Options{Dir: dir, Prober: prober, Offline: true})

	assert.Zero(t, prober.calls)
	for _, c := range report.Checks {
		assert.NotEqual(t, "reachable", c.Name)
	}
}

func TestRun_DetectsRepositoryFromSubdirectory(t *testing.T) {
	dir, repo := initRepo(t, true)
	commitFile(t, dir, repo)

	sub := filepath.Join(dir, "pkg", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	report := run(t, Options{Dir: sub, Offline: true})
	assert.Equal(t, StatusOK, checkByName(t, report, "repository").Status)
}

func TestReportPrint(t *testing.T) {
	r := &Report{}
	r.add("git", StatusOK, "/usr/bin/git")
	r.add("remote", StatusFail, "remote %q is not configured", "origin")

	var buf bytes.Buffer
	r.Print(&buf)

	assert.Contains(t, buf.String(), "[ok]")
	assert.Contains(t, buf.String(), "/usr/bin/git")
	assert.Contains(t, buf.String(), `[fail]  remote  remote "origin" is not configured`)
}
