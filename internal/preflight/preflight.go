// Package preflight checks the repository preconditions the commit flow
// relies on but never verifies itself.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"text/tabwriter"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/samzong/gpush/internal/git"
	"github.com/samzong/gpush/internal/ui"
)

var ErrChecksFailed = errors.New("preflight checks failed")

type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

type Check struct {
	Name   string
	Status Status
	Detail string
}

type Report struct {
	Checks []Check
}

func (r *Report) add(name string, status Status, format string, args ...any) {
	r.Checks = append(r.Checks, Check{Name: name, Status: status, Detail: fmt.Sprintf(format, args...)})
}

// Err returns ErrChecksFailed when any check failed. Warnings pass.
func (r *Report) Err() error {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return fmt.Errorf("%w: %s: %s", ErrChecksFailed, c.Name, c.Detail)
		}
	}
	return nil
}

func (r *Report) Print(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range r.Checks {
		fmt.Fprintf(tw, "[%s]\t%s\t%s\n", c.Status, c.Name, c.Detail)
	}
	tw.Flush()
}

// RemoteProber asks a remote for a branch head.
type RemoteProber interface {
	LsRemote(ctx context.Context, remote, branch string) (hash string, found bool, err error)
}

type Options struct {
	Dir     string
	Remote  string
	Branch  string
	Offline bool

	Prober   RemoteProber
	LookPath func(file string) (string, error)
	// SpinnerOut receives the wait indicator while the remote is probed.
	SpinnerOut io.Writer
}

func (o Options) withDefaults() (Options, error) {
	if o.Dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return o, fmt.Errorf("failed to get working directory: %w", err)
		}
		o.Dir = wd
	}
	if o.Prober == nil {
		o.Prober = git.NewClient(git.Options{Dir: o.Dir})
	}
	if o.LookPath == nil {
		o.LookPath = exec.LookPath
	}
	if o.SpinnerOut == nil {
		o.SpinnerOut = io.Discard
	}
	return o, nil
}

func Run(ctx context.Context, opts Options) (*Report, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	report := &Report{}

	if path, err := opts.LookPath("git"); err != nil {
		report.add("git", StatusFail, "git executable not found on PATH")
	} else {
		report.add("git", StatusOK, "%s", path)
	}

	repo, ok := checkRepository(report, opts.Dir)
	if !ok {
		return report, nil
	}

	remoteOK := checkRemote(report, repo, opts.Remote)
	checkBranch(report, repo, opts.Branch)

	if opts.Offline || !remoteOK {
		return report, nil
	}
	probeRemote(ctx, report, opts)
	return report, nil
}

func checkRepository(report *Report, dir string) (*gogit.Repository, bool) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		report.add("repository", StatusFail, "not a git repository: %v", err)
		return nil, false
	}

	wt, err := repo.Worktree()
	if err != nil {
		report.add("repository", StatusFail, "no working tree: %v", err)
		return nil, false
	}

	report.add("repository", StatusOK, "%s", wt.Filesystem.Root())
	return repo, true
}

func checkRemote(report *Report, repo *gogit.Repository, name string) bool {
	remote, err := repo.Remote(name)
	if errors.Is(err, gogit.ErrRemoteNotFound) {
		report.add("remote", StatusFail, "remote %q is not configured", name)
		return false
	}
	if err != nil {
		report.add("remote", StatusFail, "failed to read remote %q: %v", name, err)
		return false
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		report.add("remote", StatusFail, "remote %q has no URL", name)
		return false
	}
	report.add("remote", StatusOK, "%s -> %s", name, urls[0])
	return true
}

func checkBranch(report *Report, repo *gogit.Repository, branch string) {
	want := plumbing.NewBranchReferenceName(branch)

	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		report.add("branch", StatusFail, "failed to read HEAD: %v", err)
		return
	}

	if _, err := repo.Reference(want, true); err != nil {
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			report.add("branch", StatusFail, "failed to read branch %q: %v", branch, err)
			return
		}
		// An unborn HEAD on the branch gets it created by the first commit.
		if head.Type() == plumbing.SymbolicReference && head.Target() == want {
			report.add("branch", StatusWarn, "%s has no commits yet; the first commit creates it", branch)
			return
		}
		report.add("branch", StatusFail, "local branch %q does not exist", branch)
		return
	}

	switch {
	case head.Type() != plumbing.SymbolicReference:
		report.add("branch", StatusWarn, "HEAD is detached; push sends %s, not the checked out commit", branch)
	case head.Target() != want:
		report.add("branch", StatusWarn, "on %s; push sends %s, not the current branch",
			head.Target().Short(), branch)
	default:
		report.add("branch", StatusOK, "on %s", branch)
	}
}

func probeRemote(ctx context.Context, report *Report, opts Options) {
	sp := ui.NewSpinner(opts.SpinnerOut, fmt.Sprintf("Contacting %s...", opts.Remote))
	sp.Start()
	hash, found, err := opts.Prober.LsRemote(ctx, opts.Remote, opts.Branch)
	sp.Stop()

	switch {
	case err != nil:
		report.add("reachable", StatusFail, "%v", err)
	case !found:
		report.add("reachable", StatusWarn, "%s has no branch %s yet; push creates it", opts.Remote, opts.Branch)
	default:
		report.add("reachable", StatusOK, "%s/%s at %s", opts.Remote, opts.Branch, shortHash(hash))
	}
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
