// Package git wraps the git operations gpush performs on the working repository.
package git

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samzong/gpush/internal/gitcmd"
	"github.com/samzong/gpush/internal/gitutil"
)

// Options configures a Client. Zero values run git in the current directory
// attached to the process's standard streams.
type Options struct {
	Dir    string
	Env    []string
	Logger *log.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Client runs git subcommands through a gitcmd.Runner.
type Client struct {
	runner gitcmd.Runner
}

func NewClient(opts Options) *Client {
	return &Client{runner: gitcmd.Runner{
		Dir:    opts.Dir,
		Env:    opts.Env,
		Logger: opts.Logger,
		Stdin:  opts.Stdin,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	}}
}

func AddAllArgs() []string {
	return []string{"add", "-A"}
}

func CommitAllArgs(message string) []string {
	return []string{"commit", "-am", message}
}

func PushArgs(remote, branch string) []string {
	return []string{"push", "-u", remote, branch}
}

func StatusArgs() []string {
	return []string{"status"}
}

// AddAll stages every change in the working tree.
func (c *Client) AddAll(ctx context.Context) error {
	if err := c.runner.RunStreaming(ctx, AddAllArgs()...); err != nil {
		return fmt.Errorf("git add failed: %w", err)
	}
	return nil
}

// CommitAll commits staged changes and all modified tracked files.
func (c *Client) CommitAll(ctx context.Context, message string) error {
	if err := c.runner.RunStreaming(ctx, CommitAllArgs(message)...); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}
	return nil
}

// Push pushes branch to remote and sets it as the upstream.
func (c *Client) Push(ctx context.Context, remote, branch string) error {
	if err := c.runner.RunStreaming(ctx, PushArgs(remote, branch)...); err != nil {
		return fmt.Errorf("git push failed: %w", err)
	}
	return nil
}

func (c *Client) Status(ctx context.Context) error {
	if err := c.runner.RunStreaming(ctx, StatusArgs()...); err != nil {
		return fmt.Errorf("git status failed: %w", err)
	}
	return nil
}

// LsRemote looks up refs/heads/<branch> on remote. found is false when the
// remote answered but has no such branch.
func (c *Client) LsRemote(ctx context.Context, remote, branch string) (hash string, found bool, err error) {
	res, err := c.runner.Run(ctx, "ls-remote", "--heads", remote, branch)
	if err != nil {
		return "", false, gitutil.WrapGitError("git ls-remote failed", res, err)
	}
	hash, found = parseLsRemote(res.StdoutString(false), branch)
	return hash, found, nil
}

// parseLsRemote picks the exact branch ref out of ls-remote output; git
// matches the pattern against ref suffixes, so "main" also lists "x/main".
func parseLsRemote(output, branch string) (string, bool) {
	want := "refs/heads/" + branch
	for _, line := range strings.Split(output, "\n") {
		hash, ref, ok := strings.Cut(strings.TrimSpace(line), "\t")
		if ok && ref == want {
			return hash, true
		}
	}
	return "", false
}
