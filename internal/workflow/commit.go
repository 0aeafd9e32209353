package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samzong/gpush/internal/git"
)

var ErrStepFailed = errors.New("step failed")

type Step string

const (
	StepAdd    Step = "add"
	StepCommit Step = "commit"
	StepPush   Step = "push"
	StepStatus Step = "status"
)

type StepResult struct {
	Step Step
	Args []string
	Err  error
}

// Report describes one run. Steps holds every step that was attempted, in order.
type Report struct {
	Message string
	Custom  bool
	Steps   []StepResult
}

// Failed returns the steps that exited with an error.
func (r *Report) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

type CommitOptions struct {
	Remote         string
	Branch         string
	DefaultMessage string

	// Message is used without prompting when MessageSet is true.
	Message    string
	MessageSet bool
	AutoYes    bool

	DryRun        bool
	StopOnFailure bool

	OutWriter io.Writer
	Logger    *log.Logger
}

// CommitFlow stages everything, commits with a default or typed message,
// pushes and prints status. Step failures are ignored unless StopOnFailure
// is set.
type CommitFlow struct {
	git      GitClient
	opts     CommitOptions
	prompter Prompter
}

func NewCommitFlow(gitClient GitClient, opts CommitOptions) *CommitFlow {
	if opts.OutWriter == nil {
		opts.OutWriter = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &CommitFlow{
		git:      gitClient,
		opts:     opts,
		prompter: &InteractivePrompter{Out: opts.OutWriter},
	}
}

func (f *CommitFlow) SetPrompter(p Prompter) {
	f.prompter = p
}

func (f *CommitFlow) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	if err := f.runStep(ctx, report, StepAdd, git.AddAllArgs(), f.git.AddAll); err != nil {
		return report, err
	}

	message, custom, err := f.chooseMessage(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to choose commit message: %w", err)
	}
	report.Message, report.Custom = message, custom

	commit := func(ctx context.Context) error { return f.git.CommitAll(ctx, message) }
	if err := f.runStep(ctx, report, StepCommit, git.CommitAllArgs(message), commit); err != nil {
		return report, err
	}

	push := func(ctx context.Context) error { return f.git.Push(ctx, f.opts.Remote, f.opts.Branch) }
	if err := f.runStep(ctx, report, StepPush, git.PushArgs(f.opts.Remote, f.opts.Branch), push); err != nil {
		return report, err
	}

	if err := f.runStep(ctx, report, StepStatus, git.StatusArgs(), f.git.Status); err != nil {
		return report, err
	}
	return report, nil
}

func (f *CommitFlow) chooseMessage(ctx context.Context) (string, bool, error) {
	switch {
	case f.opts.MessageSet:
		return f.opts.Message, true, nil
	case f.opts.AutoYes:
		fmt.Fprintln(f.opts.OutWriter, NoticeDefault)
		return f.opts.DefaultMessage, false, nil
	}
	return f.prompter.ChooseMessage(ctx, f.opts.DefaultMessage)
}

// runStep records the step and returns an error only when the run must
// stop: on cancellation, or on failure with StopOnFailure set.
func (f *CommitFlow) runStep(
	ctx context.Context, report *Report, step Step, args []string, run func(context.Context) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if f.opts.DryRun {
		fmt.Fprintf(f.opts.OutWriter, "Dry run: git %s\n", quoteArgs(args))
		report.Steps = append(report.Steps, StepResult{Step: step, Args: args})
		return nil
	}

	err := run(ctx)
	report.Steps = append(report.Steps, StepResult{Step: step, Args: args, Err: err})
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if f.opts.StopOnFailure {
		return fmt.Errorf("%w: %s: %w", ErrStepFailed, step, err)
	}
	f.opts.Logger.Debug("step failed, continuing", "step", step, "err", err)
	return nil
}

func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			a = strconv.Quote(a)
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}
