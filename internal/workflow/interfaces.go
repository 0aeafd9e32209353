// Package workflow provides the stage/commit/push orchestration.
package workflow

import "context"

// GitClient abstracts the git operations CommitFlow runs, for testability.
type GitClient interface {
	AddAll(ctx context.Context) error
	CommitAll(ctx context.Context, message string) error
	Push(ctx context.Context, remote, branch string) error
	Status(ctx context.Context) error
}

// Prompter decides the commit message, usually by asking the operator.
type Prompter interface {
	ChooseMessage(ctx context.Context, defaultMessage string) (message string, custom bool, err error)
}
