package gitutil

import (
	"fmt"
	"strings"

	"github.com/samzong/gpush/internal/gitcmd"
)

// WrapGitError builds an error message that prefers git stderr output when present.
func WrapGitError(action string, result gitcmd.Result, err error) error {
	errMsg := result.StderrString(true)
	if errMsg != "" {
		// git prints "fatal: " on every hard error; it adds nothing after the action.
		errMsg = strings.TrimPrefix(errMsg, "fatal: ")
		return fmt.Errorf("%s: %s: %w", action, errMsg, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
