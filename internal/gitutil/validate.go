package gitutil

import (
	"errors"
	"fmt"
	"strings"
)

var invalidRefChars = []string{" ", "~", "^", ":", "?", "*", "[", "\\"}

// ValidateBranchName validates a git branch name for common illegal patterns.
func ValidateBranchName(name string) error {
	if name == "" {
		return errors.New("branch name cannot be empty")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("branch name cannot start with '-': %s", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("branch name cannot contain '..': %s", name)
	}
	for _, suffix := range []string{".lock", "/", "."} {
		if strings.HasSuffix(name, suffix) {
			return fmt.Errorf("branch name cannot end with %q: %s", suffix, name)
		}
	}
	for _, ch := range invalidRefChars {
		if strings.Contains(name, ch) {
			return fmt.Errorf("branch name contains invalid character %q: %s", ch, name)
		}
	}
	return nil
}

// ValidateRemoteName rejects remote names git would parse as an option or a
// refspec.
func ValidateRemoteName(name string) error {
	if name == "" {
		return errors.New("remote name cannot be empty")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("remote name cannot start with '-': %s", name)
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("remote name cannot contain whitespace: %q", name)
	}
	return nil
}
