package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samzong/gpush/internal/config"
	"github.com/samzong/gpush/internal/gitutil"
	"github.com/spf13/cobra"
)

var (
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Interactively configure remote, branch and default message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			if err := runInitWizard(cmd.InOrStdin(), outWriter(), cfg); err != nil {
				return err
			}
			fmt.Fprintln(outWriter(), "Initialization complete.")
			return nil
		},
	}

	saveConfigValues = func(cfg *config.Config) error {
		config.SetConfigValue(config.KeyRemote, cfg.Remote)
		config.SetConfigValue(config.KeyBranch, cfg.Branch)
		config.SetConfigValue(config.KeyDefaultMessage, cfg.DefaultMessage)
		return config.SaveConfig()
	}
)

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInitWizard(in io.Reader, out io.Writer, current *config.Config) error {
	readLine := newTrimmedLineReader(in)
	fmt.Fprintln(out, "gpush init - configure where and how changes are pushed")

	updated := *current
	var err error

	if updated.Remote, err = promptValue(out, readLine, "Remote", current.Remote, gitutil.ValidateRemoteName); err != nil {
		return err
	}
	if updated.Branch, err = promptValue(out, readLine, "Branch", current.Branch, gitutil.ValidateBranchName); err != nil {
		return err
	}
	if updated.DefaultMessage, err = promptValue(out, readLine, "Default commit message", current.DefaultMessage, nil); err != nil {
		return err
	}

	if err := saveConfigValues(&updated); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

func newTrimmedLineReader(in io.Reader) func() (string, error) {
	reader := bufio.NewReader(in)
	return func() (string, error) {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if errors.Is(err, io.EOF) && line == "" {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// promptValue asks until the answer validates. A blank answer keeps current.
func promptValue(
	out io.Writer, readLine func() (string, error), label, current string, validate func(string) error,
) (string, error) {
	for {
		fmt.Fprintf(out, "%s (default: %s): ", label, current)

		line, err := readLine()
		if errors.Is(err, io.EOF) {
			return current, nil
		}
		if err != nil {
			return "", err
		}
		if line == "" {
			return current, nil
		}
		if validate != nil {
			if err := validate(line); err != nil {
				fmt.Fprintf(out, "Invalid value: %v\n", err)
				continue
			}
		}
		return line, nil
	}
}
