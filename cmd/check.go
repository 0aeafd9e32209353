package cmd

import (
	"fmt"
	"os/exec"

	"github.com/samzong/gpush/internal/git"
	"github.com/samzong/gpush/internal/preflight"
	"github.com/spf13/cobra"
)

var (
	checkOffline bool
	checkRemote  string
	checkBranch  string
	checkCmd     = &cobra.Command{
		Use:   "check",
		Short: "Verify the repository, remote and branch gpush will push to",
		Long: `Verify the preconditions gpush relies on: git on PATH, a working tree, ` +
			`the configured remote and branch, and (unless --offline) that the remote answers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			return runCheck(cmd)
		},
	}

	newRemoteProber = func(opts git.Options) preflight.RemoteProber {
		return git.NewClient(opts)
	}
	lookPath = exec.LookPath
)

func init() {
	checkCmd.Flags().BoolVar(&checkOffline, "offline", false, "Skip contacting the remote")
	checkCmd.Flags().StringVar(&checkRemote, "remote", "", "Remote to check (default from configuration)")
	checkCmd.Flags().StringVar(&checkBranch, "branch", "", "Branch to check (default from configuration)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Verbose)

	report, err := preflight.Run(cmd.Context(), preflight.Options{
		Remote:     cfg.Remote,
		Branch:     cfg.Branch,
		Offline:    checkOffline,
		Prober:     newRemoteProber(git.Options{Logger: logger}),
		LookPath:   lookPath,
		SpinnerOut: errWriter(),
	})
	if err != nil {
		return err
	}

	report.Print(outWriter())
	return report.Err()
}
