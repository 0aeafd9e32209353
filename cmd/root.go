package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/samzong/gpush/internal/config"
	"github.com/samzong/gpush/internal/git"
	"github.com/samzong/gpush/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	remote        string
	branch        string
	message       string
	autoYes       bool
	dryRun        bool
	stopOnFailure bool
	verbose       bool
	configErr     error
	rootCtx       = context.Background()
	rootCmd       = &cobra.Command{
		Use:   "gpush",
		Short: "gpush - stage, commit and push in one step",
		Long: `gpush stages every change, commits it with a default or typed message, ` +
			`pushes to origin/main and prints git status.`,
		Args:    cobra.NoArgs,
		Version: fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			return runCommitFlow(cmd)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	newGitClient = func(opts git.Options) workflow.GitClient {
		return git.NewClient(opts)
	}
)

// SetContext sets the context commands run with; main passes a signal-aware one.
func SetContext(ctx context.Context) {
	rootCtx = ctx
}

func Execute() error {
	return rootCmd.ExecuteContext(rootCtx)
}

// RootCmd exposes the command tree for documentation generation.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Configuration file path (default is $XDG_CONFIG_HOME/gpush/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Log git commands and ignored failures")

	rootCmd.Flags().StringVar(&remote, "remote", config.DefaultRemote, "Remote to push to")
	rootCmd.Flags().StringVar(&branch, "branch", config.DefaultBranch, "Branch to push")
	rootCmd.Flags().StringVarP(&message, "message", "m", "", "Commit message; skips the prompt")
	rootCmd.Flags().BoolVarP(&autoYes, "yes", "y", false, "Use the default message without prompting")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the git commands instead of running them")
	rootCmd.Flags().BoolVar(&stopOnFailure, "stop-on-failure", false, "Stop at the first failing git command")
	rootCmd.MarkFlagsMutuallyExclusive("message", "yes")
}

func initConfig() {
	configErr = config.InitConfig(cfgFile)
}

// effectiveConfig layers explicitly set flags over the loaded configuration.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}

	// Read through the flag set: root and check bind --remote and --branch
	// to different variables.
	flags := cmd.Flags()
	for name, dst := range map[string]*string{"remote": &cfg.Remote, "branch": &cfg.Branch} {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}
	for name, dst := range map[string]*bool{"stop-on-failure": &cfg.StopOnFailure, "verbose": &cfg.Verbose} {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetBool(name); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(errWriter(), log.Options{Prefix: "gpush", Level: level})
}

func runCommitFlow(cmd *cobra.Command) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Verbose)

	client := newGitClient(git.Options{
		Logger: logger,
		Stdout: outWriter(),
		Stderr: errWriter(),
	})

	flow := workflow.NewCommitFlow(client, workflow.CommitOptions{
		Remote:         cfg.Remote,
		Branch:         cfg.Branch,
		DefaultMessage: cfg.DefaultMessage,
		Message:        message,
		MessageSet:     cmd.Flags().Changed("message"),
		AutoYes:        autoYes,
		DryRun:         dryRun,
		StopOnFailure:  cfg.StopOnFailure,
		OutWriter:      outWriter(),
		Logger:         logger,
	})
	flow.SetPrompter(&workflow.InteractivePrompter{Stdin: cmd.InOrStdin(), Out: outWriter()})

	report, err := flow.Run(cmd.Context())
	if err != nil {
		return err
	}
	logger.Debug("run finished", "message", report.Message, "failed", len(report.Failed()))
	return nil
}
