package cmd

import (
	"fmt"
	"strings"

	"github.com/samzong/gpush/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage gpush configuration",
	}

	configGetCmd = &cobra.Command{
		Use:   "get",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			printConfig(cfg)
			return nil
		},
	}

	configSetCmd = &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a configuration value",
		Long:      "Set a configuration value. Valid keys: " + strings.Join(config.Keys(), ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(_ *cobra.Command, args []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			value, err := config.ParseValue(args[0], args[1])
			if err != nil {
				return err
			}
			config.SetConfigValue(args[0], value)
			if err := config.SaveConfig(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			fmt.Fprintf(outWriter(), "Set %s = %v\n", args[0], value)
			return nil
		},
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(outWriter(), viper.ConfigFileUsed())
		},
	}
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func printConfig(cfg *config.Config) {
	out := outWriter()
	fmt.Fprintf(out, "%s: %s\n", config.KeyRemote, cfg.Remote)
	fmt.Fprintf(out, "%s: %s\n", config.KeyBranch, cfg.Branch)
	fmt.Fprintf(out, "%s: %q\n", config.KeyDefaultMessage, cfg.DefaultMessage)
	fmt.Fprintf(out, "%s: %t\n", config.KeyStopOnFailure, cfg.StopOnFailure)
	fmt.Fprintf(out, "%s: %t\n", config.KeyVerbose, cfg.Verbose)
}
