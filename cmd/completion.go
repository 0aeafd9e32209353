package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

var completionGenerators = map[string]func(w io.Writer) error{
	"bash": func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
	"zsh":  func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
	"fish": func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": func(w io.Writer) error {
		return rootCmd.GenPowerShellCompletionWithDesc(w)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Print a completion script for gpush. Load it from your shell's rc file:

  source <(gpush completion bash)                       # ~/.bashrc
  source <(gpush completion zsh)                        # ~/.zshrc
  gpush completion fish | source                        # config.fish
  gpush completion powershell | Out-String | Invoke-Expression`,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	DisableFlagsInUseLine: true,
	RunE: func(_ *cobra.Command, args []string) error {
		return completionGenerators[args[0]](outWriter())
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
