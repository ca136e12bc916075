package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for plasmap.

To load completions:

Bash:
  $ source <(plasmap completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ plasmap completion bash > /etc/bash_completion.d/plasmap
  # macOS:
  $ plasmap completion bash > $(brew --prefix)/etc/bash_completion.d/plasmap

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ plasmap completion zsh > "${fpath[1]}/_plasmap"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ plasmap completion fish | source

  # To load completions for each session, execute once:
  $ plasmap completion fish > ~/.config/fish/completions/plasmap.fish

PowerShell:
  PS> plasmap completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> plasmap completion powershell > plasmap.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}
}
