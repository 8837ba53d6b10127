package cli

import "github.com/spf13/cobra"

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for starctl.

To load completions:

Bash:
  $ source <(starctl completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ starctl completion bash > /etc/bash_completion.d/starctl
  # macOS:
  $ starctl completion bash > $(brew --prefix)/etc/bash_completion.d/starctl

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ starctl completion zsh > "${fpath[1]}/_starctl"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ starctl completion fish | source

  # To load completions for each session, execute once:
  $ starctl completion fish > ~/.config/fish/completions/starctl.fish

PowerShell:
  PS> starctl completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> starctl completion powershell > starctl.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion scripts need neither config nor a logger.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
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
