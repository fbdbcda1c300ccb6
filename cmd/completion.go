package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/togglcmder/internal/model"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for togglcmder.

Names of workspaces, projects and tags are completed from the local cache.

To load completions:

Bash:
  $ source <(togglcmder completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ togglcmder completion zsh > "${fpath[1]}/_togglcmder"

Fish:
  $ togglcmder completion fish | source

PowerShell:
  PS> togglcmder completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeNames filters names by prefix, case-insensitively.
func completeNames(names []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), strings.ToLower(toComplete)) {
			completions = append(completions, n)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeWorkspaces completes workspace names from the cache.
func completeWorkspaces(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if ctx == nil || ctx.Cache == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ws, err := ctx.Cache.Workspaces(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(ws))
	for _, w := range ws {
		names = append(names, w.Name)
	}
	return completeNames(names, toComplete)
}

// completeProjects completes project names from the cache.
func completeProjects(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if ctx == nil || ctx.Cache == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ps, err := ctx.Cache.Projects(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(ps))
	for _, p := range model.SortProjects(ps) {
		names = append(names, p.Name)
	}
	return completeNames(names, toComplete)
}

// completeTags completes tag names from the cache.
func completeTags(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if ctx == nil || ctx.Cache == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	tags, err := ctx.Cache.Tags(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeNames(model.TagNames(model.SortTags(tags)), toComplete)
}
