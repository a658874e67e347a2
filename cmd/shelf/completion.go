package main

import (
	"os"
	"strings"

	"github.com/jacksmith/shelf/internal/model"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for shelf.

To load completions:

Bash:
  $ source <(shelf completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ shelf completion bash > /etc/bash_completion.d/shelf
  # macOS:
  $ shelf completion bash > $(brew --prefix)/etc/bash_completion.d/shelf

Zsh:
  $ shelf completion zsh > "${fpath[1]}/_shelf"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ shelf completion fish | source
  $ shelf completion fish > ~/.config/fish/completions/shelf.fish
`,
}

var completionBashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletionV2(os.Stdout, true)
	},
}

var completionZshCmd = &cobra.Command{
	Use:   "zsh",
	Short: "Generate zsh completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenZshCompletion(os.Stdout)
	},
}

var completionFishCmd = &cobra.Command{
	Use:   "fish",
	Short: "Generate fish completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenFishCompletion(os.Stdout, true)
	},
}

func init() {
	completionCmd.AddCommand(completionBashCmd)
	completionCmd.AddCommand(completionZshCmd)
	completionCmd.AddCommand(completionFishCmd)
	rootCmd.AddCommand(completionCmd)
}

// loadForCompletion reads the shelf without reporting errors; completion
// must never print anything but candidates.
func loadForCompletion() []model.Link {
	s, bus, err := openStore()
	if err != nil {
		return nil
	}
	defer bus.Close()
	defer s.Close()
	return s.Load()
}

// completeLinkIDs offers short IDs described by their titles.
func completeLinkIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, l := range loadForCompletion() {
		id := model.ShortID(l.ID)
		if strings.HasPrefix(id, strings.ToLower(toComplete)) {
			completions = append(completions, id+"\t"+l.Title)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeFolders offers existing folder names.
func completeFolders(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, name := range model.FolderNames(loadForCompletion()) {
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(toComplete)) {
			completions = append(completions, name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
