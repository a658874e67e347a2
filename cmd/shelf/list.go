package main

import (
	"os"

	"github.com/jacksmith/shelf/internal/cli"
	"github.com/jacksmith/shelf/internal/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List links grouped by folder",
	Long: `List every link, unfiled links first, then each folder alphabetically.

The second column shows whether a favicon is cached (*) or not (-).

Examples:
  shelf list
  shelf list --folder=work
  shelf list --unfiled`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listFolder  string
	listUnfiled bool
)

func init() {
	listCmd.Flags().StringVarP(&listFolder, "folder", "f", "", "only show this folder")
	listCmd.Flags().BoolVar(&listUnfiled, "unfiled", false, "only show unfiled links")

	listCmd.RegisterFlagCompletionFunc("folder", completeFolders)

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	groups := sess.manager.Groups()
	switch {
	case listUnfiled:
		groups = filterGroups(groups, nil)
	case listFolder != "":
		groups = filterGroups(groups, model.Folder(listFolder))
		if len(groups) == 0 {
			return &cli.NotFoundError{Type: "folder", ID: listFolder}
		}
	}

	cli.RenderGroups(os.Stdout, groups)
	return nil
}

func filterGroups(groups []model.Group, folder *string) []model.Group {
	for _, g := range groups {
		if model.SameFolder(g.Folder, folder) {
			return []model.Group{g}
		}
	}
	return nil
}
