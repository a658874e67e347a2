package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/shelf/internal/cli"
	"github.com/spf13/cobra"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List folders",
	Long: `List folder names with the number of links in each, sorted
case-insensitively. Folder names match regardless of case.`,
	Args: cobra.NoArgs,
	RunE: runFolders,
}

func init() {
	rootCmd.AddCommand(foldersCmd)
}

func runFolders(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	table := cli.NewTable()
	for _, g := range sess.manager.Groups() {
		if g.Folder == nil {
			continue
		}
		table.AddRow(cli.Header(g.Name()), cli.Gray(fmt.Sprintf("%d", len(g.Links))))
	}
	table.Render(os.Stdout)
	return nil
}
