package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/shelf/internal/cli"
	"github.com/jacksmith/shelf/internal/model"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search links by title or URL",
	Long: `Find links whose title or URL contains the query, ignoring case.

Examples:
  shelf find github
  shelf find "release notes"`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	matches := model.Find(sess.manager.Links(), args[0])
	if len(matches) == 0 {
		fmt.Printf("No links match %q.\n", args[0])
		return nil
	}

	cli.RenderLinks(os.Stdout, matches)
	return nil
}
