package main

import (
	"fmt"

	"github.com/jacksmith/shelf/internal/cli"
	"github.com/jacksmith/shelf/internal/model"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Remove links",
	Long: `Remove one or more links. The remaining links in each folder close up.

Examples:
  shelf rm 3f2a
  shelf rm 3f2a b71c`,
	Args:              cobra.MinimumNArgs(1),
	RunE:              runRm,
	ValidArgsFunction: completeLinkIDs,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	m := sess.manager

	// Resolve every id before deleting anything.
	var links []model.Link
	for _, arg := range args {
		link, err := cli.MatchID(arg, m.Links())
		if err != nil {
			return err
		}
		links = append(links, link)
	}

	for _, link := range links {
		if m.Delete(link.ID) {
			fmt.Printf("Removed %s %s\n", model.ShortID(link.ID), link.Title)
		}
	}
	return nil
}
