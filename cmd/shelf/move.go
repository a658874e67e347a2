package main

import (
	"fmt"
	"strconv"

	"github.com/jacksmith/shelf/internal/cli"
	"github.com/jacksmith/shelf/internal/model"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <position>",
	Short: "Reorder a link within its folder",
	Long: `Move a link to a new position within its folder. Position 1 is the top.
Other folders are not affected; use "shelf edit --folder" to change folder.

Examples:
  shelf move 3f2a 1
  shelf move 3f2a 4`,
	Args:              cobra.ExactArgs(2),
	RunE:              runMove,
	ValidArgsFunction: completeLinkIDs,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	m := sess.manager

	links := m.Links()
	link, err := cli.MatchID(args[0], links)
	if err != nil {
		return err
	}

	var siblings []model.Link
	current := -1
	for _, l := range links {
		if model.SameFolder(l.Folder, link.Folder) {
			if l.ID == link.ID {
				current = len(siblings)
			}
			siblings = append(siblings, l)
		}
	}

	position, err := strconv.Atoi(args[1])
	if err != nil || position < 1 || position > len(siblings) {
		return &cli.ValidationError{
			Field:   "position",
			Message: fmt.Sprintf("expected a number from 1 to %d, got %q", len(siblings), args[1]),
		}
	}

	target := position - 1
	to := target
	if target > current {
		// Offsets refer to the list before the move.
		to = target + 1
	}
	m.Move(link.Folder, []int{current}, to)

	fmt.Printf("%s moved to position %d in %s\n", model.ShortID(link.ID), position, groupName(link.Folder))
	return nil
}

func groupName(folder *string) string {
	return cli.GroupLabel(model.Group{Folder: folder})
}
