package main

import (
	"fmt"
	"strings"

	"github.com/jacksmith/shelf/internal/cli"
	"github.com/jacksmith/shelf/internal/model"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a link",
	Long: `Edit a link's title, URL or folder.

Use flags to change specific fields, or -i to edit in $EDITOR. Changing
the folder moves the link to the end of the new folder. Any edit drops
the cached favicon and fetches it again.

Examples:
  shelf edit 3f2a --title="Go"
  shelf edit 3f2a --url=https://go.dev/doc
  shelf edit 3f2a --folder=Reading
  shelf edit 3f2a --unfile
  shelf edit 3f2a -i`,
	Args:              cobra.ExactArgs(1),
	RunE:              runEdit,
	ValidArgsFunction: completeLinkIDs,
}

var (
	editTitle       string
	editURL         string
	editFolder      string
	editUnfile      bool
	editInteractive bool
	editNoFavicon   bool
)

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "set link title")
	editCmd.Flags().StringVar(&editURL, "url", "", "set link URL")
	editCmd.Flags().StringVar(&editFolder, "folder", "", "move link to folder")
	editCmd.Flags().BoolVar(&editUnfile, "unfile", false, "move link out of its folder")
	editCmd.Flags().BoolVarP(&editInteractive, "interactive", "i", false, "edit in $EDITOR")
	editCmd.Flags().BoolVar(&editNoFavicon, "no-favicon", false, "do not wait for the favicon")

	editCmd.MarkFlagsMutuallyExclusive("folder", "unfile")
	editCmd.RegisterFlagCompletionFunc("folder", completeFolders)

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	m := sess.manager

	link, err := cli.MatchID(args[0], m.Links())
	if err != nil {
		return err
	}

	doc := cli.NewLinkDocument(&link)
	if editInteractive {
		doc, err = cli.EditLink(&link)
		if err != nil {
			return err
		}
	} else {
		hasChanges := false
		if cmd.Flags().Changed("title") {
			doc.Title = strings.TrimSpace(editTitle)
			hasChanges = true
		}
		if cmd.Flags().Changed("url") {
			doc.URL = strings.TrimSpace(editURL)
			if doc.URL == "" {
				return &cli.ValidationError{Field: "url", Message: "must not be empty"}
			}
			hasChanges = true
		}
		if cmd.Flags().Changed("folder") {
			doc.Folder = editFolder
			hasChanges = true
		}
		if editUnfile {
			doc.Folder = ""
			hasChanges = true
		}
		if !hasChanges {
			return fmt.Errorf("no changes specified")
		}
	}

	var folder *string
	if f := doc.FolderPtr(); f != nil {
		folder = model.Folder(cli.MatchFolder(*f, m.FolderNames()))
	}

	if !m.Update(link.ID, doc.Title, doc.URL, folder) {
		return &cli.NotFoundError{Type: "link", ID: args[0]}
	}
	if !editNoFavicon {
		sess.wait()
	}

	fmt.Printf("%s updated.\n", model.ShortID(link.ID))
	return nil
}
