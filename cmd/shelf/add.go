package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jacksmith/shelf/internal/cli"
	"github.com/jacksmith/shelf/internal/model"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a link",
	Long: `Add a link to the end of a folder, or to the unfiled list.

The title defaults to the URL's host. The favicon is fetched before the
command returns unless --no-favicon is given.

Examples:
  shelf add go.dev
  shelf add https://pkg.go.dev --title="Go packages" --folder=Go
  shelf add example.com --force`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var (
	addTitle     string
	addFolder    string
	addForce     bool
	addNoFavicon bool
)

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "link title (default: the URL's host)")
	addCmd.Flags().StringVarP(&addFolder, "folder", "f", "", "folder to add the link to")
	addCmd.Flags().BoolVar(&addForce, "force", false, "add even if the URL is already on the shelf")
	addCmd.Flags().BoolVar(&addNoFavicon, "no-favicon", false, "do not wait for the favicon")

	addCmd.RegisterFlagCompletionFunc("folder", completeFolders)

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	rawURL := strings.TrimSpace(args[0])
	if rawURL == "" {
		return &cli.ValidationError{Field: "url", Message: "must not be empty"}
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	m := sess.manager

	if !addForce && m.Exists(rawURL) {
		return &cli.DuplicateError{URL: rawURL, Hint: "Use --force to add it anyway."}
	}

	title := strings.TrimSpace(addTitle)
	if title == "" {
		title = defaultTitle(rawURL)
	}

	var folder *string
	if addFolder != "" {
		folder = model.Folder(cli.MatchFolder(addFolder, m.FolderNames()))
	}

	link := m.Add(title, rawURL, folder)
	if !addNoFavicon {
		sess.wait()
	}

	fmt.Printf("%s %s\n", model.ShortID(link.ID), link.Title)
	return nil
}

// defaultTitle derives a title from the URL's host, without "www.".
func defaultTitle(rawURL string) string {
	u, err := url.Parse(model.NormalizeURL(rawURL))
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
