package main

import (
	"fmt"
	"strings"

	"github.com/jacksmith/shelf/internal/model"
	"github.com/jacksmith/shelf/internal/ops"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture <url> [title]",
	Short: "Quickly save a link to the unfiled list",
	Long: `Save a link the way a share sheet would: straight to the end of the
unfiled list, without fetching a favicon. A running "shelf watch" is
signalled and fetches the favicon itself.

URLs already on the shelf are reported and skipped.

Examples:
  shelf capture https://go.dev/blog
  shelf capture https://go.dev/blog "The Go Blog"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	rawURL := strings.TrimSpace(args[0])
	title := rawURL
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		title = strings.TrimSpace(args[1])
	}

	s, bus, err := openStore()
	if err != nil {
		return err
	}
	defer bus.Close()
	defer s.Close()

	if ops.Exists(s, rawURL) {
		fmt.Printf("Already on the shelf: %s\n", rawURL)
		return nil
	}

	link := ops.Capture(s, title, rawURL)
	fmt.Printf("%s %s\n", model.ShortID(link.ID), link.Title)
	return nil
}
