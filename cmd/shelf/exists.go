package main

import (
	"fmt"

	"github.com/jacksmith/shelf/internal/ops"
	"github.com/spf13/cobra"
)

var existsCmd = &cobra.Command{
	Use:   "exists <url>",
	Short: "Check whether a URL is on the shelf",
	Long: `Print "true" if the URL is already saved, "false" otherwise.

URLs are compared after trimming, adding https:// when no scheme is given,
and lower-casing. Paths are compared exactly, so a trailing slash matters.`,
	Args: cobra.ExactArgs(1),
	RunE: runExists,
}

func init() {
	rootCmd.AddCommand(existsCmd)
}

func runExists(cmd *cobra.Command, args []string) error {
	s, bus, err := openStore()
	if err != nil {
		return err
	}
	defer bus.Close()
	defer s.Close()

	fmt.Println(ops.Exists(s, args[0]))
	return nil
}
