// Package main is the entry point for the shelf CLI.
package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/shelf/internal/cli"
	"github.com/jacksmith/shelf/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	shelfDir  string
	verbosity int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "shelf - a folder-aware bookmark shelf",
	Long: `shelf keeps an ordered list of links, optionally grouped into folders,
with a favicon cached for each one.

The shelf lives in a directory shared by every shelf process. One-shot
commands (add, capture, rm, ...) write to it and signal the change; a
running "shelf watch" picks it up and redraws.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetupLogger(verbosity)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&shelfDir, "dir", "", "shelf directory (default $SHELF_DIR or $XDG_DATA_HOME/shelf)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("shelf version {{.Version}}\n")
}
