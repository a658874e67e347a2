package main

import (
	"fmt"

	"github.com/jacksmith/shelf/internal/logging"
	"github.com/jacksmith/shelf/internal/model"
	"github.com/spf13/cobra"
)

var faviconsCmd = &cobra.Command{
	Use:   "favicons",
	Short: "Fetch missing favicons",
	Long: `Fetch a favicon for every link that does not have one yet, then wait
for all fetches to finish. Requests are staggered by favicon_stagger
(default 200ms).

Each site is tried at /favicon.ico, /favicon.png and /apple-touch-icon.png
before falling back to the <link rel="icon"> in its page.`,
	Args: cobra.NoArgs,
	RunE: runFavicons,
}

var faviconsRefresh bool

func init() {
	faviconsCmd.Flags().BoolVar(&faviconsRefresh, "refresh", false, "drop every cached favicon first")
	rootCmd.AddCommand(faviconsCmd)
}

func runFavicons(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	m := sess.manager

	if faviconsRefresh {
		m.ClearFavicons()
	}

	done := logging.LogOperationStart(logging.GetLogger("favicons"), "favicon sweep")
	defer done()

	queued := m.SweepMissingFavicons()
	if queued == 0 {
		fmt.Println("Every link has a favicon.")
		return nil
	}

	fmt.Printf("Fetching %d favicon(s)...\n", queued)
	sess.wait()

	missing := len(model.MissingFavicons(m.Links()))
	fmt.Printf("Fetched %d, %d still missing.\n", queued-missing, missing)
	return nil
}
