package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jacksmith/shelf/internal/cli"
	"github.com/jacksmith/shelf/internal/logging"
	"github.com/jacksmith/shelf/internal/model"
	"github.com/jacksmith/shelf/internal/ops"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the shelf and redraw when it changes",
	Long: `Run the long-lived shelf view. On start it adds the example links if this
is the shelf's first launch, then fetches any missing favicons.

Whenever another shelf process saves (add, capture, rm, ...) the view
reloads, fetches favicons for new links and redraws. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Holds at most one pending redraw so bursts of changes coalesce.
	redraw := make(chan struct{}, 1)
	sess, err := openSession(ops.WithChangeHandler(func([]model.Link) {
		select {
		case redraw <- struct{}{}:
		default:
		}
	}))
	if err != nil {
		return err
	}
	defer sess.Close()

	return watchLoop(ctx, sess, redraw)
}

func watchLoop(ctx context.Context, sess *session, redraw <-chan struct{}) error {
	logger := logging.GetLogger("watch")
	m := sess.manager

	m.Bootstrap(sess.store.Config().SeedDefaults)
	render(m)

	logger.Info().Str("dir", sess.store.Root()).Str("origin", sess.bus.Origin()).Msg("Watching for changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-redraw:
			render(m)
		}
	}
}

func render(m *ops.Manager) {
	fmt.Println(cli.Gray(time.Now().Format("15:04:05")))
	cli.RenderGroups(os.Stdout, m.Groups())
	fmt.Println()
}
