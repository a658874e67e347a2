package main

import (
	"fmt"

	"github.com/jacksmith/shelf/internal/logging"
	"github.com/jacksmith/shelf/internal/notify"
	"github.com/jacksmith/shelf/internal/ops"
	"github.com/jacksmith/shelf/internal/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a shelf",
	Long: `Create the shelf directory and its config.yaml.

The first time a shelf is opened three example links are added, unless
--no-seed is given or seed_defaults is false in config.yaml.

Examples:
  shelf init
  shelf init --backend=sqlite
  shelf --dir ~/links init --no-seed`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initBackend string
	initNoSeed  bool
)

func init() {
	initCmd.Flags().StringVar(&initBackend, "backend", storage.DefaultBackend, "storage backend (file or sqlite)")
	initCmd.Flags().BoolVar(&initNoSeed, "no-seed", false, "do not add the example links")

	initCmd.RegisterFlagCompletionFunc("backend", cobra.FixedCompletions(
		[]string{storage.BackendFile, storage.BackendSQLite}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := resolveDir()

	bus, err := notify.NewFileBus(dir, logging.GetLogger("notify"))
	if err != nil {
		return err
	}
	defer bus.Close()

	s, err := storage.Init(dir, initBackend, storage.WithBus(bus), storage.WithLogger(logging.GetLogger("storage")))
	if err != nil {
		return err
	}
	defer s.Close()

	m := ops.NewManager(s, ops.WithLogger(logging.GetLogger("manager")))
	m.Bootstrap(s.Config().SeedDefaults && !initNoSeed)

	fmt.Printf("Initialized shelf in %s (%s backend)\n", dir, s.Config().Backend)
	if n := len(m.Links()); n > 0 {
		fmt.Printf("Shelf has %d link(s).\n", n)
	}
	return nil
}
