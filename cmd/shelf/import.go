package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacksmith/shelf/internal/model"
	"github.com/jacksmith/shelf/internal/storage"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import links from a preferences export or JSON dump",
	Long: `Merge links from a file into the shelf.

A .plist file is read as the output of
  defaults export <app group> <file>
from the macOS app, taking its links blob. A .json file is read as the
output of "shelf export". Links whose ID is already on the shelf are
skipped; everything else is appended and each folder is renumbered.

Examples:
  shelf import LinkShelf.plist
  shelf import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importNoFavicon bool

func init() {
	importCmd.Flags().BoolVar(&importNoFavicon, "no-favicon", false, "do not wait for favicons of imported links")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	links, err := readImport(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	result := sess.manager.Import(links)
	if !importNoFavicon {
		sess.wait()
	}

	fmt.Printf("Imported %d link(s), skipped %d already on the shelf.\n", result.Added, result.Skipped)
	return nil
}

func readImport(path string) ([]model.Link, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		links, err := model.DecodeLinks(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return links, nil
	}
	return storage.ReadDefaultsExport(path)
}
