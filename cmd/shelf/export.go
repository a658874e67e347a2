package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/shelf/internal/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the shelf to stdout or a file",
	Long: `Export every link, unfiled first, then by folder and position.

JSON output uses the stored format, favicons included, and can be read
back with "shelf import". YAML output omits favicons and is meant for
reading.

Examples:
  shelf export > backup.json
  shelf export --format=yaml
  shelf export -o backup.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json or yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")

	exportCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	data, err := encodeExport(sess.manager.Links(), exportFormat)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	fmt.Printf("Exported %d link(s) to %s\n", len(sess.manager.Links()), exportOutput)
	return nil
}

func encodeExport(links []model.Link, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := model.EncodeLinks(links)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(links)
	default:
		return nil, fmt.Errorf("unknown format %q (expected json or yaml)", format)
	}
}
