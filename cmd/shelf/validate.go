package main

import (
	"fmt"
	"strings"

	"github.com/jacksmith/shelf/internal/cli"
	"github.com/jacksmith/shelf/internal/ops"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check shelf data integrity",
	Long: `Check the shelf for data integrity issues:
  - Positions within a folder that skip or repeat
  - Duplicate link IDs
  - Links without a URL

Use --fix to renumber folders and give duplicated IDs new values.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var validateFix bool

func init() {
	validateCmd.Flags().BoolVar(&validateFix, "fix", false, "auto-repair fixable issues")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	m := sess.manager

	errors := ops.Validate(m.Links())
	if len(errors) == 0 {
		fmt.Println(cli.Green("No issues found."))
		return nil
	}

	if !validateFix {
		fmt.Printf("Found %d issue(s):\n\n", len(errors))
		printValidationErrors(errors)
		return &cli.ValidationError{Message: fmt.Sprintf("%d issue(s) found; run with --fix to repair", len(errors))}
	}

	fmt.Printf("Found %d issue(s). Attempting to fix...\n\n", len(errors))

	if fixes := m.Repair(); len(fixes) > 0 {
		fmt.Println("Fixes applied:")
		for _, f := range fixes {
			if f.ItemID != "" {
				fmt.Printf("  %s: %s\n", f.ItemID, f.Description)
			} else {
				fmt.Printf("  %s\n", f.Description)
			}
		}
		fmt.Println()
	}

	remaining := ops.Validate(m.Links())
	if len(remaining) == 0 {
		fmt.Println(cli.Green("All fixable issues resolved."))
		return nil
	}

	fmt.Printf("Remaining issues (%d) that cannot be auto-fixed:\n\n", len(remaining))
	printValidationErrors(remaining)
	return &cli.ValidationError{Message: fmt.Sprintf("%d issue(s) remain", len(remaining))}
}

func printValidationErrors(errors []ops.ValidationError) {
	for _, e := range errors {
		subject := e.ItemID
		if subject == "" {
			subject = groupLabelForName(e.Folder)
		}
		fmt.Printf("%s %s: %s\n", subject, formatValidationErrorType(e.Type), e.Message)
		if len(e.Details) > 0 {
			fmt.Printf("  orders: %s\n", strings.Join(e.Details, ", "))
		}
	}
}

func groupLabelForName(name string) string {
	if name == "" {
		return "Unfiled"
	}
	return name
}

func formatValidationErrorType(t ops.ValidationErrorType) string {
	switch t {
	case ops.ValidationErrorOrderGap:
		return cli.Yellow("[gap]")
	case ops.ValidationErrorDuplicateOrder:
		return cli.Yellow("[duplicate-order]")
	case ops.ValidationErrorDuplicateID:
		return cli.Red("[duplicate]")
	case ops.ValidationErrorMissingRequired:
		return cli.Red("[missing]")
	default:
		return fmt.Sprintf("[%s]", t)
	}
}
