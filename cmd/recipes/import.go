package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/filmrecipes/internal/config"
	"github.com/JonMunkholm/filmrecipes/internal/core"
)

// exitRowErrors is returned when the batch finished but some rows failed.
const exitRowErrors = 2

func newImportCmd() *cobra.Command {
	var opts core.ImportOptions

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import recipes from a CSV spreadsheet",
		Long: `Imports every row of the spreadsheet in one transaction. A failing row is
rolled back on its own and reported; the other rows are kept.

The result is printed as JSON. The exit code is 2 when some rows failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			opts.FileName = filepath.Base(args[0])

			return withService(cmd, func(_ *config.Config, svc recipeService) error {
				result, err := svc.ImportCSV(cmd.Context(), f, opts)
				if result != nil {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					if encErr := enc.Encode(result); encErr != nil {
						return encErr
					}
				}
				if err != nil {
					return fmt.Errorf("%s", core.FormatUserError(err))
				}

				fmt.Fprintf(cmd.ErrOrStderr(), "%d rows: %d imported, %d updated, %d skipped, %d failed, %d warnings (%s)\n",
					result.Total, result.Imported, result.Updated, result.Skipped,
					result.ErrorCount(), len(result.Warnings), result.State)

				if result.ErrorCount() > 0 {
					return &exitError{code: exitRowErrors, msg: fmt.Sprintf("%d rows failed", result.ErrorCount())}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "run the import and roll it back")
	cmd.Flags().BoolVar(&opts.Truncate, "truncate", false, "delete every recipe before importing")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file.csv>",
		Short: "Check a spreadsheet without importing it",
		Long: `Parses and validates the spreadsheet and shows how every setting column
will be read. Nothing is written to the database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return withService(cmd, func(_ *config.Config, svc recipeService) error {
				resp, err := svc.PreviewCSV(cmd.Context(), f)
				if err != nil {
					return fmt.Errorf("%s", core.FormatUserError(err))
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			})
		},
	}
}
