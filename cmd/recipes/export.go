package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/filmrecipes/internal/config"
	"github.com/JonMunkholm/filmrecipes/internal/core"
)

func newExportCmd() *cobra.Command {
	var (
		id     string
		out    string
		filter core.ExportFilter
		opts   core.ExportOptions
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recipes as JSON",
		Long: `Writes every recipe, or one recipe with --id, as public JSON documents.
With --dry-run only the statistics are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var recipeID uuid.UUID
			if id != "" {
				var err error
				if recipeID, err = uuid.Parse(id); err != nil {
					return fmt.Errorf("invalid --id %q: %w", id, err)
				}
			}

			return withService(cmd, func(cfg *config.Config, svc recipeService) error {
				if !cmd.Flags().Changed("pretty") {
					opts.Pretty = cfg.Export.Pretty
				}

				var (
					buf   bytes.Buffer
					stats *core.ExportStats
					err   error
				)
				if id != "" {
					stats, err = svc.ExportByID(cmd.Context(), recipeID, &buf, opts)
				} else {
					stats, err = svc.ExportAll(cmd.Context(), filter, &buf, opts)
				}
				if err != nil {
					return fmt.Errorf("%s", core.FormatUserError(err))
				}

				if opts.DryRun {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(stats)
				}

				if out == "" || out == "-" {
					_, err = buf.WriteTo(cmd.OutOrStdout())
					return err
				}
				if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d of %d recipes to %s (%d errors)\n",
					stats.ExportedRecipes, stats.TotalRecipes, out, stats.Errors)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "export one recipe by id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&filter.ActiveOnly, "active", false, "only active recipes")
	cmd.Flags().BoolVar(&filter.FeaturedOnly, "featured", false, "only featured recipes")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print statistics without writing the export")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "indent the JSON output")
	return cmd
}
