package main

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/filmrecipes/internal/config"
	"github.com/JonMunkholm/filmrecipes/internal/core"
	"github.com/JonMunkholm/filmrecipes/internal/settings"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <column> [value]",
		Short: "Show how a spreadsheet cell maps onto recipe settings",
		Example: `  recipes resolve "WB" "Auto, +2 Red & -4 Blue"
  recipes resolve "Grain" "Strong, Small"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(settings.Resolve(args[0], value))
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent import batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(_ *config.Config, svc recipeService) error {
				entries, err := svc.ImportHistory(cmd.Context(), limit)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", core.DefaultHistoryLimit, "number of entries, at most "+strconv.Itoa(core.MaxHistoryLimit))
	return cmd
}
