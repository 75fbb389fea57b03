package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/school-eval-api/internal/app"
)

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import standards, indicators and checklist items from a JSON dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logr, err := loadEnv()
			if err != nil {
				return err
			}
			defer logr.Sync() //nolint:errcheck
			if file == "" {
				file = cfg.Seed.DatasetPath
			}

			deps, cleanup, err := app.Connect(cmd.Context(), cfg, logr)
			if err != nil {
				return err
			}
			defer cleanup()
			application, err := app.New(deps)
			if err != nil {
				return err
			}
			defer application.Close() //nolint:errcheck

			result, err := application.Seed.RunFile(cmd.Context(), file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rows read:          %d\n", result.Rows)
			fmt.Fprintf(out, "rows skipped:       %d\n", result.RowsSkipped)
			fmt.Fprintf(out, "standards upserted: %d\n", result.StandardsUpserted)
			fmt.Fprintf(out, "indicators:         %d\n", result.IndicatorsProcessed)
			fmt.Fprintf(out, "checklist added:    %d\n", result.ChecklistAdded)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "dataset path (defaults to SEED_DATASET_PATH)")
	return cmd
}
