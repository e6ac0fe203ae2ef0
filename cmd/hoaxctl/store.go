package main

import (
	"github.com/spf13/cobra"

	"github.com/fahrezi93/hoax-detection/internal/adapter/repository/gormrepo"
	"github.com/fahrezi93/hoax-detection/internal/usecase"
)

func newHistoryCmd(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the most recent stored predictions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, closeDB, err := e.openStore()
			if err != nil {
				return err
			}
			defer closeDB()

			uc := usecase.NewPredictionUsecase(usecase.PredictionDeps{
				Predictions: gormrepo.NewPredictionRepository(db),
				Logger:      e.log,
			})
			history, err := uc.History(cmd.Context(), min(limit, 100))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), history)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "number of predictions to show (max 100)")
	return cmd
}

func newCleanupCmd(e *env) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete predictions and feedback older than the retention period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = e.cfg.Retention.Days
			}

			db, closeDB, err := e.openStore()
			if err != nil {
				return err
			}
			defer closeDB()

			uc := usecase.NewRetentionUsecase(
				gormrepo.NewPredictionRepository(db),
				gormrepo.NewFeedbackRepository(db),
				nil,
				e.log,
			)
			out, err := uc.Cleanup(cmd.Context(), days)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 30, "keep records newer than this many days")
	return cmd
}
