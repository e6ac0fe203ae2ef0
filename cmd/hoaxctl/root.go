package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fahrezi93/hoax-detection/internal/infrastructure/config"
	"github.com/fahrezi93/hoax-detection/internal/infrastructure/database"
	"github.com/fahrezi93/hoax-detection/internal/infrastructure/logger"
)

type loadFunc func() (*config.Config, error)

// env is what every subcommand needs after configuration is read
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func newRootCmd(load loadFunc) *cobra.Command {
	var verbose bool
	e := &env{}

	root := &cobra.Command{
		Use:           "hoaxctl",
		Short:         "Classify Indonesian news text and maintain the prediction store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if !verbose {
				cfg.Log.Level = "warn"
			}
			cfg.Log.Output = "stderr"
			log, err := logger.NewLogger(&cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			e.cfg = cfg
			e.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured level instead of warn")

	root.AddCommand(
		newPredictCmd(e),
		newHistoryCmd(e),
		newCleanupCmd(e),
	)
	return root
}

func (e *env) openStore() (*gorm.DB, func(), error) {
	db, err := database.Open(&e.cfg.Database, false)
	if err != nil {
		return nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closeFn, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
