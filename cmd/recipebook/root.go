package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"recipebook/internal/config"
	"recipebook/internal/logging"
	"recipebook/internal/storage"
)

var cfgDir string

var rootCmd = &cobra.Command{
	Use:   "recipebook",
	Short: "A personal recipe catalog",
	Long: `recipebook keeps a personal catalog of recipes.

Run "recipebook serve" to open the catalog page in a browser, or use the
list and export commands to read the saved collection from a terminal.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "./configs", "directory containing config.yaml")
	rootCmd.AddCommand(serveCmd, listCmd, exportCmd)
}

// setup loads configuration and builds the logger every command uses.
func setup() (config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(cfgDir)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("loading configuration: %w", err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, nil)
	if err != nil {
		return config.Config{}, nil, err
	}
	log.WithFields(logrus.Fields{
		"badgerdb_path": cfg.BadgerDBPath,
		"listen_addr":   cfg.ListenAddr,
	}).Debug("Configuration loaded successfully")
	return cfg, log, nil
}

// openStore opens the on-disk database, or an in-memory one when ephemeral.
func openStore(cfg config.Config, log logrus.FieldLogger, ephemeral bool) (*storage.BadgerStore, func(), error) {
	var (
		store *storage.BadgerStore
		err   error
	)
	if ephemeral {
		store, err = storage.OpenInMemory(log)
	} else {
		store, err = storage.Open(cfg.BadgerDBPath, log)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	closeFn := func() {
		log.Info("Closing database...")
		if err := store.Close(); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}
	return store, closeFn, nil
}
