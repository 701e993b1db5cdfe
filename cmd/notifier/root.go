package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-lancers-notifier/internal/app"
	"go-lancers-notifier/internal/config"
	"go-lancers-notifier/internal/logger"
)

const appName = "lancers-notifier"

var (
	// Used for flags.
	cfgFile string
	debug   bool
	jsonLog bool
	dryRun  bool

	rootCmd = &cobra.Command{
		Use:          appName,
		Short:        "lancers-notifier ranks new Lancers system-development jobs and posts them to Teams",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is "+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLog, "json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log the Teams payload instead of sending it")
}

// setup loads config and logger and builds the app. The caller closes both.
func setup(ctx context.Context) (*app.App, *zap.Logger, error) {
	log, err := logger.New(jsonLog, debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Error("getting a config", zap.Error(err))
		return nil, nil, err
	}
	if dryRun {
		cfg.Teams.DryRun = true
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("initializing", zap.Error(err))
		return nil, nil, err
	}
	return a, log, nil
}
