package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runTimeout time.Duration

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, rank and notify once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()

		a, log, err := setup(ctx)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		log.Info("starting the run", zap.String("version", version))
		res, err := a.RunOnce(ctx)
		log.Info("run summary",
			zap.Int("accepted", len(res.Listings)),
			zap.Int("displayed", res.Payload.Displayed),
			zap.Int("skipped", res.Payload.Skipped),
		)
		return err
	},
}

func init() {
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "abort the run after this long")
	rootCmd.AddCommand(runCmd)
}
