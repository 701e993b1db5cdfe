package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-lancers-notifier/internal/scheduler"
)

var (
	scheduleTZ      string
	scheduleTimeout time.Duration
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run on the configured cron schedule until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, log, err := setup(ctx)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		loc, err := time.LoadLocation(scheduleTZ)
		if err != nil {
			return err
		}

		cfg := a.Config()
		s := scheduler.New(cfg.Schedule.Cron, func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, scheduleTimeout)
			defer cancel()
			_, err := a.RunOnce(ctx)
			return err
		}, log, scheduler.WithLocation(loc), scheduler.WithRunOnStart(cfg.Schedule.RunOnStart))

		if err := s.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		log.Info("shutting down", zap.String("reason", context.Cause(ctx).Error()))
		s.Stop()
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleTZ, "tz", "Asia/Tokyo", "time zone of the cron schedule")
	scheduleCmd.Flags().DurationVar(&scheduleTimeout, "timeout", 10*time.Minute, "abort a single run after this long")
	rootCmd.AddCommand(scheduleCmd)
}
