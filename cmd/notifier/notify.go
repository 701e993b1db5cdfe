package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var notifyTestCmd = &cobra.Command{
	Use:   "notify-test",
	Short: "Send a card with sample listings to every configured channel",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		a, log, err := setup(ctx)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		if err := a.NotifyTest(ctx); err != nil {
			return err
		}
		log.Info("test notification sent")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notifyTestCmd)
}
