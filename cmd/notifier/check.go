package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var shotPath string

var browserCheckCmd = &cobra.Command{
	Use:   "browser-check",
	Short: "Open the search page with the stored cookies and take a screenshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		a, log, err := setup(ctx)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer a.Close()

		report, err := a.CheckBrowser(ctx, shotPath)
		if err != nil {
			log.Error("browser check failed", zap.Error(err))
			return err
		}
		log.Info("browser check complete",
			zap.Int("cookies", report.Cookies),
			zap.String("title", report.Title),
			zap.Int("links", report.Links),
			zap.String("screenshot", report.Screenshot),
		)
		return nil
	},
}

func init() {
	browserCheckCmd.Flags().StringVar(&shotPath, "screenshot", "logs/browser-check.png", "where to save the page screenshot, empty to skip")
	rootCmd.AddCommand(browserCheckCmd)
}
