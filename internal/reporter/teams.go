package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"go-lancers-notifier/internal/payload"
)

// TeamsReporter posts MessageCards to an incoming webhook.
type TeamsReporter struct {
	webhookURL string
	dryRun     bool
	httpClient *http.Client
	logger     *zap.Logger
}

func NewTeamsReporter(webhookURL string, dryRun bool, logger *zap.Logger) *TeamsReporter {
	return &TeamsReporter{
		webhookURL: webhookURL,
		dryRun:     dryRun,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (t *TeamsReporter) Name() string {
	return "teams"
}

func (t *TeamsReporter) Send(ctx context.Context, card payload.MessageCard) error {
	body, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("marshal card: %w", err)
	}

	t.logger.Info("teams payload",
		zap.Int("chars", utf8.RuneCountInString(card.Text)),
		zap.Int("displayed", card.Displayed),
		zap.Int("found", card.Found),
	)
	if t.dryRun {
		t.logger.Info("dry run, not sending", zap.ByteString("payload", body))
		return nil
	}
	if t.webhookURL == "" {
		return fmt.Errorf("teams webhook url is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("teams webhook returned status %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}
