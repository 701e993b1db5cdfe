package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ScreenshotDebugger saves full-page screenshots when a scrape goes wrong.
type ScreenshotDebugger struct {
	outputDir string
	logger    *zap.Logger
	now       func() time.Time
}

// NewScreenshotDebugger returns nil when dir is empty, which disables capture.
func NewScreenshotDebugger(dir string, logger *zap.Logger) *ScreenshotDebugger {
	if dir == "" {
		return nil
	}
	return &ScreenshotDebugger{outputDir: dir, logger: logger, now: time.Now}
}

// FileName is the screenshot file for name, stamped with the current time.
func (s *ScreenshotDebugger) FileName(name string) string {
	return filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", unsafeName.ReplaceAllString(name, "-"), s.now().Format("2006-01-02_15-04-05")))
}

func (s *ScreenshotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	if s == nil {
		return nil
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}

	path := s.FileName(name)
	s.logger.Warn(message, zap.String("screenshot", path))

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.logger.Warn("failed to capture screenshot", zap.Error(err))
		return err
	}
	return nil
}
