package utils

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestScreenshotDebugger_FileName(t *testing.T) {
	s := NewScreenshotDebugger("logs/screenshots", zap.NewNop())
	s.now = func() time.Time { return time.Date(2026, 10, 13, 16, 0, 5, 0, time.UTC) }

	assert.Equal(t, filepath.Join("logs/screenshots", "lancers-goto_2026-10-13_16-00-05.png"), s.FileName("lancers goto"))
}

func TestScreenshotDebugger_Disabled(t *testing.T) {
	var s *ScreenshotDebugger = NewScreenshotDebugger("", zap.NewNop())
	assert.Nil(t, s)
	assert.NoError(t, s.CaptureAndLog(nil, "x", "y"))
}
