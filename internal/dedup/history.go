package dedup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultRetention is how long a notified link is remembered across runs.
const DefaultRetention = 30 * 24 * time.Hour

// History remembers links notified in previous runs.
type History interface {
	Seen(ctx context.Context, link string) (bool, error)
	Mark(ctx context.Context, links []string) error
}

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// FileHistory keeps notified links in a JSON file.
type FileHistory struct {
	mu        sync.Mutex
	filePath  string
	retention time.Duration
	seen      map[string]int64
	now       func() time.Time
	logger    *zap.Logger
}

// NewFileHistory creates or loads the history stored in cacheDir.
func NewFileHistory(cacheDir string, retention time.Duration, logger *zap.Logger) (*FileHistory, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &FileHistory{
		filePath:  filepath.Join(cacheDir, "seen_jobs.json"),
		retention: retention,
		seen:      make(map[string]int64),
		now:       time.Now,
		logger:    logger,
	}
	if err := h.load(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *FileHistory) Seen(_ context.Context, link string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, exists := h.seen[link]
	return exists, nil
}

func (h *FileHistory) Mark(_ context.Context, links []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now().UnixMilli()
	changed := false
	for _, link := range links {
		if _, exists := h.seen[link]; !exists {
			h.seen[link] = now
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return h.save()
}

// load reads the file, dropping entries older than the retention window.
func (h *FileHistory) load() error {
	data, err := os.ReadFile(h.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", h.filePath, err)
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse %s: %w", h.filePath, err)
	}

	cutoff := h.now().Add(-h.retention).UnixMilli()
	for _, e := range entries {
		if e.Timestamp > cutoff {
			h.seen[e.URL] = e.Timestamp
		}
	}
	h.logger.Info("loaded link history",
		zap.Int("loaded", len(h.seen)),
		zap.Int("expired", len(entries)-len(h.seen)),
	)
	return nil
}

func (h *FileHistory) save() error {
	entries := make([]seenEntry, 0, len(h.seen))
	for url, ts := range h.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal link history: %w", err)
	}
	if err := os.WriteFile(h.filePath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", h.filePath, err)
	}
	h.logger.Debug("saved link history", zap.Int("count", len(entries)))
	return nil
}
