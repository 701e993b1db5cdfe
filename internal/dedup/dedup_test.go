package dedup

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeenSet_CheckAndAdd(t *testing.T) {
	s := NewSeenSet()
	assert.True(t, s.CheckAndAdd("https://www.lancers.jp/work/detail/1"))
	assert.False(t, s.CheckAndAdd("https://www.lancers.jp/work/detail/1"))
	assert.True(t, s.CheckAndAdd("https://www.lancers.jp/work/detail/2"))
	assert.Equal(t, 2, s.Len())
}

func TestSeenSet_ConcurrentSameLink(t *testing.T) {
	s := NewSeenSet()
	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.CheckAndAdd("https://www.lancers.jp/work/detail/42") {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

func TestFileHistory_PersistsAndExpires(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	h, err := NewFileHistory(dir, time.Hour, nil)
	require.NoError(t, err)
	require.NoError(t, h.Mark(ctx, []string{"a", "b"}))

	seen, err := h.Seen(ctx, "a")
	require.NoError(t, err)
	assert.True(t, seen)

	reloaded, err := NewFileHistory(dir, time.Hour, nil)
	require.NoError(t, err)
	seen, _ = reloaded.Seen(ctx, "b")
	assert.True(t, seen)
	seen, _ = reloaded.Seen(ctx, "c")
	assert.False(t, seen)

	// entries written two hours ago fall outside a one hour window
	old := `[{"url":"stale","timestamp":` + strconv.FormatInt(time.Now().Add(-2*time.Hour).UnixMilli(), 10) + `}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_jobs.json"), []byte(old), 0644))
	expired, err := NewFileHistory(dir, time.Hour, nil)
	require.NoError(t, err)
	seen, _ = expired.Seen(ctx, "stale")
	assert.False(t, seen)
}

func TestFileHistory_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_jobs.json"), []byte("{"), 0644))
	_, err := NewFileHistory(dir, time.Hour, nil)
	assert.Error(t, err)
}
