package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultSpec_Tuesday1600(t *testing.T) {
	sched, err := cron.ParseStandard(DefaultSpec)
	require.NoError(t, err)

	// Monday 2026-10-12 09:00
	next := sched.Next(time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 10, 13, 16, 0, 0, 0, time.UTC), next)
}

func TestScheduler_RunOnStart(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{})
	s := New(DefaultSpec, func(context.Context) error {
		if calls.Add(1) == 1 {
			close(done)
		}
		return nil
	}, zap.NewNop(), WithRunOnStart(true))

	require.NoError(t, s.Start(context.Background()))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, s.Next().IsZero())
}

func TestScheduler_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(DefaultSpec, func(context.Context) error { return errors.New("scrape failed") }, zap.New(core), WithRunOnStart(true))

	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	assert.Equal(t, 1, logs.FilterMessage("scheduled run failed").Len())
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New("every tuesday", func(context.Context) error { return nil }, nil)
	assert.Error(t, s.Start(context.Background()))
}

func TestScheduler_Location(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata not available")
	}
	s := New(DefaultSpec, func(context.Context) error { return nil }, zap.NewNop(), WithLocation(tokyo))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	next := s.Next().In(tokyo)
	assert.Equal(t, time.Tuesday, next.Weekday())
	assert.Equal(t, 16, next.Hour())
}
