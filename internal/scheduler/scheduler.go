// Package scheduler runs the notifier on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSpec fires every Tuesday at 16:00.
const DefaultSpec = "0 16 * * 2"

// Job is one scheduled run.
type Job func(ctx context.Context) error

// Scheduler wraps robfig/cron. Overlapping runs are skipped.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	job        Job
	runOnStart bool
	location   *time.Location
	logger     *zap.Logger
	wg         sync.WaitGroup
}

type Option func(*Scheduler)

func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.location = loc }
}

func WithRunOnStart(v bool) Option {
	return func(s *Scheduler) { s.runOnStart = v }
}

func New(spec string, job Job, logger *zap.Logger, opts ...Option) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		spec:     spec,
		job:      job,
		location: time.Local,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	l := zapLogger{logger.Sugar()}
	s.cron = cron.New(
		cron.WithLocation(s.location),
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
	return s
}

// Start registers the job and starts ticking. With run-on-start the job also
// runs once immediately in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec), zap.Time("next", s.Next()))

	if s.runOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.run(ctx)
		}()
	}
	return nil
}

// Next is the next scheduled fire time, zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	start := time.Now()
	s.logger.Info("scheduled run started")
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled run failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return
	}
	s.logger.Info("scheduled run complete", zap.Duration("took", time.Since(start)))
}

// zapLogger adapts zap to cron.Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l zapLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
