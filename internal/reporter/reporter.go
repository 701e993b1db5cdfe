// Package reporter delivers composed cards to chat transports.
package reporter

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-lancers-notifier/internal/payload"
)

// Reporter is a notification channel.
type Reporter interface {
	Send(ctx context.Context, card payload.MessageCard) error
	Name() string
}

// Fanout sends to every reporter. A failing channel does not stop the others;
// all errors are joined.
type Fanout struct {
	reporters []Reporter
	logger    *zap.Logger
}

func NewFanout(logger *zap.Logger, reporters ...Reporter) *Fanout {
	return &Fanout{reporters: reporters, logger: logger}
}

func (f *Fanout) Len() int {
	return len(f.reporters)
}

func (f *Fanout) Send(ctx context.Context, card payload.MessageCard) error {
	var errs []error
	for _, r := range f.reporters {
		if err := r.Send(ctx, card); err != nil {
			f.logger.Error("notification failed", zap.String("reporter", r.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
			continue
		}
		f.logger.Info("notification sent",
			zap.String("reporter", r.Name()),
			zap.Int("displayed", card.Displayed),
			zap.Int("found", card.Found),
		)
	}
	return errors.Join(errs...)
}
