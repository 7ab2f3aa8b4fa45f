package pipeline

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Processor handles one message.
type Processor interface {
	Process(ctx context.Context, msg Message) Outcome
}

// Listener feeds messages from a source into a processor with bounded concurrency.
type Listener struct {
	processor   Processor
	concurrency int
	logger      *zap.Logger
}

func NewListener(processor Processor, concurrency int, logger *zap.Logger) *Listener {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{processor: processor, concurrency: concurrency, logger: logger}
}

// Run consumes src until ctx is done or the source closes. Messages already
// taken from the source are processed to completion.
func (l *Listener) Run(ctx context.Context, src Source) error {
	msgs, err := src.Messages(ctx)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	work := context.WithoutCancel(ctx)

	l.logger.Info("listening for postings", zap.Int("concurrency", l.concurrency))

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case msg, ok := <-msgs:
			if !ok {
				break loop
			}
			g.Go(func() error {
				outcome := l.processor.Process(work, msg)
				l.logger.Debug("message processed",
					zap.String("chat", msg.Chat),
					zap.String("message_id", msg.MessageID),
					zap.String("state", string(outcome.State)),
				)
				return nil
			})
		}
	}

	_ = g.Wait()
	l.logger.Info("listener stopped")
	return nil
}
