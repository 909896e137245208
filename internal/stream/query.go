package stream

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/1varma/kafka-redshift-pipeline/internal/msg"
)

// Query is a running streaming pass-through from a source to a sink. It runs
// until the source fails or Stop is called.
type Query struct {
	source Source
	sink   Sink
	logger *zap.Logger

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
	err       error
}

// NewQuery builds a query over a source and sink.
func NewQuery(source Source, sink Sink, logger *zap.Logger) *Query {
	return &Query{
		source: source,
		sink:   sink,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start launches the query's poll loop. Subsequent calls are no-ops.
func (q *Query) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		q.cancel = cancel

		go func() {
			defer close(q.done)
			err := q.source.Run(runCtx, func(recCtx context.Context, rec msg.Record) error {
				return q.sink.Write(recCtx, Project(rec))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				q.err = err
			}
			if closeErr := q.sink.Close(); closeErr != nil && q.err == nil {
				q.err = closeErr
			}
			q.logger.Info("streaming query terminated", zap.Error(q.err))
		}()
	})
}

// AwaitTermination blocks until the query terminates and returns the error
// that stopped it, if any. There is no timeout; cancellation happens through
// Stop or the Start context.
func (q *Query) AwaitTermination() error {
	<-q.done
	return q.err
}

// Stop cancels the query. AwaitTermination still reports the terminal error.
func (q *Query) Stop() {
	if q.cancel != nil {
		q.cancel()
	}
}
