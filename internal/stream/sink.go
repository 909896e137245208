package stream

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Sink receives projected records. A Write error terminates the query and
// surfaces through AwaitTermination.
type Sink interface {
	Write(ctx context.Context, rec TextRecord) error
	Close() error
}

type sinkFactory func(logger *zap.Logger) (Sink, error)

var sinks = map[string]sinkFactory{}

// RegisterSink makes a sink constructor available by name.
func RegisterSink(name string, f sinkFactory) {
	sinks[name] = f
}

// NewSink constructs a registered sink by name.
func NewSink(name string, logger *zap.Logger) (Sink, error) {
	f, ok := sinks[name]
	if !ok {
		return nil, fmt.Errorf("unknown sink %q", name)
	}
	return f(logger)
}
