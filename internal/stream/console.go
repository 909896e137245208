package stream

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

// ConsoleSink prints each record as one line, the streaming counterpart of a
// console output sink.
type ConsoleSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleSink creates a console sink writing to out. A nil out defaults
// to stdout.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleSink{out: out}
}

// Write prints the record as topic[partition]@offset key=... value=...
func (s *ConsoleSink) Write(_ context.Context, rec TextRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.out, "%s[%d]@%d key=%s value=%s\n",
		rec.Topic, rec.Partition, rec.Offset, rec.Key, rec.Value)
	return err
}

// Close is a no-op; the sink does not own its writer.
func (s *ConsoleSink) Close() error {
	return nil
}

func init() {
	RegisterSink("console", func(_ *zap.Logger) (Sink, error) {
		return NewConsoleSink(nil), nil
	})
}
