// Package stream wires a Kafka source to a sink as a long-running streaming
// query: records are projected to text and passed through unchanged, with no
// windowing or aggregation.
package stream

import (
	"context"

	"github.com/1varma/kafka-redshift-pipeline/internal/msg"
)

// Source is the record feed a query consumes. *msg.Consumer satisfies it.
type Source interface {
	Run(ctx context.Context, handler msg.Handler) error
}

// TextRecord is a consumed record with key and value cast to text.
type TextRecord struct {
	Topic     string
	Key       string
	Value     string
	Partition int32
	Offset    int64
}

// Project casts a record's binary key and value to text.
func Project(rec msg.Record) TextRecord {
	return TextRecord{
		Topic:     rec.Topic,
		Key:       rec.Key,
		Value:     string(rec.Value),
		Partition: rec.Partition,
		Offset:    rec.Offset,
	}
}
