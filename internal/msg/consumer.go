package msg

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/1varma/kafka-redshift-pipeline/internal/telemetry"
)

// Handler processes a single consumed record. A non-nil error is terminal:
// the failing record is not committed and Run returns the error to the
// caller.
type Handler func(context.Context, Record) error

// Consumer wraps a Kafka consumer group subscription.
type Consumer struct {
	client *kgo.Client
	logger *zap.Logger
	topics []string
	group  string
	commit func(ctx context.Context, records ...*kgo.Record)

	running    int32
	pollCount  int64
	errorCount int64
}

// NewConsumer creates a new Kafka consumer subscribed to topics.
func NewConsumer(brokers []string, group string, topics []string, logger *zap.Logger) (*Consumer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(), // Commit after handler success
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	c := &Consumer{
		client: client,
		logger: logger,
		topics: topics,
		group:  group,
	}
	c.commit = func(ctx context.Context, records ...*kgo.Record) {
		c.client.CommitRecords(ctx, records...)
	}

	logger.Info("consumer initialized",
		zap.Strings("brokers", brokers),
		zap.String("group", group),
		zap.Strings("topics", topics),
	)

	go c.logStats()

	return c, nil
}

// Run polls the broker and calls handler for each record until ctx is
// cancelled or the handler fails. Each record is committed only after its
// handler returns nil.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	c.logger.Info("starting consumer",
		zap.String("group", c.group),
		zap.Strings("topics", c.topics),
	)

	atomic.StoreInt32(&c.running, 1)
	defer atomic.StoreInt32(&c.running, 0)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopping", zap.String("group", c.group))
			return ctx.Err()
		default:
			fetches := c.client.PollFetches(ctx)
			if fetches.IsClientClosed() {
				return fmt.Errorf("kafka client closed")
			}

			if err := c.processFetches(ctx, fetches, handler); err != nil {
				return err
			}
		}
	}
}

// processFetches dispatches every fetched record to the handler, committing
// each one after success. The first handler error stops dispatch; the
// failing record and everything after it stay uncommitted.
func (c *Consumer) processFetches(ctx context.Context, fetches kgo.Fetches, handler Handler) error {
	iter := fetches.RecordIter()
	for !iter.Done() {
		record := iter.Next()

		rec := Record{
			Topic:     record.Topic,
			Key:       string(record.Key),
			Value:     record.Value,
			Partition: record.Partition,
			Offset:    record.Offset,
			Timestamp: record.Timestamp.UnixMilli(),
		}

		if err := handler(ctx, rec); err != nil {
			atomic.AddInt64(&c.errorCount, 1)
			c.logger.Error("handler failed",
				zap.String("topic", rec.Topic),
				zap.String("key", rec.Key),
				zap.Int64("offset", rec.Offset),
				zap.Error(err),
			)
			return fmt.Errorf("handler failed for %s[%d]@%d: %w", rec.Topic, rec.Partition, rec.Offset, err)
		}

		c.commit(ctx, record)
		atomic.AddInt64(&c.pollCount, 1)
		telemetry.RecordsConsumed.WithLabelValues(rec.Topic).Inc()
	}
	return nil
}

// Close closes the consumer.
func (c *Consumer) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// IsRunning returns whether the consumer poll loop is active.
func (c *Consumer) IsRunning() bool {
	return atomic.LoadInt32(&c.running) == 1
}

// logStats logs consumer statistics periodically.
func (c *Consumer) logStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		polls := atomic.LoadInt64(&c.pollCount)
		errors := atomic.LoadInt64(&c.errorCount)
		c.logger.Info("consumer stats",
			zap.String("group", c.group),
			zap.Int64("processed", polls),
			zap.Int64("errors", errors),
		)
	}
}
