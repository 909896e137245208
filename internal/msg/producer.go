package msg

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/1varma/kafka-redshift-pipeline/internal/telemetry"
)

// Producer wraps a Kafka producer. Payloads are JSON-encoded before handoff;
// delivery, batching, and retries are whatever the client's defaults provide.
type Producer struct {
	client  *kgo.Client
	logger  *zap.Logger
	timeout time.Duration

	produceCount int64
	errorCount   int64
}

// NewProducer creates a new Kafka producer.
func NewProducer(brokers []string, clientID string, logger *zap.Logger) (*Producer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.DisableIdempotentWrite(),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	p := &Producer{
		client:  client,
		logger:  logger,
		timeout: 5 * time.Second,
	}

	logger.Info("producer initialized",
		zap.Strings("brokers", brokers),
		zap.String("client_id", clientID),
	)

	go p.logStats()

	return p, nil
}

// Publish JSON-encodes payload and produces it to the specified topic.
// Encoding and broker errors surface to the caller unmodified.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		atomic.AddInt64(&p.errorCount, 1)
		telemetry.ProduceErrors.WithLabelValues(topic).Inc()
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}

	// Synchronous produce bounded by the producer's timeout.
	produceCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result := p.client.ProduceSync(produceCtx, record)
	if result.FirstErr() != nil {
		atomic.AddInt64(&p.errorCount, 1)
		telemetry.ProduceErrors.WithLabelValues(topic).Inc()
		return fmt.Errorf("failed to produce message: %w", result.FirstErr())
	}

	atomic.AddInt64(&p.produceCount, 1)
	telemetry.MessagesProduced.WithLabelValues(topic).Inc()
	return nil
}

// Close closes the producer.
func (p *Producer) Close() {
	if p.client != nil {
		p.client.Close()
	}
}

// logStats logs producer statistics periodically.
func (p *Producer) logStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		produced := atomic.LoadInt64(&p.produceCount)
		errors := atomic.LoadInt64(&p.errorCount)
		p.logger.Info("producer stats",
			zap.Int64("produced", produced),
			zap.Int64("errors", errors),
		)
	}
}
