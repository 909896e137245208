package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/1varma/kafka-redshift-pipeline/internal/config"
	"github.com/1varma/kafka-redshift-pipeline/internal/logging"
	"github.com/1varma/kafka-redshift-pipeline/internal/msg"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to pipeline config YAML")
		brokers    = flag.String("brokers", "", "Kafka broker addresses (overrides config)")
		topic      = flag.String("topic", "", "Topic to produce to (overrides config)")
		count      = flag.Int("count", 10, "Number of generated messages when no input file is given")
		input      = flag.String("input", "", "JSON-lines file of mapping payloads to produce")
		keyField   = flag.String("key-field", "event_id", "Payload field used as the message key")
	)
	flag.Parse()

	cfg, err := config.Load("producer", *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *brokers != "" {
		cfg.Kafka.Brokers = parseBrokers(*brokers)
	}
	if *topic != "" {
		cfg.Kafka.Topic = *topic
	}
	if cfg.Kafka.Topic == "" {
		fmt.Fprintln(os.Stderr, "no topic configured; set -topic or kafka.topic")
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting producer",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("input", *input),
		zap.Int("count", *count),
	)

	payloads, err := loadPayloads(*input, *count)
	if err != nil {
		logger.Fatal("failed to load payloads", zap.Error(err))
	}

	producer, err := msg.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ClientID, logger)
	if err != nil {
		logger.Fatal("failed to create producer", zap.Error(err))
	}
	defer producer.Close()

	ctx := context.Background()
	produced := 0
	failed := 0

	for _, payload := range payloads {
		key := messageKey(payload, *keyField)
		if err := producer.Publish(ctx, cfg.Kafka.Topic, key, payload); err != nil {
			logger.Error("failed to produce message",
				zap.String("key", key),
				zap.Error(err),
			)
			failed++
			continue
		}
		produced++
		logger.Debug("produced message", zap.String("key", key))
	}

	logger.Info("producer completed",
		zap.Int("total", len(payloads)),
		zap.Int("produced", produced),
		zap.Int("failed", failed),
	)

	fmt.Printf("\n=== Producer Summary ===\n")
	fmt.Printf("Total messages: %d\n", len(payloads))
	fmt.Printf("Produced: %d\n", produced)
	fmt.Printf("Failed: %d\n", failed)

	if failed > 0 {
		os.Exit(1)
	}
}

// loadPayloads reads mapping payloads from a JSON-lines file, or generates
// synthetic ones when no file is given.
func loadPayloads(path string, count int) ([]map[string]any, error) {
	if path == "" {
		payloads := make([]map[string]any, 0, count)
		for i := 0; i < count; i++ {
			payloads = append(payloads, map[string]any{
				"event_id":       uuid.New().String(),
				"sequence":       i,
				"ts_unix_millis": time.Now().UnixMilli(),
			})
		}
		return payloads, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	var payloads []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", line, err)
		}
		payloads = append(payloads, payload)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return payloads, nil
}

func messageKey(payload map[string]any, field string) string {
	if v, ok := payload[field]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return uuid.New().String()
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
