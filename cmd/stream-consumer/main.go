package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/1varma/kafka-redshift-pipeline/internal/config"
	"github.com/1varma/kafka-redshift-pipeline/internal/logging"
	"github.com/1varma/kafka-redshift-pipeline/internal/msg"
	"github.com/1varma/kafka-redshift-pipeline/internal/observability"
	"github.com/1varma/kafka-redshift-pipeline/internal/stream"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to pipeline config YAML")
		brokers    = flag.String("brokers", "", "Kafka broker addresses (overrides config)")
		topic      = flag.String("topic", "", "Topic to subscribe to (overrides config)")
		sinkName   = flag.String("sink", "", "Sink name (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load("stream-consumer", *configPath)
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
	if *sinkName != "" {
		cfg.Stream.Sink = *sinkName
	}
	if cfg.Kafka.Topic == "" {
		fmt.Fprintln(os.Stderr, "no topic configured; set -topic or kafka.topic")
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting stream-consumer service",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", cfg.Stream.GroupID),
		zap.String("sink", cfg.Stream.Sink),
		zap.Int("http_port", cfg.HTTPPort),
	)

	healthChecker := observability.NewHealthChecker(logger)

	consumer, err := msg.NewConsumer(cfg.Kafka.Brokers, cfg.Stream.GroupID, []string{cfg.Kafka.Topic}, logger)
	if err != nil {
		logger.Fatal("failed to create kafka consumer", zap.Error(err))
	}
	defer consumer.Close()
	healthChecker.SetKafkaReady(true)

	sink, err := stream.NewSink(cfg.Stream.Sink, logger)
	if err != nil {
		logger.Fatal("failed to create sink", zap.Error(err))
	}

	httpErrCh := make(chan error, 1)
	go func() {
		if err := healthChecker.StartHTTPServer(cfg.HTTPAddr()); err != nil && err != http.ErrServerClosed {
			httpErrCh <- err
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	query := stream.NewQuery(consumer, sink, logger)
	query.Start(ctx)

	queryErrCh := make(chan error, 1)
	go func() { queryErrCh <- query.AwaitTermination() }()

	// Wait for interrupt signal or a terminal failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-httpErrCh:
		logger.Error("HTTP server error", zap.Error(err))
	case err := <-queryErrCh:
		logger.Error("streaming query terminated", zap.Error(err))
	}

	// Graceful shutdown
	logger.Info("shutting down gracefully...")
	query.Stop()
	if err := query.AwaitTermination(); err != nil {
		logger.Error("streaming query failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := healthChecker.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down health checker", zap.Error(err))
	}

	logger.Info("stream-consumer service stopped")
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
