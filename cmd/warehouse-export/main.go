package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/1varma/kafka-redshift-pipeline/internal/config"
	"github.com/1varma/kafka-redshift-pipeline/internal/logging"
	"github.com/1varma/kafka-redshift-pipeline/internal/warehouse"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to pipeline config YAML")
		table      = flag.String("table", "", "Source table (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load("warehouse-export", *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *table != "" {
		cfg.Warehouse.Table = *table
	}
	if cfg.Warehouse.Table == "" {
		fmt.Fprintln(os.Stderr, "no table configured; set -table or warehouse.table")
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	props, err := warehouse.PropsFromConfig(cfg.Warehouse)
	if err != nil {
		logger.Fatal("invalid warehouse config", zap.Error(err))
	}

	db, err := warehouse.Open(cfg.Warehouse.Driver, props.DSN())
	if err != nil {
		logger.Fatal("failed to open warehouse connection", zap.Error(err))
	}
	defer db.Close()

	reader := warehouse.NewReader(db, logger)
	f, err := reader.Read(context.Background(), cfg.Warehouse.Table)
	if err != nil {
		logger.Fatal("failed to read table", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	for _, rec := range f.Records() {
		if err := enc.Encode(rec); err != nil {
			logger.Fatal("failed to encode record", zap.Error(err))
		}
	}

	logger.Info("export completed",
		zap.String("table", cfg.Warehouse.Table),
		zap.Int("rows", f.NumRows()),
	)
}
