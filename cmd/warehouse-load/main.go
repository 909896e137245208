package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/1varma/kafka-redshift-pipeline/internal/config"
	"github.com/1varma/kafka-redshift-pipeline/internal/frame"
	"github.com/1varma/kafka-redshift-pipeline/internal/logging"
	"github.com/1varma/kafka-redshift-pipeline/internal/warehouse"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to pipeline config YAML")
		input      = flag.String("input", "", "JSON-lines file to load (required)")
		table      = flag.String("table", "", "Destination table (overrides config)")
		mode       = flag.String("mode", "append", "Save mode: append, overwrite, or error_if_exists")
	)
	flag.Parse()

	cfg, err := config.Load("warehouse-load", *configPath)
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
	if *input == "" {
		fmt.Fprintln(os.Stderr, "-input is required")
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	saveMode, err := warehouse.ParseSaveMode(*mode)
	if err != nil {
		logger.Fatal("invalid save mode", zap.Error(err))
	}

	records, err := readRecords(*input)
	if err != nil {
		logger.Fatal("failed to read input", zap.Error(err))
	}

	f, err := frame.FromRecords(records)
	if err != nil {
		logger.Fatal("failed to build frame", zap.Error(err))
	}

	props, err := warehouse.PropsFromConfig(cfg.Warehouse)
	if err != nil {
		logger.Fatal("invalid warehouse config", zap.Error(err))
	}

	db, err := warehouse.Open(cfg.Warehouse.Driver, props.DSN())
	if err != nil {
		logger.Fatal("failed to open warehouse connection", zap.Error(err))
	}
	defer db.Close()

	logger.Info("loading frame into warehouse",
		zap.String("table", cfg.Warehouse.Table),
		zap.String("mode", string(saveMode)),
		zap.Int("rows", f.NumRows()),
	)

	writer := warehouse.NewWriter(db, logger)
	if err := writer.Write(context.Background(), cfg.Warehouse.Table, f, saveMode); err != nil {
		logger.Fatal("failed to write frame", zap.Error(err))
	}

	fmt.Printf("Loaded %d rows into %s\n", f.NumRows(), cfg.Warehouse.Table)
}

func readRecords(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return records, nil
}
