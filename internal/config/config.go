package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// KafkaConfig holds broker connection settings shared by the producer and
// the streaming consumer.
type KafkaConfig struct {
	Brokers  []string `koanf:"brokers"`
	Topic    string   `koanf:"topic"`
	ClientID string   `koanf:"client_id"`
}

// StreamConfig holds settings for the streaming consumption flow.
type StreamConfig struct {
	GroupID string `koanf:"group_id"`
	Sink    string `koanf:"sink"`
}

// WarehouseConfig holds connection parameters for the warehouse endpoint.
// Either JDBCURL or the Endpoint/Database pair must be set; JDBCURL wins.
type WarehouseConfig struct {
	JDBCURL  string `koanf:"jdbc_url"`
	Endpoint string `koanf:"endpoint"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	Table    string `koanf:"table"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"ssl_mode"`
	Driver   string `koanf:"driver"`
}

// Config holds configuration for all binaries.
type Config struct {
	ServiceName string          `koanf:"-"`
	LogLevel    string          `koanf:"log_level"`
	HTTPPort    int             `koanf:"http_port"`
	Kafka       KafkaConfig     `koanf:"kafka"`
	Stream      StreamConfig    `koanf:"stream"`
	Warehouse   WarehouseConfig `koanf:"warehouse"`
}

// Load reads configuration for a service, merging a YAML file (if path is
// non-empty and present) with env vars (prefix `PIPELINE__`, delimiter `__`),
// then applying defaults.
func Load(serviceName, path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// The provider only strips the prefix through the callback; without it
	// the raw var name would never match a koanf key.
	envKey := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "PIPELINE__"))
	}
	if err := k.Load(env.Provider("PIPELINE__", "__", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env config: %w", err)
	}

	cfg := &Config{ServiceName: serviceName}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(c *Config) {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.HTTPPort == 0 {
		c.HTTPPort = 8080
	}
	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "kafka-redshift-pipeline"
	}
	if c.Stream.GroupID == "" {
		c.Stream.GroupID = c.ServiceName + "-v1"
	}
	if c.Stream.Sink == "" {
		c.Stream.Sink = "console"
	}
	if c.Warehouse.Port == 0 {
		c.Warehouse.Port = 5439
	}
	if c.Warehouse.SSLMode == "" {
		c.Warehouse.SSLMode = "require"
	}
	if c.Warehouse.Driver == "" {
		c.Warehouse.Driver = "postgres"
	}
}

// HTTPAddr returns the HTTP server address.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
