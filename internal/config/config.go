// Package config holds runtime settings for the sink service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the sink service.
type Config struct {
	Environment string

	// Dialect selects the destination SQL dialect.
	Dialect string `validate:"required,oneof=bigquery snowflake clickhouse duckdb postgres"`

	// DSN is the destination connection string. BigQuery targets run in
	// plan-only mode without one.
	DSN string `validate:"required_unless=Dialect bigquery"`

	// Database and Schema qualify generated table names. Database is
	// optional depending on the dialect.
	Database string
	Schema   string `validate:"required"`

	Telemetry TelemetryConfig
	Stream    StreamConfig
}

type TelemetryConfig struct {
	ServiceName string
}

// StreamConfig describes the single stream a sink process writes.
type StreamConfig struct {
	Table      string `validate:"required"`
	SchemaFile string `validate:"required"`

	// InputPath is the NDJSON record source, "-" for stdin.
	InputPath string `validate:"required"`

	BatchSize int `validate:"min=1"`

	PartitionKey      string
	UniqueConstraints []string
	ConflictPolicy    string `validate:"omitempty,oneof=update ignore"`

	// TypeMappings overrides abstract-kind to SQL-type rules, either as an
	// inline YAML/JSON document or a file path.
	TypeMappings     string
	TypeMappingsFile string
}

// Load loads config from environment. File parsing will be added later.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getenv("SINK_ENV", "dev"),
		Dialect:     getenv("SINK_DIALECT", "bigquery"),
		DSN:         getenv("SINK_DSN", ""),
		Database:    getenv("SINK_DATABASE", ""),
		Schema:      getenv("SINK_SCHEMA", ""),
		Telemetry: TelemetryConfig{
			ServiceName: getenv("SINK_OTEL_SERVICE", "sink"),
		},
		Stream: StreamConfig{
			Table:             getenv("SINK_TABLE", ""),
			SchemaFile:        getenv("SINK_SCHEMA_FILE", ""),
			InputPath:         getenv("SINK_INPUT", "-"),
			BatchSize:         getenvInt("SINK_BATCH_SIZE", 1000),
			PartitionKey:      getenv("SINK_PARTITION_KEY", ""),
			UniqueConstraints: getenvCSV("SINK_UNIQUE_CONSTRAINTS", ""),
			ConflictPolicy:    getenv("SINK_CONFLICT_POLICY", ""),
			TypeMappings:      getenv("SINK_TYPE_MAPPINGS", ""),
			TypeMappingsFile:  getenv("SINK_TYPE_MAPPINGS_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags above.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvCSV(key, fallback string) []string {
	value := getenv(key, fallback)
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trim := strings.TrimSpace(part)
		if trim != "" {
			out = append(out, trim)
		}
	}
	return out
}
