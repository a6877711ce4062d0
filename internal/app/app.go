// Package app wires config, dialect, and destination into the sink run loop.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ayaz345/mage-ai/internal/config"
	"github.com/ayaz345/mage-ai/internal/dialect"
	"github.com/ayaz345/mage-ai/internal/warehouse"
	"github.com/ayaz345/mage-ai/pkg/connector"
)

// Run loads the stream schema, ensures the target table, and writes batches
// from the configured input until it is exhausted or the context ends.
func Run(ctx context.Context, cfg *config.Config) error {
	runID := uuid.NewString()
	log.Printf("sink run %s starting (dialect=%s table=%s)", runID, cfg.Dialect, cfg.Stream.Table)

	d, err := Dialect(cfg)
	if err != nil {
		return err
	}
	schema, err := LoadSchema(cfg.Stream.SchemaFile)
	if err != nil {
		return err
	}

	conn, err := warehouse.Open(ctx, d, cfg.DSN)
	if err != nil {
		return err
	}
	dest := warehouse.NewDestination(conn, d)
	defer dest.Close()

	table := TableIdent(cfg)
	opts := WriteOptions(cfg)
	if err := dest.EnsureTable(ctx, table, schema, opts); err != nil {
		return err
	}

	input, closeInput, err := openInput(cfg.Stream.InputPath)
	if err != nil {
		return err
	}
	defer closeInput()

	reader := NewBatchReader(input, cfg.Stream.BatchSize)
	var total int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		records, err := reader.Next()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			break
		}
		inserted, _, err := dest.WriteBatch(ctx, table, schema, records, opts)
		if err != nil {
			return err
		}
		total += inserted
		log.Printf("sink run %s: wrote %d records, %d counted inserted", runID, len(records), inserted)
	}

	log.Printf("sink run %s finished: %d rows counted inserted", runID, total)
	return nil
}

// Dialect resolves the configured dialect with type overrides applied.
func Dialect(cfg *config.Config) (dialect.Config, error) {
	d, err := dialect.ForName(cfg.Dialect)
	if err != nil {
		return dialect.Config{}, err
	}
	overrides, err := dialect.LoadTypeMappings(map[string]string{
		"type_mappings":      cfg.Stream.TypeMappings,
		"type_mappings_file": cfg.Stream.TypeMappingsFile,
	})
	if err != nil {
		return dialect.Config{}, err
	}
	return d.WithOverrides(overrides), nil
}

// TableIdent builds the target table identifier from config.
func TableIdent(cfg *config.Config) connector.TableIdent {
	return connector.TableIdent{
		Database: cfg.Database,
		Schema:   cfg.Schema,
		Table:    cfg.Stream.Table,
	}
}

// WriteOptions builds the per-stream write options from config.
func WriteOptions(cfg *config.Config) warehouse.WriteOptions {
	return warehouse.WriteOptions{
		Partition:         cfg.Stream.PartitionKey,
		UniqueConstraints: cfg.Stream.UniqueConstraints,
		ConflictPolicy:    connector.ConflictPolicy(cfg.Stream.ConflictPolicy),
	}
}

func openInput(path string) (*os.File, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
