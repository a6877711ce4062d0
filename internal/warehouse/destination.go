package warehouse

import (
	"context"
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/ayaz345/mage-ai/internal/dialect"
	"github.com/ayaz345/mage-ai/internal/sqlbuild"
	"github.com/ayaz345/mage-ai/internal/telemetry"
	"github.com/ayaz345/mage-ai/pkg/connector"
)

// WriteOptions carry the per-stream settings that shape generated commands.
type WriteOptions struct {
	Partition         string
	UniqueConstraints []string
	ConflictPolicy    connector.ConflictPolicy
}

// Destination drives one warehouse connection. It keeps target tables in
// step with stream schemas and writes record batches through the statement
// builders. Safe for concurrent use across tables; writes to the same table
// are serialized.
type Destination struct {
	conn    connector.Connection
	dialect dialect.Config
	tracer  trace.Tracer

	mu     sync.Mutex
	tables map[string]*sync.Mutex
}

func NewDestination(conn connector.Connection, d dialect.Config) *Destination {
	return &Destination{
		conn:    conn,
		dialect: d,
		tracer:  telemetry.Tracer("warehouse"),
		tables:  map[string]*sync.Mutex{},
	}
}

func (w *Destination) tableLock(name string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	lock, ok := w.tables[name]
	if !ok {
		lock = &sync.Mutex{}
		w.tables[name] = lock
	}
	return lock
}

// EnsureTable creates the table when absent and otherwise adds any schema
// columns missing from the live table. Live-only columns are left alone.
func (w *Destination) EnsureTable(ctx context.Context, table connector.TableIdent, schema connector.Schema, opts WriteOptions) error {
	name := w.dialect.TableName(table)
	ctx, span := w.tracer.Start(ctx, "ensure_table",
		trace.WithAttributes(telemetry.TableAttrs(name, 0)...))
	defer span.End()

	exists, err := TableExists(ctx, w.conn, w.dialect, table)
	if err != nil {
		return err
	}
	if !exists {
		stmt, err := sqlbuild.BuildCreateTable(w.dialect, table, schema, sqlbuild.CreateTableOptions{
			Partition:         opts.Partition,
			UniqueConstraints: opts.UniqueConstraints,
		})
		if err != nil {
			return err
		}
		log.Printf("creating table %s", name)
		if _, err := w.conn.Execute(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		return nil
	}

	live, err := LoadColumns(ctx, w.conn, w.dialect, table)
	if err != nil {
		return err
	}
	stmt, err := sqlbuild.BuildAlterTable(w.dialect, table, schema, live)
	if err != nil {
		return err
	}
	if stmt == "" {
		return nil
	}
	log.Printf("altering table %s", name)
	if _, err := w.conn.Execute(ctx, stmt); err != nil {
		return fmt.Errorf("alter %s: %w", name, err)
	}
	return nil
}

// WriteBatch generates and executes the command sequence for the records in
// order and reports how many rows the destination counted as inserted.
// Updated is always zero, see sqlbuild.RecordsInserted.
func (w *Destination) WriteBatch(ctx context.Context, table connector.TableIdent, schema connector.Schema, records []connector.Record, opts WriteOptions) (inserted, updated int64, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}
	name := w.dialect.TableName(table)
	lock := w.tableLock(name)
	lock.Lock()
	defer lock.Unlock()

	ctx, span := w.tracer.Start(ctx, "write_batch",
		trace.WithAttributes(telemetry.TableAttrs(name, len(records))...))
	defer span.End()

	cmds, err := sqlbuild.BuildInsertCommands(w.dialect, table, schema, records, sqlbuild.InsertOptions{
		UniqueConstraints: opts.UniqueConstraints,
		ConflictPolicy:    opts.ConflictPolicy,
	})
	if err != nil {
		return 0, 0, err
	}

	results := make([][]connector.Row, 0, len(cmds))
	for _, cmd := range cmds {
		rows, err := w.conn.Execute(ctx, cmd)
		if err != nil {
			return 0, 0, fmt.Errorf("write %s: %w", name, err)
		}
		results = append(results, rows)
	}
	inserted, updated = sqlbuild.RecordsInserted(results)
	return inserted, updated, nil
}

// CleanupStaging drops the staging table left behind by an interrupted
// upsert. Successful upserts drop it themselves; this is never called
// implicitly.
func (w *Destination) CleanupStaging(ctx context.Context, table connector.TableIdent) error {
	if _, err := w.conn.Execute(ctx, sqlbuild.BuildDropStaging(w.dialect, table)); err != nil {
		return fmt.Errorf("cleanup staging for %s: %w", w.dialect.TableName(table), err)
	}
	return nil
}

// Close releases the underlying connection.
func (w *Destination) Close() error {
	return w.conn.Close()
}
