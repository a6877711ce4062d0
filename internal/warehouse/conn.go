// Package warehouse executes generated commands against live destinations
// and keeps target tables in step with stream schemas.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/marcboeker/go-duckdb"
	_ "github.com/snowflakedb/gosnowflake"

	"github.com/ayaz345/mage-ai/internal/dialect"
	"github.com/ayaz345/mage-ai/pkg/connector"
)

// SQLConnection adapts a database/sql handle to the Connection contract.
type SQLConnection struct {
	db *sql.DB
}

func NewSQLConnection(db *sql.DB) *SQLConnection {
	return &SQLConnection{db: db}
}

// Execute runs a statement and reports the affected row count as a single
// result row when the driver exposes one.
func (c *SQLConnection) Execute(ctx context.Context, stmt string) ([]connector.Row, error) {
	res, err := c.db.ExecContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// Some drivers cannot report row counts for DDL.
		return nil, nil
	}
	return []connector.Row{{affected}}, nil
}

func (c *SQLConnection) Load(ctx context.Context, query string) ([]connector.Row, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("load columns: %w", err)
	}
	var out []connector.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, connector.Row(values))
	}
	return out, rows.Err()
}

func (c *SQLConnection) Close() error {
	return c.db.Close()
}

// PoolConnection adapts a pgx pool to the Connection contract.
type PoolConnection struct {
	pool *pgxpool.Pool
}

func NewPoolConnection(pool *pgxpool.Pool) *PoolConnection {
	return &PoolConnection{pool: pool}
}

func (c *PoolConnection) Execute(ctx context.Context, stmt string) ([]connector.Row, error) {
	tag, err := c.pool.Exec(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	return []connector.Row{{tag.RowsAffected()}}, nil
}

func (c *PoolConnection) Load(ctx context.Context, query string) ([]connector.Row, error) {
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	defer rows.Close()

	var out []connector.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, connector.Row(values))
	}
	return out, rows.Err()
}

func (c *PoolConnection) Close() error {
	c.pool.Close()
	return nil
}

var driverNames = map[dialect.Name]string{
	dialect.Snowflake:  "snowflake",
	dialect.ClickHouse: "clickhouse",
	dialect.DuckDB:     "duckdb",
}

// Open connects to the destination named by the dialect. Postgres goes
// through a pgx pool, the rest through their database/sql drivers. BigQuery
// carries no driver here, so callers targeting it must supply their own
// Connection.
func Open(ctx context.Context, d dialect.Config, dsn string) (connector.Connection, error) {
	if d.Name == dialect.Postgres {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return NewPoolConnection(pool), nil
	}

	driver, ok := driverNames[d.Name]
	if !ok {
		return nil, fmt.Errorf("dialect %s has no SQL driver", d.Name)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return NewSQLConnection(db), nil
}
