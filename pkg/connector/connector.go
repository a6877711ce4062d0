package connector

import "context"

// Kind is the abstract column kind carried by a stream schema.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// FormatDateTime marks string columns that carry timestamps.
const FormatDateTime = "date-time"

// ColumnType describes a column's abstract type. Item is the element kind
// for array columns and ignored otherwise.
type ColumnType struct {
	Kind   Kind
	Item   Kind
	Format string
}

// Column defines a schema field.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is a table-level schema snapshot. Column order is significant:
// every generated statement lists columns in schema order.
type Schema struct {
	Columns []Column
}

// ColumnNames returns the raw column names in schema order.
func (s Schema) ColumnNames() []string {
	names := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		names = append(names, col.Name)
	}
	return names
}

// Column looks up a column by raw or sanitized name.
func (s Schema) Column(name string) (Column, bool) {
	for _, col := range s.Columns {
		if col.Name == name || CleanColumnName(col.Name) == name {
			return col, true
		}
	}
	return Column{}, false
}

// HasColumn reports whether the schema declares the given column.
func (s Schema) HasColumn(name string) bool {
	_, ok := s.Column(name)
	return ok
}

// TableIdent names a warehouse table. Database is optional depending on
// the dialect (BigQuery projects carry it, Postgres connections do not).
type TableIdent struct {
	Database string
	Schema   string
	Table    string
}

// Staging returns the identifier of the staging table used by the
// merge-upsert path: the target table name under a fixed temp_ prefix.
func (t TableIdent) Staging() TableIdent {
	staged := t
	staged.Table = "temp_" + t.Table
	return staged
}

// ConflictPolicy governs what a merge does with matched rows.
type ConflictPolicy string

const (
	ConflictUpdate ConflictPolicy = "update"
	ConflictIgnore ConflictPolicy = "ignore"
)

// Record maps raw column names to scalar or array values. Missing and nil
// entries both render as NULL.
type Record map[string]any

// Batch is one unit of records for a stream. Batches are ephemeral: they
// exist only long enough to generate commands.
type Batch struct {
	Stream  string
	Records []Record
}

// Row is a single result row returned by a connection.
type Row []any

// Connection is the warehouse collaborator contract. Execute runs DDL/DML
// whose result rows, when present, report affected counts; Load runs
// metadata queries expected to return data. Errors propagate unmodified:
// no retry or recovery happens above this interface.
type Connection interface {
	Execute(ctx context.Context, stmt string) ([]Row, error)
	Load(ctx context.Context, query string) ([]Row, error)
	Close() error
}
