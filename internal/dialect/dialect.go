// Package dialect describes the SQL capabilities of target warehouses as
// plain configuration objects passed into the statement builders.
package dialect

import (
	"fmt"
	"strings"

	"github.com/ayaz345/mage-ai/pkg/connector"
)

// Name identifies a downstream SQL dialect.
type Name string

const (
	BigQuery   Name = "bigquery"
	Snowflake  Name = "snowflake"
	ClickHouse Name = "clickhouse"
	DuckDB     Name = "duckdb"
	Postgres   Name = "postgres"
)

// Config describes SQL formatting and capabilities for a destination.
// Builders consult it instead of branching on dialect names.
type Config struct {
	Name  Name
	Quote string

	// Type rules for the abstract column kinds. ObjectType empty means
	// object columns are unsupported for this dialect.
	StringType   string
	NumberType   string
	IntegerType  string
	BooleanType  string
	DateTimeType string
	ObjectType   string

	// ArrayType renders the SQL type for an array column given the mapped
	// item type. BigQuery and Snowflake ignore the item type entirely.
	ArrayType func(item string) string

	// ArrayLiteral renders an array value from already-rendered elements.
	ArrayLiteral func(elems []string) string

	// StringLiteral quotes and escapes a string value.
	StringLiteral func(value string) string

	// JSONLiteral renders a JSON payload for object-typed columns. Only
	// consulted when ObjectType is set.
	JSONLiteral func(payload string) string

	SupportsPartitioning      bool
	SupportsUniqueConstraints bool
	SupportsMerge             bool

	// PartitionTemplate formats the clause appended to CREATE TABLE; the
	// single verb is the sanitized partition column.
	PartitionTemplate string

	// CreateSuffix is appended to every CREATE TABLE statement (e.g. the
	// ClickHouse engine clause).
	CreateSuffix string

	// ExistsQuery probes table existence through the connection's Load.
	ExistsQuery func(t connector.TableIdent) string

	// ColumnsQuery loads the live column names of a table, first field of
	// each row, in ordinal position order where the dialect supports it.
	ColumnsQuery func(t connector.TableIdent) string

	// Overrides maps abstract kinds to SQL types, winning over the rules
	// above. Populated from connector options, see LoadTypeMappings.
	Overrides map[string]string
}

// TableName renders a qualified table name from the non-empty parts of the
// identifier, sanitizing each part.
func (c Config) TableName(t connector.TableIdent) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{t.Database, t.Schema, t.Table} {
		if strings.TrimSpace(part) == "" {
			continue
		}
		parts = append(parts, connector.CleanColumnName(part))
	}
	return strings.Join(parts, ".")
}

// ForName resolves a dialect configuration by name.
func ForName(name string) (Config, error) {
	switch Name(strings.ToLower(strings.TrimSpace(name))) {
	case BigQuery:
		return bigQueryConfig(), nil
	case Snowflake:
		return snowflakeConfig(), nil
	case ClickHouse:
		return clickHouseConfig(), nil
	case DuckDB:
		return duckDBConfig(), nil
	case Postgres:
		return postgresConfig(), nil
	default:
		return Config{}, fmt.Errorf("unknown dialect %q", name)
	}
}

func bigQueryConfig() Config {
	return Config{
		Name:         BigQuery,
		Quote:        "`",
		StringType:   "STRING",
		NumberType:   "FLOAT64",
		IntegerType:  "INT64",
		BooleanType:  "BOOLEAN",
		DateTimeType: "TIMESTAMP",
		// BigQuery renders a bare ARRAY regardless of item type.
		ArrayType:     func(string) string { return "ARRAY" },
		ArrayLiteral:  bracketArrayLiteral,
		StringLiteral: backslashStringLiteral,
		// BigQuery doesn't support unique constraints.
		SupportsPartitioning: true,
		SupportsMerge:        true,
		PartitionTemplate:    "\nPARTITION BY\n  DATE(%s)",
		ExistsQuery: func(t connector.TableIdent) string {
			summary := connector.CleanColumnName(t.Database) + "." + connector.CleanColumnName(t.Schema) + ".__TABLES_SUMMARY__"
			return fmt.Sprintf("SELECT 1 FROM `%s` WHERE table_id = '%s'", summary, connector.CleanColumnName(t.Table))
		},
		ColumnsQuery: func(t connector.TableIdent) string {
			return fmt.Sprintf(
				"SELECT column_name, data_type FROM %s.INFORMATION_SCHEMA.COLUMNS WHERE TABLE_NAME = '%s'",
				connector.CleanColumnName(t.Schema), connector.CleanColumnName(t.Table),
			)
		},
	}
}

func snowflakeConfig() Config {
	return Config{
		Name:          Snowflake,
		Quote:         "\"",
		StringType:    "STRING",
		NumberType:    "FLOAT",
		IntegerType:   "NUMBER",
		BooleanType:   "BOOLEAN",
		DateTimeType:  "TIMESTAMP_TZ",
		ObjectType:    "VARIANT",
		ArrayType:     func(string) string { return "ARRAY" },
		ArrayLiteral:  func(elems []string) string { return "ARRAY_CONSTRUCT(" + strings.Join(elems, ", ") + ")" },
		StringLiteral: doubledStringLiteral,
		JSONLiteral:   func(payload string) string { return "PARSE_JSON(" + doubledStringLiteral(payload) + ")" },
		// Snowflake accepts unique constraints but does not enforce them.
		SupportsUniqueConstraints: true,
		SupportsMerge:             true,
		ExistsQuery: func(t connector.TableIdent) string {
			return fmt.Sprintf(
				"SELECT 1 FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = '%s' AND TABLE_NAME = '%s'",
				strings.ToUpper(connector.CleanColumnName(t.Schema)), strings.ToUpper(connector.CleanColumnName(t.Table)),
			)
		},
		ColumnsQuery: func(t connector.TableIdent) string {
			return fmt.Sprintf(
				"SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = '%s' AND TABLE_NAME = '%s' ORDER BY ORDINAL_POSITION",
				strings.ToUpper(connector.CleanColumnName(t.Schema)), strings.ToUpper(connector.CleanColumnName(t.Table)),
			)
		},
	}
}

func clickHouseConfig() Config {
	return Config{
		Name:          ClickHouse,
		Quote:         "`",
		StringType:    "String",
		NumberType:    "Float64",
		IntegerType:   "Int64",
		BooleanType:   "Bool",
		DateTimeType:  "DateTime64(3)",
		ObjectType:    "String",
		ArrayType:     func(item string) string { return "Array(" + item + ")" },
		ArrayLiteral:  bracketArrayLiteral,
		StringLiteral: backslashStringLiteral,
		// ClickHouse resolves duplicates through its table engine, not MERGE.
		SupportsPartitioning: true,
		PartitionTemplate:    "\nPARTITION BY toDate(%s)",
		CreateSuffix:         " ENGINE = MergeTree() ORDER BY tuple()",
		ExistsQuery: func(t connector.TableIdent) string {
			return fmt.Sprintf(
				"SELECT 1 FROM system.tables WHERE database = '%s' AND name = '%s'",
				connector.CleanColumnName(t.Schema), connector.CleanColumnName(t.Table),
			)
		},
		ColumnsQuery: func(t connector.TableIdent) string {
			return fmt.Sprintf(
				"SELECT name FROM system.columns WHERE database = '%s' AND table = '%s' ORDER BY position",
				connector.CleanColumnName(t.Schema), connector.CleanColumnName(t.Table),
			)
		},
	}
}

func duckDBConfig() Config {
	return Config{
		Name:                      DuckDB,
		Quote:                     "\"",
		StringType:                "VARCHAR",
		NumberType:                "DOUBLE",
		IntegerType:               "BIGINT",
		BooleanType:               "BOOLEAN",
		DateTimeType:              "TIMESTAMP",
		ObjectType:                "JSON",
		ArrayType:                 func(item string) string { return item + "[]" },
		ArrayLiteral:              bracketArrayLiteral,
		StringLiteral:             doubledStringLiteral,
		SupportsUniqueConstraints: true,
		SupportsMerge:             true,
		ExistsQuery:               informationSchemaExists,
		ColumnsQuery:              informationSchemaColumns,
	}
}

func postgresConfig() Config {
	return Config{
		Name:          Postgres,
		Quote:         "\"",
		StringType:    "TEXT",
		NumberType:    "DOUBLE PRECISION",
		IntegerType:   "BIGINT",
		BooleanType:   "BOOLEAN",
		DateTimeType:  "TIMESTAMPTZ",
		ObjectType:    "JSONB",
		ArrayType:     func(item string) string { return item + "[]" },
		ArrayLiteral:  func(elems []string) string { return "ARRAY[" + strings.Join(elems, ", ") + "]" },
		StringLiteral: doubledStringLiteral,
		// Postgres 15 added MERGE.
		SupportsUniqueConstraints: true,
		SupportsMerge:             true,
		ExistsQuery:               informationSchemaExists,
		ColumnsQuery:              informationSchemaColumns,
	}
}

func informationSchemaExists(t connector.TableIdent) string {
	return fmt.Sprintf(
		"SELECT 1 FROM information_schema.tables WHERE table_schema = '%s' AND table_name = '%s'",
		connector.CleanColumnName(t.Schema), connector.CleanColumnName(t.Table),
	)
}

func informationSchemaColumns(t connector.TableIdent) string {
	return fmt.Sprintf(
		"SELECT column_name FROM information_schema.columns WHERE table_schema = '%s' AND table_name = '%s' ORDER BY ordinal_position",
		connector.CleanColumnName(t.Schema), connector.CleanColumnName(t.Table),
	)
}

func bracketArrayLiteral(elems []string) string {
	return "[" + strings.Join(elems, ", ") + "]"
}

func backslashStringLiteral(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "'", `\'`)
	return "'" + value + "'"
}

func doubledStringLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
