package sqlbuild

import (
	"fmt"
	"strings"

	"github.com/ayaz345/mage-ai/internal/dialect"
	"github.com/ayaz345/mage-ai/pkg/connector"
)

// CreateTableOptions carries stream-level settings for table creation.
type CreateTableOptions struct {
	// Partition is the date/time partition column, empty for none. Only
	// the first configured partition key of a stream ends up here.
	Partition string

	// UniqueConstraints are rendered into the DDL only when the dialect
	// supports them; otherwise silently omitted.
	UniqueConstraints []string
}

// BuildCreateTable produces exactly one CREATE TABLE statement listing
// every schema column with its mapped type, in schema order.
func BuildCreateTable(d dialect.Config, table connector.TableIdent, schema connector.Schema, opts CreateTableOptions) (string, error) {
	mapping, err := ColumnTypeMapping(d, schema)
	if err != nil {
		return "", err
	}

	defs := make([]string, 0, len(schema.Columns)+1)
	for _, col := range schema.Columns {
		name := connector.CleanColumnName(col.Name)
		defs = append(defs, name+" "+mapping[name])
	}
	if len(opts.UniqueConstraints) > 0 && d.SupportsUniqueConstraints {
		keys := connector.CleanColumnNames(opts.UniqueConstraints)
		defs = append(defs, "UNIQUE ("+strings.Join(keys, ", ")+")")
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)%s",
		d.TableName(table), strings.Join(defs, ", "), d.CreateSuffix)
	if opts.Partition != "" && d.SupportsPartitioning {
		stmt += fmt.Sprintf(d.PartitionTemplate, connector.CleanColumnName(opts.Partition))
	}
	return stmt, nil
}
