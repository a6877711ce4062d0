package warehouse

import (
	"context"
	"fmt"

	"github.com/ayaz345/mage-ai/internal/dialect"
	"github.com/ayaz345/mage-ai/pkg/connector"
)

// TableExists probes the destination catalog for the table. Presence of any
// result row means the table exists.
func TableExists(ctx context.Context, conn connector.Connection, d dialect.Config, table connector.TableIdent) (bool, error) {
	rows, err := conn.Load(ctx, d.ExistsQuery(table))
	if err != nil {
		return false, fmt.Errorf("probe %s: %w", d.TableName(table), err)
	}
	return len(rows) > 0, nil
}

// LoadColumns returns the live column names of the table, taken from the
// first field of each catalog row.
func LoadColumns(ctx context.Context, conn connector.Connection, d dialect.Config, table connector.TableIdent) ([]string, error) {
	rows, err := conn.Load(ctx, d.ColumnsQuery(table))
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", d.TableName(table), err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("columns of %s: unexpected catalog value %T", d.TableName(table), row[0])
		}
		names = append(names, name)
	}
	return names, nil
}
