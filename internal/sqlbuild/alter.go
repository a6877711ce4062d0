package sqlbuild

import (
	"fmt"
	"strings"

	"github.com/ayaz345/mage-ai/internal/dialect"
	"github.com/ayaz345/mage-ai/pkg/connector"
)

// BuildAlterTable diffs the schema against the live table's column names
// and returns one additive ALTER TABLE ... ADD COLUMN statement covering
// the missing columns in schema order, or "" when none are missing.
// Existing columns are never dropped or retyped; type changes for existing
// columns are not reconciled.
func BuildAlterTable(d dialect.Config, table connector.TableIdent, schema connector.Schema, liveColumns []string) (string, error) {
	live := make(map[string]struct{}, len(liveColumns))
	for _, name := range liveColumns {
		live[connector.CleanColumnName(name)] = struct{}{}
	}

	missing := make([]connector.Column, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		if _, ok := live[connector.CleanColumnName(col.Name)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return "", nil
	}

	mapping, err := ColumnTypeMapping(d, connector.Schema{Columns: missing})
	if err != nil {
		return "", err
	}

	adds := make([]string, 0, len(missing))
	for _, col := range missing {
		name := connector.CleanColumnName(col.Name)
		adds = append(adds, fmt.Sprintf("ADD COLUMN %s %s", name, mapping[name]))
	}
	return fmt.Sprintf("ALTER TABLE %s %s", d.TableName(table), strings.Join(adds, ", ")), nil
}
