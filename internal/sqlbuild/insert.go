package sqlbuild

import (
	"fmt"
	"strings"

	"github.com/ayaz345/mage-ai/internal/dialect"
	"github.com/ayaz345/mage-ai/pkg/connector"
)

// InsertOptions selects between the plain-insert and merge-upsert paths.
// Both fields must be set for the upsert path to engage.
type InsertOptions struct {
	UniqueConstraints []string
	ConflictPolicy    connector.ConflictPolicy
}

// BuildInsertCommands serializes the batch into literal VALUES tuples and
// returns the ordered command list that materializes it.
//
// Without unique constraints and a conflict policy: one INSERT covering the
// whole batch. With both: the five-statement merge-via-staging sequence
// (drop staging, create staging, insert into staging, merge, drop staging).
// Duplicate keys within one batch are not de-duplicated; the dialect's
// native merge semantics govern which staging row wins.
func BuildInsertCommands(d dialect.Config, table connector.TableIdent, schema connector.Schema, records []connector.Record, opts InsertOptions) ([]string, error) {
	// Surface unmappable columns before any serialization work.
	if _, err := ColumnTypeMapping(d, schema); err != nil {
		return nil, err
	}

	cols := connector.CleanColumnNames(schema.ColumnNames())
	tuples := make([]string, 0, len(records))
	for _, record := range records {
		tuple, err := renderTuple(d, schema, record)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, tuple)
	}

	insertInto := func(t connector.TableIdent) string {
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			d.TableName(t), strings.Join(cols, ", "), strings.Join(tuples, ", "))
	}

	if len(opts.UniqueConstraints) == 0 || opts.ConflictPolicy == "" {
		return []string{insertInto(table)}, nil
	}
	if !d.SupportsMerge {
		return nil, connector.ErrMergeUnsupported
	}

	staging := table.Staging()
	dropStaging := BuildDropStaging(d, table)
	// Staging DDL never carries unique constraints or partitioning; the
	// target dialect may not support them and the table lives for one batch.
	createStaging, err := BuildCreateTable(d, staging, schema, CreateTableOptions{})
	if err != nil {
		return nil, err
	}
	merge := buildMerge(d, table, staging, cols, connector.CleanColumnNames(opts.UniqueConstraints), opts.ConflictPolicy)

	return []string{
		dropStaging,
		createStaging,
		insertInto(staging),
		merge,
		dropStaging,
	}, nil
}

// BuildDropStaging renders the statement that removes a table's staging
// counterpart. Also used for explicit cleanup after a failed merge.
func BuildDropStaging(d dialect.Config, table connector.TableIdent) string {
	return "DROP TABLE IF EXISTS " + d.TableName(table.Staging())
}

func buildMerge(d dialect.Config, target, staging connector.TableIdent, cols, keys []string, policy connector.ConflictPolicy) string {
	keySet := make(map[string]struct{}, len(keys))
	onParts := make([]string, 0, len(keys))
	for _, key := range keys {
		keySet[key] = struct{}{}
		onParts = append(onParts, fmt.Sprintf("a.%s = b.%s", key, key))
	}

	lines := []string{
		fmt.Sprintf("MERGE INTO %s AS a", d.TableName(target)),
		fmt.Sprintf("USING (SELECT * FROM %s) AS b", d.TableName(staging)),
		"ON " + strings.Join(onParts, " AND "),
	}

	if policy == connector.ConflictUpdate {
		sets := make([]string, 0, len(cols))
		for _, col := range cols {
			if _, isKey := keySet[col]; isKey {
				continue
			}
			sets = append(sets, fmt.Sprintf("a.%s = b.%s", col, col))
		}
		// A schema whose every column is a key has nothing to update.
		if len(sets) > 0 {
			lines = append(lines, "WHEN MATCHED THEN UPDATE SET "+strings.Join(sets, ", "))
		}
	}

	sourceCols := make([]string, 0, len(cols))
	for _, col := range cols {
		sourceCols = append(sourceCols, "b."+col)
	}
	lines = append(lines, fmt.Sprintf("WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s)",
		strings.Join(cols, ", "), strings.Join(sourceCols, ", ")))

	return strings.Join(lines, "\n")
}
