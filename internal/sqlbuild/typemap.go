// Package sqlbuild generates the ordered SQL command lists a destination
// needs to create a table, evolve its schema, and materialize record
// batches. Every builder is a pure function of its inputs; execution is
// the connection collaborator's job.
package sqlbuild

import (
	"github.com/ayaz345/mage-ai/internal/dialect"
	"github.com/ayaz345/mage-ai/pkg/connector"
)

// ColumnTypeMapping converts a schema's abstract column types into concrete
// SQL types for the dialect. Keys are sanitized column names. Object
// columns fail with an UnsupportedTypeError unless the dialect defines a
// fallback type.
func ColumnTypeMapping(d dialect.Config, schema connector.Schema) (map[string]string, error) {
	mapping := make(map[string]string, len(schema.Columns))
	for _, col := range schema.Columns {
		sqlType, err := mapColumnType(d, col)
		if err != nil {
			return nil, err
		}
		mapping[connector.CleanColumnName(col.Name)] = sqlType
	}
	return mapping, nil
}

func mapColumnType(d dialect.Config, col connector.Column) (string, error) {
	t := col.Type
	if t.Format != "" {
		if mapped, ok := d.Override(string(t.Kind) + ":" + t.Format); ok {
			return mapped, nil
		}
	}
	if mapped, ok := d.Override(string(t.Kind)); ok {
		return mapped, nil
	}

	switch t.Kind {
	case connector.KindString:
		if t.Format == connector.FormatDateTime {
			return d.DateTimeType, nil
		}
		return d.StringType, nil
	case connector.KindNumber:
		return d.NumberType, nil
	case connector.KindInteger:
		return d.IntegerType, nil
	case connector.KindBoolean:
		return d.BooleanType, nil
	case connector.KindArray:
		return d.ArrayType(itemType(d, t.Item)), nil
	case connector.KindObject:
		if d.ObjectType != "" {
			return d.ObjectType, nil
		}
		return "", &connector.UnsupportedTypeError{Column: col.Name, Kind: t.Kind, Dialect: string(d.Name)}
	default:
		return "", &connector.UnsupportedTypeError{Column: col.Name, Kind: t.Kind, Dialect: string(d.Name)}
	}
}

// itemType maps an array's element kind. Unknown or missing item kinds fall
// back to the dialect string type; dialects whose ArrayType ignores the
// item never see the difference.
func itemType(d dialect.Config, item connector.Kind) string {
	if mapped, ok := d.Override(string(item)); ok && item != "" {
		return mapped
	}
	switch item {
	case connector.KindNumber:
		return d.NumberType
	case connector.KindInteger:
		return d.IntegerType
	case connector.KindBoolean:
		return d.BooleanType
	case connector.KindObject:
		if d.ObjectType != "" {
			return d.ObjectType
		}
		return d.StringType
	default:
		return d.StringType
	}
}
