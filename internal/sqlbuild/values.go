package sqlbuild

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/ayaz345/mage-ai/internal/dialect"
	"github.com/ayaz345/mage-ai/pkg/connector"
)

func renderTuple(d dialect.Config, schema connector.Schema, record connector.Record) (string, error) {
	parts := make([]string, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		value, ok := record[col.Name]
		if !ok {
			value, ok = record[connector.CleanColumnName(col.Name)]
		}
		lit, err := renderValue(d, col, value, ok)
		if err != nil {
			return "", err
		}
		parts = append(parts, lit)
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

func renderValue(d dialect.Config, col connector.Column, value any, present bool) (string, error) {
	if !present || value == nil {
		return "NULL", nil
	}

	switch col.Type.Kind {
	case connector.KindBoolean:
		return boolLiteral(col.Name, value)
	case connector.KindInteger:
		return integerLiteral(col.Name, value)
	case connector.KindNumber:
		return numberLiteral(col.Name, value)
	case connector.KindArray:
		return arrayLiteral(d, col, value)
	case connector.KindObject:
		return jsonLiteral(d, col.Name, value)
	default:
		return d.StringLiteral(stringify(value)), nil
	}
}

func arrayLiteral(d dialect.Config, col connector.Column, value any) (string, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", fmt.Errorf("column %s: %T is not an array value", col.Name, value)
	}

	item := col.Type.Item
	if item == "" {
		item = connector.KindString
	}
	elemCol := connector.Column{Name: col.Name, Type: connector.ColumnType{Kind: item}}

	elems := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		lit, err := renderValue(d, elemCol, rv.Index(i).Interface(), true)
		if err != nil {
			return "", err
		}
		elems = append(elems, lit)
	}
	return d.ArrayLiteral(elems), nil
}

func jsonLiteral(d dialect.Config, column string, value any) (string, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("column %s: marshal json value: %w", column, err)
	}
	if d.JSONLiteral != nil {
		return d.JSONLiteral(string(payload)), nil
	}
	return d.StringLiteral(string(payload)), nil
}

func boolLiteral(column string, value any) (string, error) {
	truthy := false
	switch v := value.(type) {
	case bool:
		truthy = v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return "", fmt.Errorf("column %s: invalid bool %q", column, v)
		}
		truthy = parsed
	case int, int8, int16, int32, int64:
		truthy = reflect.ValueOf(v).Int() != 0
	case float32, float64:
		truthy = reflect.ValueOf(v).Float() != 0
	default:
		return "", fmt.Errorf("column %s: cannot render %T as boolean", column, value)
	}
	if truthy {
		return "TRUE", nil
	}
	return "FALSE", nil
}

func integerLiteral(column string, value any) (string, error) {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10), nil
	case float32:
		return strconv.FormatInt(int64(v), 10), nil
	case float64:
		return strconv.FormatInt(int64(v), 10), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return strconv.FormatInt(i, 10), nil
		}
		f, err := v.Float64()
		if err != nil {
			return "", fmt.Errorf("column %s: invalid integer %q", column, v.String())
		}
		return strconv.FormatInt(int64(f), 10), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return "", fmt.Errorf("column %s: invalid integer %q", column, v)
		}
		return strconv.FormatInt(i, 10), nil
	default:
		return "", fmt.Errorf("column %s: cannot render %T as integer", column, value)
	}
}

func numberLiteral(column string, value any) (string, error) {
	switch v := value.(type) {
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10), nil
	case json.Number:
		return v.String(), nil
	case string:
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return "", fmt.Errorf("column %s: invalid number %q", column, v)
		}
		return strings.TrimSpace(v), nil
	default:
		return "", fmt.Errorf("column %s: cannot render %T as number", column, value)
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	case map[string]any, []any:
		payload, err := json.Marshal(v)
		if err == nil {
			return string(payload)
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
