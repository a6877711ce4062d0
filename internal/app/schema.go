package app

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ayaz345/mage-ai/pkg/connector"
)

type schemaFile struct {
	Columns []schemaColumn `yaml:"columns"`
}

type schemaColumn struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Items  string `yaml:"items"`
	Format string `yaml:"format"`
}

// LoadSchema reads a stream schema from a YAML file. Column order in the
// file is the order of every generated statement.
func LoadSchema(path string) (connector.Schema, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return connector.Schema{}, fmt.Errorf("read schema file: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes a YAML schema document.
func ParseSchema(data []byte) (connector.Schema, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return connector.Schema{}, fmt.Errorf("parse schema: %w", err)
	}
	if len(file.Columns) == 0 {
		return connector.Schema{}, fmt.Errorf("parse schema: no columns")
	}

	cols := make([]connector.Column, 0, len(file.Columns))
	for i, col := range file.Columns {
		if col.Name == "" {
			return connector.Schema{}, fmt.Errorf("parse schema: column %d has no name", i)
		}
		kind, err := parseKind(col.Type)
		if err != nil {
			return connector.Schema{}, fmt.Errorf("parse schema: column %s: %w", col.Name, err)
		}
		var item connector.Kind
		if col.Items != "" {
			item, err = parseKind(col.Items)
			if err != nil {
				return connector.Schema{}, fmt.Errorf("parse schema: column %s items: %w", col.Name, err)
			}
		}
		cols = append(cols, connector.Column{
			Name: col.Name,
			Type: connector.ColumnType{Kind: kind, Item: item, Format: col.Format},
		})
	}
	return connector.Schema{Columns: cols}, nil
}

func parseKind(value string) (connector.Kind, error) {
	switch kind := connector.Kind(value); kind {
	case connector.KindString, connector.KindNumber, connector.KindInteger,
		connector.KindBoolean, connector.KindArray, connector.KindObject:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown type %q", value)
	}
}
