package dialect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	optTypeMappings     = "type_mappings"
	optTypeMappingsFile = "type_mappings_file"
)

// LoadTypeMappings loads per-destination type overrides from connector
// options: inline YAML/JSON under type_mappings, or a file path under
// type_mappings_file. Keys are abstract kinds (or kind:format pairs such
// as string:date-time), values are SQL types.
func LoadTypeMappings(options map[string]string) (map[string]string, error) {
	if options == nil {
		return nil, nil
	}
	if raw := strings.TrimSpace(options[optTypeMappings]); raw != "" {
		return parseTypeMappings(raw)
	}
	if path := strings.TrimSpace(options[optTypeMappingsFile]); path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read type mappings file: %w", err)
		}
		return parseTypeMappings(string(data))
	}
	return nil, nil
}

// WithOverrides returns a copy of the config with overrides merged in,
// later maps winning.
func (c Config) WithOverrides(overrides ...map[string]string) Config {
	merged := make(map[string]string, len(c.Overrides))
	for key, value := range c.Overrides {
		merged[normalizeKindKey(key)] = strings.TrimSpace(value)
	}
	for _, m := range overrides {
		for key, value := range m {
			if key == "" {
				continue
			}
			merged[normalizeKindKey(key)] = strings.TrimSpace(value)
		}
	}
	if len(merged) == 0 {
		merged = nil
	}
	out := c
	out.Overrides = merged
	return out
}

// Override looks up an override for the given kind key.
func (c Config) Override(key string) (string, bool) {
	if len(c.Overrides) == 0 {
		return "", false
	}
	mapped, ok := c.Overrides[normalizeKindKey(key)]
	return mapped, ok
}

func parseTypeMappings(raw string) (map[string]string, error) {
	var mappings map[string]string
	data := []byte(raw)
	if err := json.Unmarshal(data, &mappings); err != nil {
		if err := yaml.Unmarshal(data, &mappings); err != nil {
			return nil, fmt.Errorf("parse type_mappings: %w", err)
		}
	}
	out := make(map[string]string, len(mappings))
	for key, value := range mappings {
		normalized := normalizeKindKey(key)
		if normalized == "" {
			continue
		}
		out[normalized] = strings.TrimSpace(value)
	}
	return out, nil
}

func normalizeKindKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
