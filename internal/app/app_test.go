package app

import (
	"testing"

	"github.com/ayaz345/mage-ai/internal/config"
	"github.com/ayaz345/mage-ai/pkg/connector"
)

func TestDialectAppliesTypeMappings(t *testing.T) {
	cfg := &config.Config{
		Dialect: "bigquery",
		Stream: config.StreamConfig{
			TypeMappings: "integer: NUMERIC",
		},
	}
	d, err := Dialect(cfg)
	if err != nil {
		t.Fatalf("dialect: %v", err)
	}
	mapped, ok := d.Override("integer")
	if !ok || mapped != "NUMERIC" {
		t.Fatalf("override = %q, %v", mapped, ok)
	}
}

func TestWriteOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Stream: config.StreamConfig{
			PartitionKey:      "created_at",
			UniqueConstraints: []string{"id"},
			ConflictPolicy:    "update",
		},
	}
	opts := WriteOptions(cfg)
	if opts.Partition != "created_at" {
		t.Fatalf("partition = %q", opts.Partition)
	}
	if opts.ConflictPolicy != connector.ConflictUpdate {
		t.Fatalf("policy = %q", opts.ConflictPolicy)
	}
}

func TestTableIdentFromConfig(t *testing.T) {
	cfg := &config.Config{
		Database: "proj",
		Schema:   "analytics",
		Stream:   config.StreamConfig{Table: "users"},
	}
	ident := TableIdent(cfg)
	if ident != (connector.TableIdent{Database: "proj", Schema: "analytics", Table: "users"}) {
		t.Fatalf("ident = %+v", ident)
	}
}
