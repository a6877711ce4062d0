package sqlbuild

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/ayaz345/mage-ai/pkg/connector"
)

func TestPlainInsertTupleCountRapid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(rt, "n")
		records := make([]connector.Record, 0, n)
		for i := 0; i < n; i++ {
			records = append(records, connector.Record{
				"id":   rapid.Int64().Draw(rt, "id"),
				"name": rapid.StringMatching(`[a-z]{0,12}`).Draw(rt, "name"),
			})
		}

		cmds, err := BuildInsertCommands(bigquery(t), usersTable(), idNameSchema(), records, InsertOptions{})
		if err != nil {
			rt.Fatalf("insert: %v", err)
		}
		if len(cmds) != 1 {
			rt.Fatalf("expected 1 command, got %d", len(cmds))
		}
		// Tuples open with "(" after VALUES and after every ", (".
		values := cmds[0][strings.Index(cmds[0], " VALUES ")+len(" VALUES "):]
		got := strings.Count(values, "(")
		if got != n {
			rt.Fatalf("expected %d tuples, found %d in %q", n, got, values)
		}
	})
}

func TestAlterDiffSetAlgebraRapid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z][a-z0-9_]{0,6}`), 1, 8, rapid.ID[string]).Draw(rt, "names")
		cols := make([]connector.Column, 0, len(names))
		for _, name := range names {
			cols = append(cols, connector.Column{Name: name, Type: connector.ColumnType{Kind: connector.KindString}})
		}
		schema := connector.Schema{Columns: cols}

		liveCount := rapid.IntRange(0, len(names)).Draw(rt, "liveCount")
		live := names[:liveCount]

		stmt, err := BuildAlterTable(bigquery(t), usersTable(), schema, live)
		if err != nil {
			rt.Fatalf("alter: %v", err)
		}

		if liveCount == len(names) {
			if stmt != "" {
				rt.Fatalf("expected no-op when all columns live: %q", stmt)
			}
			return
		}
		if stmt == "" {
			rt.Fatalf("expected alter statement for %d missing columns", len(names)-liveCount)
		}
		for _, name := range names[liveCount:] {
			if !strings.Contains(stmt, "ADD COLUMN "+name+" ") {
				rt.Fatalf("missing column %q not added: %q", name, stmt)
			}
		}
		for _, name := range live {
			if strings.Contains(stmt, "ADD COLUMN "+name+" ") {
				rt.Fatalf("live column %q re-added: %q", name, stmt)
			}
		}
	})
}

func TestUpsertAlwaysFiveCommandsRapid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(rt, "n")
		records := make([]connector.Record, 0, n)
		for i := 0; i < n; i++ {
			records = append(records, connector.Record{"id": i, "name": "r"})
		}
		policy := rapid.SampledFrom([]connector.ConflictPolicy{connector.ConflictUpdate, connector.ConflictIgnore}).Draw(rt, "policy")

		cmds, err := BuildInsertCommands(bigquery(t), usersTable(), idNameSchema(), records, InsertOptions{
			UniqueConstraints: []string{"id"},
			ConflictPolicy:    policy,
		})
		if err != nil {
			rt.Fatalf("upsert: %v", err)
		}
		if len(cmds) != 5 {
			rt.Fatalf("expected 5 commands, got %d", len(cmds))
		}
	})
}

func TestCommandGenerationIdempotentRapid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		records := []connector.Record{{
			"id":   rapid.Int64().Draw(rt, "id"),
			"name": rapid.StringMatching(`[ -~]{0,16}`).Draw(rt, "name"),
		}}
		opts := InsertOptions{UniqueConstraints: []string{"id"}, ConflictPolicy: connector.ConflictUpdate}

		first, err := BuildInsertCommands(bigquery(t), usersTable(), idNameSchema(), records, opts)
		if err != nil {
			rt.Fatalf("first build: %v", err)
		}
		second, err := BuildInsertCommands(bigquery(t), usersTable(), idNameSchema(), records, opts)
		if err != nil {
			rt.Fatalf("second build: %v", err)
		}
		if len(first) != len(second) {
			rt.Fatalf("command counts differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				rt.Fatalf("command %d differs:\n%s\n%s", i, first[i], second[i])
			}
		}
	})
}
