// sink-plan prints the SQL a sink run would execute, without connecting to
// any destination.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayaz345/mage-ai/internal/app"
	"github.com/ayaz345/mage-ai/internal/dialect"
	"github.com/ayaz345/mage-ai/internal/sqlbuild"
	"github.com/ayaz345/mage-ai/pkg/connector"
)

func main() {
	if err := newPlanCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPlanCommand() *cobra.Command {
	command := &cobra.Command{
		Use:          "sink-plan",
		Short:        "Print the SQL commands a sink run would execute",
		SilenceUsage: true,
		RunE:         runPlan,
	}
	command.Flags().String("dialect", "bigquery", "destination SQL dialect")
	command.Flags().String("database", "", "destination database or project")
	command.Flags().String("schema", "", "destination schema or dataset")
	command.Flags().String("table", "", "destination table")
	command.Flags().String("schema-file", "", "YAML stream schema path")
	command.Flags().String("input", "", "NDJSON records path, empty to plan DDL only")
	command.Flags().String("partition-key", "", "partition column")
	command.Flags().StringSlice("unique-constraints", nil, "key columns for the merge path")
	command.Flags().String("conflict-policy", "", "update or ignore")
	command.Flags().String("type-mappings", "", "inline YAML/JSON type overrides")
	command.Flags().String("type-mappings-file", "", "type overrides file path")
	command.PersistentPreRunE = func(*cobra.Command, []string) error {
		viper.Reset()
		viper.SetEnvPrefix("SINK_PLAN")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		return nil
	}
	command.InitDefaultCompletionCmd()
	return command
}

func runPlan(cmd *cobra.Command, _ []string) error {
	dialectName := resolveStringFlag(cmd, "dialect")
	schemaFile := resolveStringFlag(cmd, "schema-file")
	if schemaFile == "" {
		return fmt.Errorf("--schema-file is required")
	}
	tableName := resolveStringFlag(cmd, "table")
	if tableName == "" {
		return fmt.Errorf("--table is required")
	}

	d, err := dialect.ForName(dialectName)
	if err != nil {
		return err
	}
	overrides, err := dialect.LoadTypeMappings(map[string]string{
		"type_mappings":      resolveStringFlag(cmd, "type-mappings"),
		"type_mappings_file": resolveStringFlag(cmd, "type-mappings-file"),
	})
	if err != nil {
		return err
	}
	d = d.WithOverrides(overrides)

	schema, err := app.LoadSchema(schemaFile)
	if err != nil {
		return err
	}

	target := connector.TableIdent{
		Database: resolveStringFlag(cmd, "database"),
		Schema:   resolveStringFlag(cmd, "schema"),
		Table:    tableName,
	}
	constraints := resolveStringSliceFlag(cmd, "unique-constraints")

	var commands []string
	create, err := sqlbuild.BuildCreateTable(d, target, schema, sqlbuild.CreateTableOptions{
		Partition:         resolveStringFlag(cmd, "partition-key"),
		UniqueConstraints: constraints,
	})
	if err != nil {
		return err
	}
	commands = append(commands, create)

	if input := resolveStringFlag(cmd, "input"); input != "" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		records, err := app.NewBatchReader(f, 1000).ReadAll()
		if err != nil {
			return err
		}
		inserts, err := sqlbuild.BuildInsertCommands(d, target, schema, records, sqlbuild.InsertOptions{
			UniqueConstraints: constraints,
			ConflictPolicy:    connector.ConflictPolicy(resolveStringFlag(cmd, "conflict-policy")),
		})
		if err != nil {
			return err
		}
		commands = append(commands, inserts...)
	}

	for i, command := range commands {
		fmt.Printf("-- command %d\n%s;\n\n", i+1, command)
	}
	renderPlanSummary(commands)
	return nil
}

func renderPlanSummary(commands []string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "verb", "bytes"})
	for i, command := range commands {
		verb := command
		if idx := strings.IndexByte(command, ' '); idx > 0 {
			verb = command[:idx]
		}
		t.AppendRow(table.Row{strconv.Itoa(i + 1), verb, strconv.Itoa(len(command))})
	}
	t.Render()
}

func resolveStringFlag(cmd *cobra.Command, key string) string {
	value, err := cmd.Flags().GetString(key)
	if err != nil {
		return ""
	}
	if f := cmd.Flags().Lookup(key); f == nil || (!f.Changed && viper.IsSet(key)) {
		return viper.GetString(key)
	}
	return value
}

func resolveStringSliceFlag(cmd *cobra.Command, key string) []string {
	value, err := cmd.Flags().GetStringSlice(key)
	if err != nil {
		return nil
	}
	if f := cmd.Flags().Lookup(key); f == nil || (!f.Changed && viper.IsSet(key)) {
		return viper.GetStringSlice(key)
	}
	return value
}
