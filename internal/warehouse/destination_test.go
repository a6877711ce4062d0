package warehouse

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ayaz345/mage-ai/internal/dialect"
	"github.com/ayaz345/mage-ai/pkg/connector"
)

func newTestDestination(t *testing.T) (*Destination, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	d, err := dialect.ForName("snowflake")
	if err != nil {
		t.Fatalf("dialect: %v", err)
	}
	return NewDestination(NewSQLConnection(db), d), mock
}

func usersTable() connector.TableIdent {
	return connector.TableIdent{Schema: "analytics", Table: "users"}
}

func idNameSchema() connector.Schema {
	return connector.Schema{Columns: []connector.Column{
		{Name: "id", Type: connector.ColumnType{Kind: connector.KindInteger}},
		{Name: "name", Type: connector.ColumnType{Kind: connector.KindString}},
	}}
}

const existsProbe = "SELECT 1 FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = 'ANALYTICS' AND TABLE_NAME = 'USERS'"

func TestEnsureTableCreatesWhenAbsent(t *testing.T) {
	dest, mock := newTestDestination(t)

	mock.ExpectQuery(regexp.QuoteMeta(existsProbe)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS analytics.users (id NUMBER, name STRING)")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := dest.EnsureTable(context.Background(), usersTable(), idNameSchema(), WriteOptions{}); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnsureTableAltersWhenColumnsMissing(t *testing.T) {
	dest, mock := newTestDestination(t)

	mock.ExpectQuery(regexp.QuoteMeta(existsProbe)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS")).
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}).AddRow("id"))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE analytics.users ADD COLUMN name STRING")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := dest.EnsureTable(context.Background(), usersTable(), idNameSchema(), WriteOptions{}); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnsureTableNoOpWhenLiveColumnsCoverSchema(t *testing.T) {
	dest, mock := newTestDestination(t)

	mock.ExpectQuery(regexp.QuoteMeta(existsProbe)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS")).
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}).AddRow("id").AddRow("name"))

	if err := dest.EnsureTable(context.Background(), usersTable(), idNameSchema(), WriteOptions{}); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestWriteBatchPlainInsertCountsInsertedRows(t *testing.T) {
	dest, mock := newTestDestination(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO analytics.users (id, name) VALUES (1, 'a'), (2, 'b')")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	records := []connector.Record{{"id": 1, "name": "a"}, {"id": 2, "name": "b"}}
	inserted, updated, err := dest.WriteBatch(context.Background(), usersTable(), idNameSchema(), records, WriteOptions{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("inserted = %d, want 2", inserted)
	}
	if updated != 0 {
		t.Fatalf("updated = %d, want 0", updated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestWriteBatchUpsertRunsFiveCommandsInOrder(t *testing.T) {
	dest, mock := newTestDestination(t)

	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS analytics.temp_users")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS analytics.temp_users (id NUMBER, name STRING)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO analytics.temp_users (id, name) VALUES (1, 'a'), (2, 'b')")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("MERGE INTO analytics.users AS a")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS analytics.temp_users")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	records := []connector.Record{{"id": 1, "name": "a"}, {"id": 2, "name": "b"}}
	inserted, _, err := dest.WriteBatch(context.Background(), usersTable(), idNameSchema(), records, WriteOptions{
		UniqueConstraints: []string{"id"},
		ConflictPolicy:    connector.ConflictUpdate,
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	// Staging insert and merge counts both accumulate.
	if inserted != 4 {
		t.Fatalf("inserted = %d, want 4", inserted)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestWriteBatchEmptyIssuesNoCommands(t *testing.T) {
	dest, mock := newTestDestination(t)

	inserted, updated, err := dest.WriteBatch(context.Background(), usersTable(), idNameSchema(), nil, WriteOptions{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if inserted != 0 || updated != 0 {
		t.Fatalf("expected zero counts, got %d/%d", inserted, updated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCleanupStagingDropsTempTable(t *testing.T) {
	dest, mock := newTestDestination(t)

	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS analytics.temp_users")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := dest.CleanupStaging(context.Background(), usersTable()); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTableExistsAndLoadColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	conn := NewSQLConnection(db)
	d, err := dialect.ForName("snowflake")
	if err != nil {
		t.Fatalf("dialect: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(existsProbe)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	exists, err := TableExists(context.Background(), conn, d, usersTable())
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("expected table to exist")
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS")).
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}).AddRow("id").AddRow("name"))
	cols, err := LoadColumns(context.Background(), conn, d, usersTable())
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "name" {
		t.Fatalf("columns = %v", cols)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
