package database

import (
	"context"
	"errors"
	"sort"
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entschema "github.com/gurkanbulca/pronote/ent/schema"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{":memory:", "file::memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"data/pronote.db", "file:data/pronote.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:x.db?mode=ro", "file:x.db?mode=ro&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.path))
		})
	}
}

func TestMigrate(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx))
	// second run is a no-op
	require.NoError(t, db.Migrate(ctx))

	var names []string
	require.NoError(t, db.SelectContext(ctx, &names,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"))
	assert.Equal(t, []string{"messages", "sub_tasks", "tasks", "users"}, names)

	assert.Equal(t, dialect.SQLite, db.Dialect())
}

func TestMigrate_ForeignKeysEnforced(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))

	query, args := db.Builder().Insert("sub_tasks").
		Columns("task_id", "id", "name", "done", "position").
		Values("no-such-task", "1", "orphan", false, 0).
		Query()
	_, err := db.ExecContext(ctx, query, args...)
	assert.Error(t, err)
}

func TestWithTx(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))

	insertUser := func(tx *sqlx.Tx, id string) error {
		query, args := db.Builder().Insert("users").
			Columns("id", "email", "password_hash", "first_name", "last_name", "job", "created_at", "updated_at").
			Values(id, id+"@example.com", "hash", "", "", "", "2024-01-01 00:00:00", "2024-01-01 00:00:00").
			Query()
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	}

	boom := errors.New("boom")
	err := db.WithTx(ctx, func(tx *sqlx.Tx) error {
		require.NoError(t, insertUser(tx, "u1"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return insertUser(tx, "u2")
	}))

	var ids []string
	require.NoError(t, db.SelectContext(ctx, &ids, "SELECT id FROM users"))
	assert.Equal(t, []string{"u2"}, ids)
}

func TestWithTx_BeginFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectBegin().WillReturnError(errors.New("connection reset"))

	db := New(sqlDB, "postgres")
	assert.Equal(t, dialect.Postgres, db.Dialect())

	err = db.WithTx(context.Background(), func(*sqlx.Tx) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The hand-declared tables must carry exactly the fields of the ent entities.
func TestTablesMatchEntSchema(t *testing.T) {
	tests := []struct {
		name   string
		fields []ent.Field
		table  string
	}{
		{"user", entschema.User{}.Fields(), UsersTable.Name},
		{"task", entschema.Task{}.Fields(), TasksTable.Name},
		{"sub_task", entschema.SubTask{}.Fields(), SubTasksTable.Name},
		{"message", entschema.Message{}.Fields(), MessagesTable.Name},
	}

	byName := make(map[string][]string)
	for _, tbl := range Tables {
		byName[tbl.Name] = ColumnNames(tbl)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fieldNames []string
			for _, f := range tt.fields {
				fieldNames = append(fieldNames, f.Descriptor().Name)
			}
			columns := append([]string(nil), byName[tt.table]...)

			sort.Strings(fieldNames)
			sort.Strings(columns)
			assert.Equal(t, fieldNames, columns)
		})
	}
}
