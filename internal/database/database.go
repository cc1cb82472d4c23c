package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Config for database connection
type Config struct {
	// Driver is "postgres" or "sqlite".
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
	Debug        bool
}

// DB is a sqlx handle that remembers which SQL dialect it speaks, so
// repositories can build statements with the matching quoting and
// placeholders.
type DB struct {
	*sqlx.DB
	dialect string
}

// Open connects to the configured database and checks that it answers.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	var (
		driverName string
		dsn        string
	)

	switch cfg.Driver {
	case "postgres", "":
		driverName = "postgres"
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		)
	case "sqlite":
		driverName = "sqlite"
		if err := ensureDir(cfg.SQLitePath); err != nil {
			return nil, err
		}
		dsn = sqliteDSN(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driverName == "sqlite" {
		// SQLite works best with a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		maxOpen := cfg.MaxOpenConns
		if maxOpen <= 0 {
			maxOpen = 25
		}
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := New(sqlDB, driverName)
	slog.Info("connected to database", "driver", driverName, "debug", cfg.Debug)
	return db, nil
}

// New wraps an already-open connection pool. driverName is the
// database/sql driver the pool was opened with.
func New(sqlDB *sql.DB, driverName string) *DB {
	d := dialect.Postgres
	if driverName == "sqlite" || driverName == "sqlite3" {
		d = dialect.SQLite
	}
	return &DB{DB: sqlx.NewDb(sqlDB, driverName), dialect: d}
}

// Dialect returns the ent dialect name ("postgres" or "sqlite3").
func (db *DB) Dialect() string {
	return db.dialect
}

// Builder starts a statement in this database's dialect.
func (db *DB) Builder() *entsql.DialectBuilder {
	return entsql.Dialect(db.dialect)
}

// WithTx runs fn in a transaction, committing when fn returns nil.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		return rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func rollback(tx *sqlx.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

func sqliteDSN(path string) string {
	dsn := path
	if path == ":memory:" {
		dsn = "file::memory:"
	} else if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func ensureDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	return nil
}
