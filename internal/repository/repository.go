// Package repository persists Pronote records. Statements are built with
// ent's dialect-aware SQL builder and scanned with sqlx.
package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// pgUniqueViolation is the postgres SQLSTATE for a unique index conflict.
const pgUniqueViolation = "23505"

// now is the timestamp source for created_at/updated_at columns. Times are
// stored in UTC so text-backed stores order them correctly.
var now = func() time.Time {
	return time.Now().UTC()
}

// isUniqueViolation reports whether err is a unique or primary key conflict
// from either supported driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
