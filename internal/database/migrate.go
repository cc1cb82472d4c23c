package database

import (
	"context"
	"fmt"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
)

// Migrate creates missing tables and brings existing ones in line with
// Tables. It is safe to run on every start.
func (db *DB) Migrate(ctx context.Context) error {
	slog.Info("running schema migration", "dialect", db.dialect)

	m, err := schema.NewMigrate(
		entsql.OpenDB(db.dialect, db.DB.DB),
		schema.WithDropIndex(true),
		schema.WithDropColumn(true),
		schema.WithForeignKeys(true),
	)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("run migration: %w", err)
	}

	slog.Info("schema migration completed")
	return nil
}
