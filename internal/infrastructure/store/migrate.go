package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/inventory-api/internal/infrastructure/store/migrations"
	"github.com/pressly/goose/v3"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func migrate(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}
	return nil
}

// MigratePostgres creates the users schema.
func MigratePostgres(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, "postgres", "postgres")
}

// MigrateMySQL creates the books schema.
func MigrateMySQL(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, "mysql", "mysql")
}
