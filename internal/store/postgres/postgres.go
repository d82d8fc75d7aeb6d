// Package postgres implements the activity store against a remote
// PostgreSQL database, reached through the pgx stdlib driver. The schema
// is managed with embedded goose migrations.
package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dsilva/worklog/internal/store/postgres/migrations"
)

// Open connects to the database named by dsn and brings the schema up to
// date. The returned handle is safe for concurrent use and should be
// closed by the caller on shutdown.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
