package vault

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dsilva/worklog/internal/dbx"
	"github.com/dsilva/worklog/internal/vault/migrations"
)

// SQLiteStore keeps the credential record set in a local sqlite database.
// SaveAll replaces the whole set in one transaction, so the on-disk state
// is always a complete record set.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the credential database at
// path and applies the embedded migrations.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an already-open database, for tests.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadAll(ctx context.Context) (map[string]CredentialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username, salt, derived_key, iterations FROM credentials`)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	defer rows.Close()

	records := make(map[string]CredentialRecord)
	for rows.Next() {
		var rec CredentialRecord
		if err := rows.Scan(&rec.Username, &rec.Salt, &rec.DerivedKey, &rec.Iterations); err != nil {
			return nil, fmt.Errorf("scanning credential row: %w", err)
		}
		records[rec.Username] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating credential rows: %w", err)
	}

	return records, nil
}

func (s *SQLiteStore) SaveAll(ctx context.Context, records map[string]CredentialRecord) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
			return fmt.Errorf("clearing credentials: %w", err)
		}
		for _, rec := range records {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO credentials (username, salt, derived_key, iterations) VALUES (?, ?, ?, ?)`,
				rec.Username, rec.Salt, rec.DerivedKey, rec.Iterations)
			if err != nil {
				return fmt.Errorf("saving credential for %q: %w", rec.Username, err)
			}
		}
		return nil
	})
}
