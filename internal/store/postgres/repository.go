package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dsilva/worklog/internal/common"
	"github.com/dsilva/worklog/internal/dbx"
	"github.com/dsilva/worklog/internal/store"
)

const sessionColumns = `id, activity_type, description, owner_id, started_at, ended_at, hours_worked`

// Repository is the PostgreSQL-backed activity store. Timestamps are taken
// in loc so the calendar breakout columns match the configured timezone.
type Repository struct {
	db  dbx.DBTX
	loc *time.Location
	now func() time.Time
}

func NewRepository(db dbx.DBTX, loc *time.Location) *Repository {
	return &Repository{db: db, loc: loc, now: time.Now}
}

// unavailable classifies backend/transport failures so callers can match
// them with errors.Is(err, common.ErrStoreUnavailable).
func unavailable(err error) error {
	return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
}

func (r *Repository) CreateSession(ctx context.Context, activityType, description, ownerID string) (string, error) {
	id := uuid.NewString()
	start := r.now().In(r.loc)

	query := `
		INSERT INTO activities (id, activity_type, description, owner_id, started_at, year, month, day)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`

	_, err := r.db.ExecContext(ctx, query,
		id, activityType, description, ownerID, start, start.Year(), int(start.Month()), start.Day())
	if err != nil {
		return "", unavailable(err)
	}

	return id, nil
}

func (r *Repository) CloseSession(ctx context.Context, id string) (float64, error) {
	var started time.Time
	var ended sql.NullTime

	query := `SELECT started_at, ended_at FROM activities WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&started, &ended)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, unavailable(err)
	}
	if ended.Valid {
		return 0, common.ErrAlreadyClosed
	}

	end := r.now().In(r.loc)
	hours := store.HoursBetween(started, end)

	// The ended_at IS NULL guard closes the race with a concurrent sweep.
	res, err := r.db.ExecContext(ctx,
		`UPDATE activities SET ended_at = $1, hours_worked = $2 WHERE id = $3 AND ended_at IS NULL`,
		end, hours, id)
	if err != nil {
		return 0, unavailable(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable(err)
	}
	if affected == 0 {
		return 0, common.ErrAlreadyClosed
	}

	return hours, nil
}

func (r *Repository) FindOpenSession(ctx context.Context, ownerID string) (*store.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM activities
		WHERE owner_id = $1 AND ended_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, unavailable(err)
	}
	return s, nil
}

func (r *Repository) ListOpenSessions(ctx context.Context, ownerID string) ([]*store.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM activities
		WHERE ended_at IS NULL`
	args := []any{}
	if ownerID != "" {
		query += ` AND owner_id = $1`
		args = append(args, ownerID)
	}
	query += ` ORDER BY started_at DESC`

	return r.querySessions(ctx, query, args...)
}

func (r *Repository) ListRecent(ctx context.Context, ownerID string, limit int) ([]*store.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM activities`
	args := []any{}
	if ownerID != "" {
		query += ` WHERE owner_id = $1`
		args = append(args, ownerID)
	}
	query += fmt.Sprintf(` ORDER BY started_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	return r.querySessions(ctx, query, args...)
}

func (r *Repository) querySessions(ctx context.Context, query string, args ...any) ([]*store.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var sessions []*store.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, unavailable(err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return sessions, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (*store.Session, error) {
	s := &store.Session{}
	var ended sql.NullTime
	var hours sql.NullFloat64

	if err := sc.Scan(&s.ID, &s.ActivityType, &s.Description, &s.OwnerID, &s.StartedAt, &ended, &hours); err != nil {
		return nil, err
	}
	if ended.Valid {
		s.EndedAt = &ended.Time
	}
	if hours.Valid {
		s.HoursWorked = &hours.Float64
	}
	return s, nil
}
