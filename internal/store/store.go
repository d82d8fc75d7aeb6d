// Package store defines the activity store contract: the remote system of
// record for work sessions. The core talks to it only through the Store
// interface; internal/store/postgres carries the production implementation
// and internal/store/memory backs tests.
package store

import (
	"context"
	"math"
	"time"
)

// Session is one tracked interval of activity. EndedAt and HoursWorked are
// either both set (closed session) or both nil (open session).
type Session struct {
	ID           string
	ActivityType string
	Description  string
	OwnerID      string
	StartedAt    time.Time
	EndedAt      *time.Time
	HoursWorked  *float64
}

// Open reports whether the session has no end time yet.
func (s *Session) Open() bool {
	return s.EndedAt == nil
}

// Store is the remote persistence contract consumed by the session state
// machine and the shutdown finalizer. Implementations must be safe for
// concurrent use; each method is a single atomic request.
type Store interface {
	// CreateSession persists a new open session starting now and returns
	// the store-assigned identifier.
	CreateSession(ctx context.Context, activityType, description, ownerID string) (string, error)

	// CloseSession sets the end time on an open session, derives the
	// worked hours, and returns them. Closing an already-closed session
	// returns common.ErrAlreadyClosed; an unknown id returns
	// common.ErrNotFound.
	CloseSession(ctx context.Context, id string) (float64, error)

	// FindOpenSession returns the latest open session owned by ownerID,
	// or common.ErrNotFound when there is none.
	FindOpenSession(ctx context.Context, ownerID string) (*Session, error)

	// ListOpenSessions returns all open sessions, newest first. An empty
	// ownerID means no owner filter.
	ListOpenSessions(ctx context.Context, ownerID string) ([]*Session, error)

	// ListRecent returns up to limit sessions, newest first, optionally
	// filtered by owner.
	ListRecent(ctx context.Context, ownerID string, limit int) ([]*Session, error)
}

// HoursBetween returns the wall-clock delta between start and end in
// hours, rounded to 10 decimal places so repeated arithmetic over many
// records does not accumulate binary floating-point drift.
func HoursBetween(start, end time.Time) float64 {
	h := end.Sub(start).Hours()
	if h < 0 {
		h = 0
	}
	return math.Round(h*1e10) / 1e10
}
