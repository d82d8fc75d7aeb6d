// Package memory implements the activity store in process memory. It
// backs unit tests of the session state machine, the scheduler, and the
// shutdown finalizer, and mirrors the semantics of the postgres store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dsilva/worklog/internal/common"
	"github.com/dsilva/worklog/internal/store"
)

type Store struct {
	mu       sync.Mutex
	sessions map[string]*store.Session
	seq      []string // ids in creation order

	// Now is the clock used for start/end timestamps. Tests may replace it.
	Now func() time.Time
}

func New() *Store {
	return &Store{
		sessions: make(map[string]*store.Session),
		Now:      time.Now,
	}
}

func (m *Store) CreateSession(ctx context.Context, activityType, description, ownerID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.sessions[id] = &store.Session{
		ID:           id,
		ActivityType: activityType,
		Description:  description,
		OwnerID:      ownerID,
		StartedAt:    m.Now(),
	}
	m.seq = append(m.seq, id)
	return id, nil
}

func (m *Store) CloseSession(ctx context.Context, id string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return 0, common.ErrNotFound
	}
	if !s.Open() {
		return 0, common.ErrAlreadyClosed
	}

	end := m.Now()
	hours := store.HoursBetween(s.StartedAt, end)
	s.EndedAt = &end
	s.HoursWorked = &hours
	return hours, nil
}

func (m *Store) FindOpenSession(ctx context.Context, ownerID string) (*store.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Latest open session wins, as in the postgres query.
	for i := len(m.seq) - 1; i >= 0; i-- {
		s := m.sessions[m.seq[i]]
		if s.Open() && s.OwnerID == ownerID {
			return copySession(s), nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *Store) ListOpenSessions(ctx context.Context, ownerID string) ([]*store.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*store.Session
	for _, id := range m.seq {
		s := m.sessions[id]
		if !s.Open() {
			continue
		}
		if ownerID != "" && s.OwnerID != ownerID {
			continue
		}
		out = append(out, copySession(s))
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *Store) ListRecent(ctx context.Context, ownerID string, limit int) ([]*store.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*store.Session
	for _, id := range m.seq {
		s := m.sessions[id]
		if ownerID != "" && s.OwnerID != ownerID {
			continue
		}
		out = append(out, copySession(s))
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Get returns a copy of the stored session, for test assertions.
func (m *Store) Get(id string) (*store.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return copySession(s), true
}

func copySession(s *store.Session) *store.Session {
	c := *s
	if s.EndedAt != nil {
		end := *s.EndedAt
		c.EndedAt = &end
	}
	if s.HoursWorked != nil {
		h := *s.HoursWorked
		c.HoursWorked = &h
	}
	return &c
}

func sortNewestFirst(sessions []*store.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
}
