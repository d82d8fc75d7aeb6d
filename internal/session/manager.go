// Package session holds the in-memory state machine for the current work
// session: Idle (no open session) or Active (exactly one). All transitions
// go through the activity store, and the single mutex keeps them strictly
// sequential even when the scheduler fires on another goroutine.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dsilva/worklog/internal/common"
	"github.com/dsilva/worklog/internal/logging"
	"github.com/dsilva/worklog/internal/store"
)

// Manager enforces the one-open-session invariant for a single logged-in
// identity. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	store    store.Store
	logger   logging.Logger
	listener Listener
	ownerID  string
	current  *store.Session // nil while Idle
	now      func() time.Time
}

func NewManager(st store.Store, ownerID string, logger logging.Logger, listener Listener) *Manager {
	if listener == nil {
		listener = NopListener{}
	}
	return &Manager{
		store:    st,
		logger:   logger.With("module", "session"),
		listener: listener,
		ownerID:  ownerID,
		now:      time.Now,
	}
}

// OwnerID returns the identity this manager tracks sessions for.
func (m *Manager) OwnerID() string { return m.ownerID }

// Active reports whether a session is currently open.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// Current returns a copy of the open session, if any.
func (m *Manager) Current() (store.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return store.Session{}, false
	}
	return *m.current, true
}

// Resume queries the store for an open session owned by the current
// identity and, when found, enters Active with its data. Returns nil
// without error when there is nothing to resume.
func (m *Manager) Resume(ctx context.Context) (*store.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return nil, fmt.Errorf("%w: session already active", common.ErrInvalidState)
	}

	s, err := m.store.FindOpenSession(ctx, m.ownerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	m.current = s
	m.logger.Info(ctx, "session resumed", "id", s.ID, "type", s.ActivityType)
	m.listener.SessionResumed(s)
	return s, nil
}

// Start opens a new session of the given type. Valid only while Idle;
// on store failure the manager stays Idle.
func (m *Manager) Start(ctx context.Context, activityType, description string) (*store.Session, error) {
	if activityType == "" {
		return nil, fmt.Errorf("%w: activity type is required", common.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return nil, fmt.Errorf("%w: a session is already running", common.ErrInvalidState)
	}

	started := m.now()
	id, err := m.store.CreateSession(ctx, activityType, description, m.ownerID)
	if err != nil {
		return nil, err
	}

	m.current = &store.Session{
		ID:           id,
		ActivityType: activityType,
		Description:  description,
		OwnerID:      m.ownerID,
		StartedAt:    started,
	}
	m.logger.Info(ctx, "session started", "id", id, "type", activityType)
	m.listener.SessionStarted(m.current)
	return m.current, nil
}

// Stop closes the open session. Valid only while Active; on store
// failure the manager stays Active so the caller may retry.
func (m *Manager) Stop(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hours, activityType, err := m.stopLocked(ctx)
	if err != nil {
		return 0, err
	}
	m.listener.SessionEnded(activityType, hours)
	return hours, nil
}

// StopAuto is the checkpoint-triggered variant of Stop: same transition,
// but it announces itself as an auto-finalization.
func (m *Manager) StopAuto(ctx context.Context, checkpoint string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hours, activityType, err := m.stopLocked(ctx)
	if err != nil {
		return 0, err
	}
	m.logger.Info(ctx, "session auto-finalized", "checkpoint", checkpoint, "type", activityType)
	m.listener.AutoFinalized(checkpoint, activityType, hours)
	return hours, nil
}

func (m *Manager) stopLocked(ctx context.Context) (float64, string, error) {
	if m.current == nil {
		return 0, "", fmt.Errorf("%w: no session is running", common.ErrInvalidState)
	}

	activityType := m.current.ActivityType

	hours, err := m.store.CloseSession(ctx, m.current.ID)
	if err != nil {
		// A session closed or deleted behind our back (another process,
		// an orphan sweep) no longer belongs in memory; drop it and let
		// the caller know. Any other failure keeps Active for retry.
		if errors.Is(err, common.ErrAlreadyClosed) || errors.Is(err, common.ErrNotFound) {
			m.logger.Warn(ctx, "open session vanished remotely", "id", m.current.ID, "error", err.Error())
			m.current = nil
		}
		return 0, "", err
	}

	m.logger.Info(ctx, "session stopped", "id", m.current.ID, "hours", hours)
	m.current = nil
	return hours, activityType, nil
}
