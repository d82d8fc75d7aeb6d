// Package finalizer sweeps open sessions at shutdown. The process may be
// leaving because the user asked to, because of a signal, or because the
// runtime is tearing down; in every case whatever is still open in the
// store gets closed, best effort, one record at a time.
package finalizer

import (
	"context"
	"time"

	"github.com/dsilva/worklog/internal/config"
	"github.com/dsilva/worklog/internal/logging"
	"github.com/dsilva/worklog/internal/store"
)

// Finalizer closes open sessions left behind in the activity store.
type Finalizer struct {
	store   store.Store
	logger  logging.Logger
	scope   string
	ownerID string
}

// New builds a Finalizer. scope is config.ScopeAll or config.ScopeOwner;
// with ScopeOwner only sessions belonging to ownerID are swept.
func New(st store.Store, logger logging.Logger, scope, ownerID string) *Finalizer {
	return &Finalizer{
		store:   st,
		logger:  logger.With("module", "finalizer"),
		scope:   scope,
		ownerID: ownerID,
	}
}

// Run lists the open sessions in scope and closes each one. A failure on
// one record is logged and the sweep moves on; the count of successfully
// closed sessions is returned. A listing failure returns 0 with the
// error. An owner-scoped sweep with no owner identity sweeps nothing:
// the empty owner must not widen the scope to every user's sessions.
func (f *Finalizer) Run(ctx context.Context) (int, error) {
	owner := ""
	if f.scope == config.ScopeOwner {
		if f.ownerID == "" {
			f.logger.Warn(ctx, "owner-scoped sweep without an identity, skipping")
			return 0, nil
		}
		owner = f.ownerID
	}

	sessions, err := f.store.ListOpenSessions(ctx, owner)
	if err != nil {
		f.logger.Error(ctx, "orphan sweep failed to list open sessions", "error", err.Error())
		return 0, err
	}
	if len(sessions) == 0 {
		return 0, nil
	}

	closed := 0
	for _, s := range sessions {
		hours, err := f.store.CloseSession(ctx, s.ID)
		if err != nil {
			f.logger.Warn(ctx, "failed to finalize session", "id", s.ID, "error", err.Error())
			continue
		}
		closed++
		f.logger.Info(ctx, "session finalized at shutdown", "id", s.ID, "hours", hours)
	}

	if closed < len(sessions) {
		f.logger.Warn(ctx, "orphan sweep finished with failures",
			"closed", closed, "open", len(sessions))
	}
	return closed, nil
}

// Detach runs the sweep on its own goroutine and does not wait for it.
// For signal handlers, where the process is about to die and a hung store
// call must not keep it alive.
func (f *Finalizer) Detach(ctx context.Context) {
	go func() {
		if _, err := f.Run(ctx); err != nil {
			f.logger.Error(ctx, "detached sweep failed", "error", err.Error())
		}
	}()
}

// WaitTimeout runs the sweep and waits at most d for it to complete.
// Returns the closed count and true on completion, or 0 and false when
// the deadline expires first; the sweep itself is then abandoned.
func (f *Finalizer) WaitTimeout(ctx context.Context, d time.Duration) (int, bool) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		closed int
		err    error
	}
	done := make(chan result, 1)
	go func() {
		closed, err := f.Run(ctx)
		done <- result{closed: closed, err: err}
	}()

	select {
	case r := <-done:
		return r.closed, r.err == nil
	case <-ctx.Done():
		f.logger.Warn(ctx, "shutdown sweep timed out", "timeout", d.String())
		return 0, false
	}
}
