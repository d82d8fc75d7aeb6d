// Package scheduler drives the daily auto-finalization checkpoints. A
// short fixed-interval ticker compares the wall clock, truncated to the
// minute, against the configured checkpoints; a date-keyed dedup map
// guarantees each checkpoint fires at most once per calendar day. The
// dedup entry is written before the finalization is dispatched, so a slow
// or failing stop can never cause a second firing the same day.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dsilva/worklog/internal/common"
	"github.com/dsilva/worklog/internal/logging"
)

// Stopper is the slice of the session manager the scheduler needs.
type Stopper interface {
	Active() bool
	StopAuto(ctx context.Context, checkpoint string) (float64, error)
}

// ErrorReporter surfaces non-fatal scheduler failures to the
// presentation layer; the scheduler runs unattended and never blocks on
// user interaction.
type ErrorReporter interface {
	Error(kind, msg string)
}

// Scheduler owns only a timer handle and the stop capability of the
// session manager. Start it on login, stop it on logout.
type Scheduler struct {
	stopper     Stopper
	reporter    ErrorReporter
	logger      logging.Logger
	loc         *time.Location
	checkpoints []Checkpoint
	interval    time.Duration

	mu        sync.Mutex
	lastFired map[string]string // checkpoint label -> "2006-01-02" of last firing
	cancel    context.CancelFunc

	now func() time.Time
}

func New(stopper Stopper, reporter ErrorReporter, logger logging.Logger, loc *time.Location, checkpoints []Checkpoint, interval time.Duration) *Scheduler {
	return &Scheduler{
		stopper:     stopper,
		reporter:    reporter,
		logger:      logger.With("module", "scheduler"),
		loc:         loc,
		checkpoints: checkpoints,
		interval:    interval,
		lastFired:   make(map[string]string),
		now:         time.Now,
	}
}

// Start launches the periodic checkpoint check. Calling Start on a
// running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)

	s.logger.Info(ctx, "scheduler started",
		"checkpoints", len(s.checkpoints), "interval", s.interval.String())
}

// Stop cancels the periodic check. Idempotent and safe to call on a
// scheduler that was never started. An in-flight finalization dispatch is
// left to finish on its own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// check fires every due checkpoint exactly once per day. The dedup write
// happens before the dispatch, unconditionally, whether or not a session
// is open.
func (s *Scheduler) check(ctx context.Context) {
	now := s.now().In(s.loc)
	hhmm := now.Format("15:04")
	today := now.Format("2006-01-02")

	for _, cp := range s.checkpoints {
		s.mu.Lock()
		due := cp.Label == hhmm && s.lastFired[cp.Label] != today
		if due {
			s.lastFired[cp.Label] = today
		}
		s.mu.Unlock()
		if !due {
			continue
		}

		s.logger.Info(ctx, "checkpoint reached", "checkpoint", cp.Label, "date", today)

		if !s.stopper.Active() {
			continue
		}

		// Dispatch off the timer goroutine so a slow store call cannot
		// delay later ticks.
		go s.finalize(cp.Label)
	}
}

func (s *Scheduler) finalize(checkpoint string) {
	ctx := context.Background()

	_, err := s.stopper.StopAuto(ctx, checkpoint)
	if err == nil {
		return
	}
	// The session may have gone away between the Active check and the
	// stop; both outcomes mean there was nothing left to finalize.
	if errors.Is(err, common.ErrInvalidState) ||
		errors.Is(err, common.ErrAlreadyClosed) ||
		errors.Is(err, common.ErrNotFound) {
		return
	}

	s.logger.Error(ctx, "auto-finalization failed", "checkpoint", checkpoint, "error", err.Error())
	if s.reporter != nil {
		s.reporter.Error("auto_finalize", "automatic finalization at "+checkpoint+" failed: "+err.Error())
	}
}
