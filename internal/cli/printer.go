package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dsilva/worklog/internal/store"
)

// printer renders session events to the terminal. The scheduler emits
// events from its own goroutine, so writes are serialized.
type printer struct {
	mu  sync.Mutex
	out io.Writer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

func (p *printer) println(args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, args...)
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func (p *printer) SessionStarted(s *store.Session) {
	p.printf("Recording %q since %s\n", s.ActivityType, s.StartedAt.Format("15:04:05"))
}

func (p *printer) SessionResumed(s *store.Session) {
	p.printf("Resumed open session %q started at %s\n",
		s.ActivityType, s.StartedAt.Format("2006-01-02 15:04:05"))
}

func (p *printer) SessionEnded(activityType string, hours float64) {
	p.printf("Stopped %q: %.2f hours recorded\n", activityType, hours)
}

func (p *printer) AutoFinalized(checkpoint, activityType string, hours float64) {
	p.printf("\n[%s] Checkpoint reached, %q closed automatically: %.2f hours\n",
		checkpoint, activityType, hours)
}

func (p *printer) Error(kind, msg string) {
	p.printf("\n[%s] %s\n", kind, msg)
}
