package session

import "github.com/dsilva/worklog/internal/store"

// Listener receives the presentation-facing events the core emits on
// state transitions. The UI layer decides how to render them; components
// that do not care can embed NopListener.
type Listener interface {
	SessionStarted(s *store.Session)
	SessionResumed(s *store.Session)
	SessionEnded(activityType string, hours float64)
	AutoFinalized(checkpoint, activityType string, hours float64)
	Error(kind, msg string)
}

// NopListener ignores all events.
type NopListener struct{}

func (NopListener) SessionStarted(*store.Session)         {}
func (NopListener) SessionResumed(*store.Session)         {}
func (NopListener) SessionEnded(string, float64)          {}
func (NopListener) AutoFinalized(string, string, float64) {}
func (NopListener) Error(string, string)                  {}
