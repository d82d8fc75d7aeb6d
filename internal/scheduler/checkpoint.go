package scheduler

import (
	"fmt"
	"strconv"
	"strings"
)

// Checkpoint is a fixed daily wall-clock time, labeled "HH:MM", at which
// any open session is auto-closed.
type Checkpoint struct {
	Label  string
	Hour   int
	Minute int
}

// ParseCheckpoint validates a "HH:MM" label.
func ParseCheckpoint(label string) (Checkpoint, error) {
	parts := strings.Split(label, ":")
	if len(parts) != 2 {
		return Checkpoint{}, fmt.Errorf("invalid checkpoint %q: want HH:MM", label)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return Checkpoint{}, fmt.Errorf("invalid checkpoint %q: bad hour", label)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return Checkpoint{}, fmt.Errorf("invalid checkpoint %q: bad minute", label)
	}
	return Checkpoint{Label: fmt.Sprintf("%02d:%02d", hour, minute), Hour: hour, Minute: minute}, nil
}

// ParseCheckpoints parses all labels, rejecting duplicates.
func ParseCheckpoints(labels []string) ([]Checkpoint, error) {
	seen := make(map[string]struct{}, len(labels))
	out := make([]Checkpoint, 0, len(labels))
	for _, label := range labels {
		cp, err := ParseCheckpoint(strings.TrimSpace(label))
		if err != nil {
			return nil, err
		}
		if _, dup := seen[cp.Label]; dup {
			return nil, fmt.Errorf("duplicate checkpoint %q", cp.Label)
		}
		seen[cp.Label] = struct{}{}
		out = append(out, cp)
	}
	return out, nil
}
