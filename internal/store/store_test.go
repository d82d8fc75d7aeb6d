package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoursBetween(t *testing.T) {
	t0 := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want float64
	}{
		{name: "two and a half hours", end: t0.Add(2*time.Hour + 30*time.Minute), want: 2.5},
		{name: "zero", end: t0, want: 0},
		{name: "negative clamps to zero", end: t0.Add(-time.Hour), want: 0},
		{name: "sub-second rounds", end: t0.Add(time.Second), want: 0.0002777778},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, HoursBetween(t0, tc.end), 1e-9)
		})
	}
}

func TestSession_Open(t *testing.T) {
	s := &Session{StartedAt: time.Now()}
	assert.True(t, s.Open())

	end := time.Now()
	h := 1.0
	s.EndedAt = &end
	s.HoursWorked = &h
	assert.False(t, s.Open())
}
