package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCheckpoint(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		want    Checkpoint
		wantErr bool
	}{
		{name: "ok", label: "11:28", want: Checkpoint{Label: "11:28", Hour: 11, Minute: 28}},
		{name: "normalizes padding", label: "9:5", want: Checkpoint{Label: "09:05", Hour: 9, Minute: 5}},
		{name: "midnight", label: "00:00", want: Checkpoint{Label: "00:00"}},
		{name: "hour out of range", label: "24:00", wantErr: true},
		{name: "minute out of range", label: "16:60", wantErr: true},
		{name: "missing colon", label: "1610", wantErr: true},
		{name: "not a number", label: "ab:cd", wantErr: true},
		{name: "empty", label: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCheckpoint(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCheckpoints_RejectsDuplicates(t *testing.T) {
	_, err := ParseCheckpoints([]string{"11:28", "16:10", "11:28"})
	assert.ErrorContains(t, err, "duplicate")
}

func TestParseCheckpoints_TrimsWhitespace(t *testing.T) {
	cps, err := ParseCheckpoints([]string{" 11:28 ", "16:10"})
	require.NoError(t, err)
	require.Len(t, cps, 2)
	assert.Equal(t, "11:28", cps[0].Label)
	assert.Equal(t, "16:10", cps[1].Label)
}
