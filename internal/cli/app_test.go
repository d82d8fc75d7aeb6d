package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsilva/worklog/internal/config"
	"github.com/dsilva/worklog/internal/logging"
	"github.com/dsilva/worklog/internal/store/memory"
	"github.com/dsilva/worklog/internal/vault"
)

// memCredStore is an in-memory CredentialStore for tests.
type memCredStore struct {
	records map[string]vault.CredentialRecord
}

func (m *memCredStore) LoadAll(context.Context) (map[string]vault.CredentialRecord, error) {
	out := make(map[string]vault.CredentialRecord, len(m.records))
	for k, v := range m.records {
		out[k] = v
	}
	return out, nil
}

func (m *memCredStore) SaveAll(_ context.Context, records map[string]vault.CredentialRecord) error {
	m.records = make(map[string]vault.CredentialRecord, len(records))
	for k, v := range records {
		m.records[k] = v
	}
	return nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// scriptInputs replaces the interactive prompt seams with scripted
// answers for the duration of the test.
func scriptInputs(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origText, origPassword := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText = origText; getPassword = origPassword })

	ti, pi := 0, 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if ti >= len(texts) {
			return "", io.EOF
		}
		s := texts[ti]
		ti++
		return s, nil
	}
	getPassword = func(io.Writer) ([]byte, error) {
		if pi >= len(passwords) {
			return nil, io.EOF
		}
		// Commands wipe the slice after use; hand out a copy.
		p := []byte(passwords[pi])
		pi++
		return p, nil
	}
}

func newTestApp(t *testing.T) (*App, *memory.Store, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.TickInterval = time.Hour // keep the scheduler quiet during tests
	cfg.CloseWaitTimeout = 5 * time.Second

	mem := memory.New()
	v := vault.New(&memCredStore{}, discardLogger())

	app, err := NewApp(cfg, v, mem, discardLogger())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	app.printer = newPrinter(out)
	return app, mem, out
}

func TestResolveActivityType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "1", want: "Research and Development"},
		{input: "6", want: "Meetings"},
		{input: "10", want: "Other"},
		{input: "0", want: ""},
		{input: "11", want: ""},
		{input: "Costs", want: "Costs"},
		{input: "costs", want: ""},
		{input: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveActivityType(tt.input), "input %q", tt.input)
	}
}

func TestRegisterLoginStartStop(t *testing.T) {
	app, mem, out := newTestApp(t)
	ctx := context.Background()

	scriptInputs(t,
		[]string{"alice", "alice", "6", "weekly sync"},
		[]string{"s3cret", "s3cret"})

	require.NoError(t, app.Register(ctx))
	require.NoError(t, app.Login(ctx))
	assert.True(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Welcome, alice!")

	require.NoError(t, app.Start(ctx))
	assert.Contains(t, app.getStatus(), "recording Meetings")

	require.NoError(t, app.Stop(ctx))
	assert.False(t, app.manager.Active())

	open, err := mem.ListOpenSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, open)

	app.Logout(ctx)
	assert.False(t, app.isLoggedIn())
}

func TestLogin_WrongPassword(t *testing.T) {
	app, _, out := newTestApp(t)
	ctx := context.Background()

	scriptInputs(t,
		[]string{"alice", "alice"},
		[]string{"s3cret", "wrong"})

	require.NoError(t, app.Register(ctx))
	err := app.Login(ctx)
	assert.Error(t, err)
	assert.False(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Invalid username or password.")
}

func TestLogin_ResumesOpenSession(t *testing.T) {
	app, mem, out := newTestApp(t)
	ctx := context.Background()

	_, err := mem.CreateSession(ctx, "Documentation", "left open yesterday", "alice")
	require.NoError(t, err)

	scriptInputs(t,
		[]string{"alice", "alice"},
		[]string{"s3cret", "s3cret"})

	require.NoError(t, app.Register(ctx))
	require.NoError(t, app.Login(ctx))

	assert.True(t, app.manager.Active())
	assert.Contains(t, out.String(), "Resumed open session")

	app.Logout(ctx)
}

func TestStart_UnknownType(t *testing.T) {
	app, _, _ := newTestApp(t)
	ctx := context.Background()

	scriptInputs(t,
		[]string{"alice", "alice", "gardening"},
		[]string{"s3cret", "s3cret"})

	require.NoError(t, app.Register(ctx))
	require.NoError(t, app.Login(ctx))

	err := app.Start(ctx)
	assert.Error(t, err)
	assert.False(t, app.manager.Active())

	app.Logout(ctx)
}

func TestShutdown_FinalizesOpenSessions(t *testing.T) {
	app, mem, out := newTestApp(t)
	ctx := context.Background()

	scriptInputs(t,
		[]string{"alice", "alice", "7", ""},
		[]string{"s3cret", "s3cret"})

	require.NoError(t, app.Register(ctx))
	require.NoError(t, app.Login(ctx))
	require.NoError(t, app.Start(ctx))

	app.Shutdown(ctx)

	open, err := mem.ListOpenSessions(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, open, "exit sweep closes whatever is still open")
	assert.Contains(t, out.String(), "Finalized 1 open session(s) on exit")
}

func TestList_PrintsRecentSessions(t *testing.T) {
	app, mem, out := newTestApp(t)
	ctx := context.Background()

	id, err := mem.CreateSession(ctx, "Costs", "", "alice")
	require.NoError(t, err)
	_, err = mem.CloseSession(ctx, id)
	require.NoError(t, err)
	_, err = mem.CreateSession(ctx, "Research and Development", "", "alice")
	require.NoError(t, err)

	scriptInputs(t,
		[]string{"alice", "alice"},
		[]string{"s3cret", "s3cret"})

	require.NoError(t, app.Register(ctx))
	require.NoError(t, app.Login(ctx))

	require.NoError(t, app.List(ctx))
	assert.Contains(t, out.String(), "Costs")
	assert.Contains(t, out.String(), "Research and Development")
	assert.Contains(t, out.String(), "open")

	app.Logout(ctx)
}
