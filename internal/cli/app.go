// Package cli implements the interactive terminal client: a small REPL
// over the credential vault, the session manager, and the checkpoint
// scheduler.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dsilva/worklog/internal/config"
	"github.com/dsilva/worklog/internal/finalizer"
	"github.com/dsilva/worklog/internal/logging"
	"github.com/dsilva/worklog/internal/scheduler"
	"github.com/dsilva/worklog/internal/session"
	"github.com/dsilva/worklog/internal/store"
	"github.com/dsilva/worklog/internal/vault"
)

// App wires the REPL to the vault, the activity store and the scheduler.
// A Manager and a Scheduler exist only while a user is logged in.
type App struct {
	config  *config.Config
	vault   *vault.Vault
	store   store.Store
	logger  logging.Logger
	loc     *time.Location
	cps     []scheduler.Checkpoint
	reader  *bufio.Reader
	printer *printer

	manager *session.Manager
	sched   *scheduler.Scheduler
}

// NewApp validates the checkpoint and timezone configuration and builds
// the application. The store and vault are constructed by the caller.
func NewApp(cfg *config.Config, v *vault.Vault, st store.Store, logger logging.Logger) (*App, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}
	cps, err := scheduler.ParseCheckpoints(cfg.Checkpoints)
	if err != nil {
		return nil, err
	}
	return &App{
		config:  cfg,
		vault:   v,
		store:   st,
		logger:  logger.With("module", "cli"),
		loc:     loc,
		cps:     cps,
		reader:  bufio.NewReader(os.Stdin),
		printer: newPrinter(os.Stdout),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.manager != nil
}

func (a *App) getStatus() string {
	if a.manager == nil {
		return ""
	}
	s := a.manager.OwnerID()
	if cur, ok := a.manager.Current(); ok {
		s += " recording " + cur.ActivityType
	}
	return fmt.Sprintf("(%s)", s)
}

// Run drives the REPL until the user exits or stdin closes, then runs the
// bounded-wait shutdown sweep.
func (a *App) Run(ctx context.Context) {
	a.printer.println("Welcome to worklog (type 'help' for commands)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		a.printer.printf("worklog %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				a.printer.println("Available commands: start, stop, status, (l)ist, logout, exit")
			} else {
				a.printer.println("Available commands: register, login, exit")
			}
		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "start":
			_ = a.Start(ctx)
		case "stop":
			_ = a.Stop(ctx)
		case "status":
			a.Status(ctx)
		case "l", "list":
			_ = a.List(ctx)
		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			a.printer.println("Bye!")
			a.Shutdown(ctx)
			return
		default:
			a.printer.println("Unknown command:", cmd)
		}
	}

	a.Shutdown(ctx)
}

// Shutdown stops the scheduler and closes whatever is still open in the
// store, waiting at most CloseWaitTimeout.
func (a *App) Shutdown(ctx context.Context) {
	if a.sched != nil {
		a.sched.Stop()
		a.sched = nil
	}

	owner := ""
	if a.manager != nil {
		owner = a.manager.OwnerID()
	}
	fin := finalizer.New(a.store, a.logger, a.config.FinalizeScope, owner)
	closed, ok := fin.WaitTimeout(ctx, a.config.CloseWaitTimeout)
	if !ok {
		a.printer.println("Shutdown sweep did not finish in time; open sessions may remain.")
		return
	}
	if closed > 0 {
		a.printer.printf("Finalized %d open session(s) on exit\n", closed)
	}
}

// out exposes the printer's writer to the prompt helpers.
func (a *App) out() io.Writer {
	return a.printer.out
}
