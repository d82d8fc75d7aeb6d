package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsilva/worklog/internal/common"
	"github.com/dsilva/worklog/internal/scheduler"
	"github.com/dsilva/worklog/internal/session"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and password and creates a vault
// account. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", a.out())
	if err != nil {
		return err
	}

	password, err := getPassword(a.out())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.vault.CreateAccount(ctx, username, password); err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			a.printer.println("That username is taken.")
		case errors.Is(err, common.ErrValidation):
			a.printer.println("Username and password must not be empty.")
		default:
			a.printer.println("Registration failed:", err.Error())
		}
		return err
	}

	a.printer.println("Account created. You can now log in.")
	return nil
}

// Login authenticates against the vault and, on success, builds the
// session manager, resumes any open session left in the store, and starts
// the checkpoint scheduler.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		a.printer.println("Already logged in; use 'logout' first.")
		return nil
	}

	username, err := getSimpleText(a.reader, "Enter username", a.out())
	if err != nil {
		return err
	}

	password, err := getPassword(a.out())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.vault.Authenticate(ctx, username, password); err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrUnauthorized) {
			a.printer.println("Invalid username or password.")
		} else {
			a.printer.println("Login failed:", err.Error())
		}
		return err
	}

	a.manager = session.NewManager(a.store, username, a.logger, a.printer)

	if _, err := a.manager.Resume(ctx); err != nil {
		// Not fatal; the user can still start sessions once the store
		// recovers.
		a.printer.println("Could not check for an open session:", err.Error())
	}

	a.sched = scheduler.New(a.manager, a.printer, a.logger, a.loc, a.cps, a.config.TickInterval)
	a.sched.Start()

	a.printer.printf("Welcome, %s!\n", username)
	return nil
}

// Logout stops the scheduler and discards the manager. An open session is
// left open in the store; it will be resumed on the next login or closed
// by the shutdown sweep.
func (a *App) Logout(ctx context.Context) {
	if !a.isLoggedIn() {
		return
	}
	if a.sched != nil {
		a.sched.Stop()
		a.sched = nil
	}
	if cur, ok := a.manager.Current(); ok {
		a.printer.printf("Note: session %q is still open; it will be resumed on next login.\n",
			cur.ActivityType)
	}
	a.manager = nil
	a.printer.println("Logged out.")
}

// Start prompts for an activity type from the catalogue and opens a
// session.
func (a *App) Start(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printer.println("Log in first.")
		return nil
	}

	a.printer.println("Activity types:")
	for i, t := range ActivityTypes {
		a.printer.printf("  %2d. %s\n", i+1, t)
	}

	choice, err := getSimpleText(a.reader, "Pick a type (number or name)", a.out())
	if err != nil {
		return err
	}
	activityType := resolveActivityType(choice)
	if activityType == "" {
		a.printer.println("Unknown activity type:", choice)
		return fmt.Errorf("%w: unknown activity type %q", common.ErrValidation, choice)
	}

	description, err := getSimpleText(a.reader, "Description (optional)", a.out())
	if err != nil {
		return err
	}

	if _, err := a.manager.Start(ctx, activityType, description); err != nil {
		if errors.Is(err, common.ErrInvalidState) {
			a.printer.println("A session is already running; stop it first.")
		} else {
			a.printer.println("Could not start session:", err.Error())
		}
		return err
	}
	return nil
}

// Stop closes the running session.
func (a *App) Stop(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printer.println("Log in first.")
		return nil
	}

	if _, err := a.manager.Stop(ctx); err != nil {
		if errors.Is(err, common.ErrInvalidState) {
			a.printer.println("No session is running.")
		} else {
			a.printer.println("Could not stop session:", err.Error())
		}
		return err
	}
	return nil
}

// Status shows the current session, if any.
func (a *App) Status(ctx context.Context) {
	if !a.isLoggedIn() {
		a.printer.println("Not logged in.")
		return
	}
	cur, ok := a.manager.Current()
	if !ok {
		a.printer.println("Idle; no session running.")
		return
	}
	a.printer.printf("Recording %q since %s\n",
		cur.ActivityType, cur.StartedAt.In(a.loc).Format("2006-01-02 15:04:05"))
}

// List prints the most recent sessions of the logged-in user.
func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printer.println("Log in first.")
		return nil
	}

	sessions, err := a.store.ListRecent(ctx, a.manager.OwnerID(), 20)
	if err != nil {
		a.printer.println("Could not list sessions:", err.Error())
		return err
	}
	if len(sessions) == 0 {
		a.printer.println("No sessions recorded yet.")
		return nil
	}

	for _, s := range sessions {
		state := "open"
		if !s.Open() && s.HoursWorked != nil {
			state = fmt.Sprintf("%.2f h", *s.HoursWorked)
		}
		a.printer.printf("%s  %-28s %s\n",
			s.StartedAt.In(a.loc).Format("2006-01-02 15:04"), s.ActivityType, state)
	}
	return nil
}
