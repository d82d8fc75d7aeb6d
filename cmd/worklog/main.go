package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dsilva/worklog/internal/cli"
	"github.com/dsilva/worklog/internal/config"
	"github.com/dsilva/worklog/internal/finalizer"
	"github.com/dsilva/worklog/internal/logging"
	"github.com/dsilva/worklog/internal/store"
	"github.com/dsilva/worklog/internal/store/postgres"
	"github.com/dsilva/worklog/internal/vault"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	credStore, err := vault.OpenSQLiteStore(ctx, cfg.CredentialDBPath)
	if err != nil {
		log.Printf("credential db init error: %v", err)
		return 1
	}
	defer credStore.Close()

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Printf("activity store init error: %v", err)
		return 1
	}
	defer db.Close()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("timezone error: %v", err)
		return 1
	}

	st := postgres.NewRepository(db, loc)
	v := vault.New(credStore, logger)

	app, err := cli.NewApp(cfg, v, st, logger)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	initSignalHandler(ctx, cancel, cfg, st, logger)

	app.Run(ctx)
	return 0
}

// initSignalHandler sweeps open sessions when the process is killed out
// from under the REPL, then exits 0.
func initSignalHandler(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, st store.Store, logger logging.Logger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		sig := <-sigs
		logger.Warn(ctx, "signal received, sweeping open sessions", "signal", sig.String())

		fin := finalizer.New(st, logger, cfg.FinalizeScope, "")
		sweepOnSignal(sig, fin, cfg)
		cancel()
		os.Exit(0)
	}()
}

// sweepOnSignal picks the sweep mode for a termination signal. Ctrl+C on
// an interactive terminal gets a brief bounded wait so the close has a
// real chance to land; hard termination signals get the detached
// fire-and-forget sweep, since blocking only risks the OS force-killing
// the process.
func sweepOnSignal(sig os.Signal, fin *finalizer.Finalizer, cfg *config.Config) {
	if sig == syscall.SIGINT {
		fin.WaitTimeout(context.Background(), cfg.InterruptWaitTimeout)
		return
	}
	fin.Detach(context.Background())
}
