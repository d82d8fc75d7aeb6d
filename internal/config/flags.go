package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dsilva/worklog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN of the activity store
//	-u string   path of the local credential database
//	-z string   IANA timezone for checkpoint comparison
//	-k string   comma-separated checkpoint times ("11:28,16:10")
//	-i int      scheduler tick interval, seconds
//	-w int      bounded-wait timeout on explicit close, seconds
//	-scope string  orphan sweep scope: "all" or "owner"
//
// The function filters os.Args to only the flags it recognizes, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-u", "-z", "-k", "-i", "-w", "-scope"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "activity store DSN")
	fs.StringVar(&cfg.CredentialDBPath, "u", cfg.CredentialDBPath, "credential database path")
	fs.StringVar(&cfg.Timezone, "z", cfg.Timezone, "timezone for checkpoints")
	checkpoints := fs.String("k", strings.Join(cfg.Checkpoints, ","), "checkpoint times, comma-separated HH:MM")
	tickInterval := fs.Int("i", int(cfg.TickInterval.Seconds()), "scheduler tick interval (in seconds)")
	closeWait := fs.Int("w", int(cfg.CloseWaitTimeout.Seconds()), "close wait timeout (in seconds)")
	fs.StringVar(&cfg.FinalizeScope, "scope", cfg.FinalizeScope, `orphan sweep scope ("all" or "owner")`)

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Checkpoints = splitList(*checkpoints)
	cfg.TickInterval = time.Duration(*tickInterval) * time.Second
	cfg.CloseWaitTimeout = time.Duration(*closeWait) * time.Second
}
