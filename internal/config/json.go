package config

import (
	"encoding/json"
	"os"

	"github.com/dsilva/worklog/internal/flagx"
	"github.com/dsilva/worklog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// may be given either as strings like "30s" or as integer nanoseconds.
type JsonConfig struct {
	DatabaseDSN          *string         `json:"database_dsn"`
	CredentialDBPath     *string         `json:"credential_db_path"`
	Timezone             *string         `json:"timezone"`
	Checkpoints          []string        `json:"checkpoints"`
	TickInterval         *timex.Duration `json:"tick_interval"`
	CloseWaitTimeout     *timex.Duration `json:"close_wait_timeout"`
	InterruptWaitTimeout *timex.Duration `json:"interrupt_wait_timeout"`
	FinalizeScope        *string         `json:"finalize_scope"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flag. Absent fields keep their current values. Read or
// unmarshal errors panic; an unreadable explicit config is unrecoverable.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.CredentialDBPath != nil {
		cfg.CredentialDBPath = *jc.CredentialDBPath
	}
	if jc.Timezone != nil {
		cfg.Timezone = *jc.Timezone
	}
	if len(jc.Checkpoints) > 0 {
		cfg.Checkpoints = jc.Checkpoints
	}
	if jc.TickInterval != nil {
		cfg.TickInterval = jc.TickInterval.Duration
	}
	if jc.CloseWaitTimeout != nil {
		cfg.CloseWaitTimeout = jc.CloseWaitTimeout.Duration
	}
	if jc.InterruptWaitTimeout != nil {
		cfg.InterruptWaitTimeout = jc.InterruptWaitTimeout.Duration
	}
	if jc.FinalizeScope != nil {
		cfg.FinalizeScope = *jc.FinalizeScope
	}
}
