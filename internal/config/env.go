package config

import (
	"os"
	"strings"
)

// parseEnv overlays cfg with values from WORKLOG_* environment variables.
// Deployments usually carry the remote store DSN this way rather than in
// a config file.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("WORKLOG_DATABASE_DSN"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("WORKLOG_CREDENTIAL_DB"); ok {
		cfg.CredentialDBPath = v
	}
	if v, ok := os.LookupEnv("WORKLOG_TIMEZONE"); ok {
		cfg.Timezone = v
	}
	if v, ok := os.LookupEnv("WORKLOG_CHECKPOINTS"); ok {
		cfg.Checkpoints = splitList(v)
	}
	if v, ok := os.LookupEnv("WORKLOG_FINALIZE_SCOPE"); ok {
		cfg.FinalizeScope = v
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
